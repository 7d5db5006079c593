package endpoints

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// DownloadLinks builds signed package URLs pointing at the download action.
type DownloadLinks struct {
	tokens  DownloadTokens
	baseURL string
	prefix  string
}

func NewDownloadLinks(tokens DownloadTokens, baseURL, apiPrefix string) *DownloadLinks {
	return &DownloadLinks{
		tokens:  tokens,
		baseURL: strings.TrimRight(baseURL, "/"),
		prefix:  strings.Trim(apiPrefix, "/"),
	}
}

// PackageURL returns the signed URL and its expiry.
func (l *DownloadLinks) PackageURL(activationID uint, key string, releaseID uint) (string, time.Time, error) {
	token, expires, err := l.tokens.Sign(activationID, key, releaseID)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign download: %w", err)
	}
	query := url.Values{"token": {token}}
	return fmt.Sprintf("%s/%s/download/?%s", l.baseURL, l.prefix, query.Encode()), expires, nil
}
