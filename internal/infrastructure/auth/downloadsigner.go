package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/orris-inc/licenser/internal/shared/biztime"
	"github.com/orris-inc/licenser/internal/shared/id"
)

// DefaultDownloadTTL is how long a signed package URL stays valid.
const DefaultDownloadTTL = 24 * time.Hour

const downloadAudience = "licenser-download"

// DownloadGrant is what a download token authorizes.
type DownloadGrant struct {
	ActivationID uint
	Key          string
	ReleaseID    uint
	ExpiresAt    time.Time
}

type downloadClaims struct {
	ActivationID uint   `json:"aid"`
	Key          string `json:"key"`
	ReleaseID    uint   `json:"rid"`
	jwt.RegisteredClaims
}

// DownloadSigner signs and verifies download tokens with HS256.
type DownloadSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewDownloadSigner(secret string, ttl time.Duration) (*DownloadSigner, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if ttl <= 0 {
		ttl = DefaultDownloadTTL
	}
	return &DownloadSigner{
		secret: []byte(secret),
		ttl:    ttl,
		now:    biztime.NowUTC,
	}, nil
}

// TTL returns the validity of newly signed tokens.
func (s *DownloadSigner) TTL() time.Duration {
	return s.ttl
}

// Sign returns a token granting the activation a download of the release
// and the moment it stops being valid.
func (s *DownloadSigner) Sign(activationID uint, key string, releaseID uint) (string, time.Time, error) {
	jti, err := id.Generate(16)
	if err != nil {
		return "", time.Time{}, err
	}

	now := s.now()
	expires := now.Add(s.ttl)
	claims := &downloadClaims{
		ActivationID: activationID,
		Key:          key,
		ReleaseID:    releaseID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   strconv.FormatUint(uint64(activationID), 10),
			Audience:  jwt.ClaimStrings{downloadAudience},
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign download token: %w", err)
	}
	return signed, expires, nil
}

// Verify checks the signature and expiry of a download token.
func (s *DownloadSigner) Verify(tokenString string) (*DownloadGrant, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &downloadClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithAudience(downloadAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*downloadClaims)
	if !ok || !token.Valid || claims.ActivationID == 0 || claims.ReleaseID == 0 || claims.Key == "" {
		return nil, ErrInvalidToken
	}

	return &DownloadGrant{
		ActivationID: claims.ActivationID,
		Key:          claims.Key,
		ReleaseID:    claims.ReleaseID,
		ExpiresAt:    claims.ExpiresAt.Time,
	}, nil
}
