package endpoints

import (
	"context"
	stderrors "errors"
	"strconv"
	"strings"

	"github.com/orris-inc/licenser/internal/domain/license"
	"github.com/orris-inc/licenser/internal/interfaces/http/dispatch"
	"github.com/orris-inc/licenser/internal/shared/errors"
)

// VersionEndpoint reports the latest release of the key's product with a
// signed package link for the requesting activation.
type VersionEndpoint struct {
	resolver CredentialResolver
	latest   LatestReleaseGetter
	links    *DownloadLinks
}

func NewVersionEndpoint(resolver CredentialResolver, latest LatestReleaseGetter, links *DownloadLinks) *VersionEndpoint {
	return &VersionEndpoint{resolver: resolver, latest: latest, links: links}
}

func (e *VersionEndpoint) AuthMode() dispatch.AuthMode {
	return dispatch.AuthActive
}

func (e *VersionEndpoint) AuthError() *errors.APIError {
	return dispatch.DefaultAuthError()
}

func (e *VersionEndpoint) Serve(ctx context.Context, req *dispatch.Request) (any, error) {
	rawID := req.Get("activation_id")
	if rawID == "" {
		return nil, errNoActivationID()
	}

	activation, err := e.resolver.ResolveActivation(ctx, req.Key, rawID)
	if stderrors.Is(err, license.ErrActivationNotFound) {
		return nil, errInvalidActivation()
	}
	if err != nil {
		return nil, err
	}
	if !activation.IsActive() {
		return nil, errInvalidActivation()
	}

	rel, err := e.latest.Execute(ctx, req.Key.ProductID())
	if err != nil {
		return nil, err
	}
	if rel == nil {
		return nil, errNoRelease()
	}

	packageURL, expires, err := e.links.PackageURL(activation.ID(), req.Key.Key(), rel.ID)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"list": map[string]any{
			strconv.FormatUint(uint64(rel.ProductID), 10): map[string]any{
				"version":        rel.Version,
				"package":        packageURL,
				"expires":        expires,
				"type":           rel.Type,
				"upgrade_notice": upgradeNotice(rel.Changelog),
			},
		},
	}, nil
}

// upgradeNotice is the first non-blank changelog line without list or
// heading markers.
func upgradeNotice(changelog string) string {
	for _, line := range strings.Split(changelog, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "#-*+ "))
		if line != "" {
			return line
		}
	}
	return ""
}
