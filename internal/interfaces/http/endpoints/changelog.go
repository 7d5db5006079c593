package endpoints

import (
	"context"

	"github.com/orris-inc/licenser/internal/interfaces/http/dispatch"
	"github.com/orris-inc/licenser/internal/shared/errors"
)

// ChangelogEndpoint returns the HTML changelog of the key's product.
type ChangelogEndpoint struct {
	changelog ChangelogCompiler
}

func NewChangelogEndpoint(changelog ChangelogCompiler) *ChangelogEndpoint {
	return &ChangelogEndpoint{changelog: changelog}
}

func (e *ChangelogEndpoint) AuthMode() dispatch.AuthMode {
	return dispatch.AuthExists
}

func (e *ChangelogEndpoint) AuthError() *errors.APIError {
	return dispatch.DefaultAuthError()
}

func (e *ChangelogEndpoint) Serve(ctx context.Context, req *dispatch.Request) (any, error) {
	html, err := e.changelog.Execute(ctx, req.Key.ProductID())
	if err != nil {
		return nil, err
	}
	return dispatch.HTMLResponse{Body: html}, nil
}
