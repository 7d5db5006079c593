package endpoints

import (
	"context"
	stderrors "errors"
	"strconv"

	"github.com/orris-inc/licenser/internal/domain/license"
	"github.com/orris-inc/licenser/internal/interfaces/http/dispatch"
	"github.com/orris-inc/licenser/internal/shared/errors"
)

// DeactivateEndpoint releases one of the key's activations.
type DeactivateEndpoint struct {
	deactivator Deactivator
}

func NewDeactivateEndpoint(deactivator Deactivator) *DeactivateEndpoint {
	return &DeactivateEndpoint{deactivator: deactivator}
}

func (e *DeactivateEndpoint) AuthMode() dispatch.AuthMode {
	return dispatch.AuthExists
}

func (e *DeactivateEndpoint) AuthError() *errors.APIError {
	return dispatch.DefaultAuthError()
}

func (e *DeactivateEndpoint) Serve(ctx context.Context, req *dispatch.Request) (any, error) {
	raw := req.Post("id")
	if raw == "" {
		return nil, errNoActivationID()
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return nil, errInvalidActivation()
	}

	activation, err := e.deactivator.Execute(ctx, req.Key.Key(), uint(id))
	if stderrors.Is(err, license.ErrActivationNotFound) {
		return nil, errInvalidActivation()
	}
	if err != nil {
		return nil, err
	}
	return activationBody{activation: activation}, nil
}
