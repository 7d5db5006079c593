package endpoints

import (
	"context"
	stderrors "errors"

	licenseUsecases "github.com/orris-inc/licenser/internal/application/license/usecases"
	"github.com/orris-inc/licenser/internal/domain/license"
	"github.com/orris-inc/licenser/internal/interfaces/http/dispatch"
	"github.com/orris-inc/licenser/internal/shared/errors"
)

// ActivateEndpoint binds the POSTed location to the key.
type ActivateEndpoint struct {
	activator Activator
}

func NewActivateEndpoint(activator Activator) *ActivateEndpoint {
	return &ActivateEndpoint{activator: activator}
}

func (e *ActivateEndpoint) AuthMode() dispatch.AuthMode {
	return dispatch.AuthActive
}

func (e *ActivateEndpoint) AuthError() *errors.APIError {
	return dispatch.DefaultAuthError()
}

func (e *ActivateEndpoint) Serve(ctx context.Context, req *dispatch.Request) (any, error) {
	location := req.Post("location")
	if location == "" {
		return nil, errNoLocation()
	}

	result, err := e.activator.Execute(ctx, licenseUsecases.ActivateCommand{
		Key:      req.Key,
		Location: location,
		Version:  req.Value("version"),
	})
	if stderrors.Is(err, license.ErrInvalidLocation) {
		return nil, errInvalidLocation()
	}
	if err != nil {
		return nil, err
	}

	if result.Outcome == license.OutcomeMaxReached {
		return nil, errMaxActivations()
	}
	return activationBody{activation: result.Activation}, nil
}
