package endpoints

import (
	"github.com/orris-inc/licenser/internal/shared/errors"
)

func errMaxActivations() error {
	return errors.NewDomainAPIError(errors.CodeMaxActivations, "max activations reached")
}

func errInvalidLocation() error {
	return errors.NewAPIError(errors.CodeInvalidLocation, "invalid location")
}

func errNoLocation() error {
	return errors.NewAPIError(errors.CodeNoLocation, "no location provided")
}

func errInvalidActivation() error {
	return errors.NewAPIError(errors.CodeInvalidActivation, "activation not found")
}

func errNoActivationID() error {
	return errors.NewAPIError(errors.CodeNoActivationID, "no activation id provided")
}

func errNoRelease() error {
	return errors.NewDomainAPIError(errors.CodeNoRelease, "no release available")
}

func errInvalidDownload() error {
	return errors.NewAPIError(errors.CodeInvalidDownload, "invalid download")
}
