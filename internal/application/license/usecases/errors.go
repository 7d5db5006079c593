package usecases

import (
	stderrors "errors"

	"github.com/orris-inc/licenser/internal/domain/license"
	"github.com/orris-inc/licenser/internal/domain/license/keygen"
	"github.com/orris-inc/licenser/internal/domain/product"
	"github.com/orris-inc/licenser/internal/shared/errors"
)

var validationErrors = []error{
	license.ErrKeyRequired,
	license.ErrKeyTooLong,
	license.ErrKeyNotRenewable,
	license.ErrInvalidStatusTransition,
	license.ErrInvalidStatus,
	license.ErrInvalidMax,
	license.ErrInvalidExpiration,
	license.ErrInvalidOwner,
	license.ErrInvalidLocation,
	license.ErrInvalidRevenue,
	license.ErrActivationNotActive,
	keygen.ErrInvalidLength,
	keygen.ErrMissingPattern,
	keygen.ErrUnexpectedValue,
	product.ErrLicensingDisabled,
}

// toAppError maps domain sentinel errors to validation errors. AppErrors
// pass through; anything else becomes an internal error.
func toAppError(err error, internalMsg string) error {
	if err == nil {
		return nil
	}
	if errors.IsAppError(err) {
		return err
	}
	for _, target := range validationErrors {
		if stderrors.Is(err, target) {
			return errors.NewValidationError(err.Error())
		}
	}
	return errors.NewInternalError(internalMsg, err.Error())
}
