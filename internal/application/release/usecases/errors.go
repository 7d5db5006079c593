package usecases

import (
	stderrors "errors"

	"github.com/orris-inc/licenser/internal/domain/release"
	"github.com/orris-inc/licenser/internal/shared/errors"
)

var validationErrors = []error{
	release.ErrVersionRequired,
	release.ErrProductRequired,
	release.ErrDownloadRequired,
	release.ErrInvalidReleaseType,
	release.ErrInvalidStatusTransition,
	release.ErrInvalidUpgradePath,
}

func toAppError(err error, internalMsg string) error {
	if err == nil {
		return nil
	}
	if errors.IsAppError(err) {
		return err
	}
	if stderrors.Is(err, release.ErrDuplicateVersion) {
		return errors.NewConflictError(err.Error())
	}
	if stderrors.Is(err, release.ErrReleaseNotFound) {
		return errors.NewNotFoundError(err.Error())
	}
	for _, target := range validationErrors {
		if stderrors.Is(err, target) {
			return errors.NewValidationError(err.Error())
		}
	}
	return errors.NewInternalError(internalMsg, err.Error())
}

func releaseNotFound(id uint) error {
	return errors.NewNotFoundError(release.ErrReleaseNotFound.Error(), idDetail(id))
}
