package usecases

import (
	"context"
	"time"

	"github.com/orris-inc/licenser/internal/domain/license"
	vo "github.com/orris-inc/licenser/internal/domain/license/valueobjects"
	"github.com/orris-inc/licenser/internal/shared/errors"
	"github.com/orris-inc/licenser/internal/shared/logger"
)

// UpdateKeyCommand carries admin edits. Nil fields are left unchanged.
type UpdateKeyCommand struct {
	Key     string
	Max     *int
	Status  *string
	Expires *time.Time
	// NeverExpires clears the expiration and wins over Expires
	NeverExpires bool
}

// UpdateKeyUseCase applies direct admin mutations to a key.
type UpdateKeyUseCase struct {
	keyRepo license.KeyRepository
	logger  logger.Interface
}

func NewUpdateKeyUseCase(keyRepo license.KeyRepository, logger logger.Interface) *UpdateKeyUseCase {
	return &UpdateKeyUseCase{
		keyRepo: keyRepo,
		logger:  logger,
	}
}

func (uc *UpdateKeyUseCase) Execute(ctx context.Context, cmd UpdateKeyCommand) (*license.Key, error) {
	k, err := uc.keyRepo.GetByKey(ctx, cmd.Key)
	if err != nil {
		return nil, toAppError(err, "failed to get license key")
	}
	if k == nil {
		return nil, errors.NewNotFoundError(license.ErrKeyNotFound.Error())
	}

	if cmd.Max != nil {
		if err := k.SetMax(*cmd.Max); err != nil {
			return nil, toAppError(err, "failed to update license key")
		}
	}
	if cmd.Status != nil {
		status, ok := vo.ParseKeyStatus(*cmd.Status)
		if !ok {
			return nil, errors.NewValidationError("invalid status", *cmd.Status)
		}
		if err := k.SetStatus(status); err != nil {
			return nil, toAppError(err, "failed to update license key")
		}
	}
	switch {
	case cmd.NeverExpires:
		k.SetExpires(nil)
	case cmd.Expires != nil:
		k.SetExpires(cmd.Expires)
	}

	if err := uc.keyRepo.Update(ctx, k); err != nil {
		uc.logger.Errorw("failed to update license key", "error", err)
		return nil, toAppError(err, "failed to update license key")
	}

	uc.logger.Infow("license key updated",
		"product_id", k.ProductID(),
		"status", k.Status().String(),
		"max", k.Max(),
	)
	return k, nil
}
