package usecases

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/orris-inc/licenser/internal/domain/license"
	"github.com/orris-inc/licenser/internal/shared/biztime"
	"github.com/orris-inc/licenser/internal/shared/logger"
)

// DeactivateUseCase releases an activation slot of a key.
type DeactivateUseCase struct {
	activationRepo license.ActivationRepository
	logger         logger.Interface
	now            func() time.Time
}

func NewDeactivateUseCase(activationRepo license.ActivationRepository, logger logger.Interface) *DeactivateUseCase {
	return &DeactivateUseCase{
		activationRepo: activationRepo,
		logger:         logger,
		now:            biztime.NowUTC,
	}
}

// Execute deactivates activationID when it belongs to key. It returns
// license.ErrActivationNotFound otherwise. Deactivating an already
// deactivated activation returns it unchanged.
func (uc *DeactivateUseCase) Execute(ctx context.Context, key string, activationID uint) (*license.Activation, error) {
	activation, err := uc.activationRepo.GetByID(ctx, activationID)
	if err != nil {
		return nil, toAppError(err, "failed to load activation")
	}
	if activation == nil || !activation.BelongsTo(key) {
		return nil, license.ErrActivationNotFound
	}
	return uc.deactivate(ctx, activation)
}

// ExecuteByID deactivates an activation regardless of its key.
func (uc *DeactivateUseCase) ExecuteByID(ctx context.Context, activationID uint) (*license.Activation, error) {
	activation, err := uc.activationRepo.GetByID(ctx, activationID)
	if err != nil {
		return nil, toAppError(err, "failed to load activation")
	}
	if activation == nil {
		return nil, license.ErrActivationNotFound
	}
	return uc.deactivate(ctx, activation)
}

func (uc *DeactivateUseCase) deactivate(ctx context.Context, activation *license.Activation) (*license.Activation, error) {
	if err := activation.Deactivate(uc.now()); err != nil {
		if stderrors.Is(err, license.ErrActivationNotActive) {
			return activation, nil
		}
		return nil, toAppError(err, "failed to deactivate activation")
	}

	if err := uc.activationRepo.Update(ctx, activation); err != nil {
		uc.logger.Errorw("failed to save deactivation", "error", err, "activation_id", activation.ID())
		return nil, toAppError(err, "failed to deactivate activation")
	}

	uc.logger.Infow("activation deactivated",
		"activation_id", activation.ID(),
		"location", activation.Location(),
	)
	return activation, nil
}
