package usecases

import (
	"context"
	"time"

	"github.com/orris-inc/licenser/internal/domain/license"
	"github.com/orris-inc/licenser/internal/domain/release"
	"github.com/orris-inc/licenser/internal/shared/biztime"
	"github.com/orris-inc/licenser/internal/shared/errors"
	"github.com/orris-inc/licenser/internal/shared/logger"
)

// RecordUpdateUseCase moves an activation to a release and appends the
// update trail entry.
type RecordUpdateUseCase struct {
	activationRepo license.ActivationRepository
	releaseRepo    release.Repository
	updateRepo     release.UpdateRepository
	txManager      TransactionManager
	logger         logger.Interface
	now            func() time.Time
}

func NewRecordUpdateUseCase(
	activationRepo license.ActivationRepository,
	releaseRepo release.Repository,
	updateRepo release.UpdateRepository,
	txManager TransactionManager,
	logger logger.Interface,
) *RecordUpdateUseCase {
	return &RecordUpdateUseCase{
		activationRepo: activationRepo,
		releaseRepo:    releaseRepo,
		updateRepo:     updateRepo,
		txManager:      txManager,
		logger:         logger,
		now:            biztime.NowUTC,
	}
}

// Execute returns nil, nil when the activation is already on rel.
func (uc *RecordUpdateUseCase) Execute(ctx context.Context, activation *license.Activation, rel *release.Release) (*release.Update, error) {
	if activation == nil || rel == nil {
		return nil, errors.NewValidationError("activation and release are required")
	}

	previousVersion := ""
	if current := activation.ReleaseID(); current != nil {
		if *current == rel.ID() {
			return nil, nil
		}
		previous, err := uc.releaseRepo.GetByID(ctx, *current)
		if err != nil {
			return nil, toAppError(err, "failed to load previous release")
		}
		if previous != nil {
			previousVersion = previous.Version()
		}
	}

	update, err := release.NewUpdate(activation.ID(), rel.ID(), previousVersion, uc.now())
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	err = uc.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := uc.updateRepo.Create(ctx, update); err != nil {
			return err
		}
		activation.SetRelease(rel.ID())
		return uc.activationRepo.Update(ctx, activation)
	})
	if err != nil {
		uc.logger.Errorw("failed to record update", "error", err, "activation_id", activation.ID(), "release_id", rel.ID())
		return nil, toAppError(err, "failed to record update")
	}

	uc.logger.Infow("activation updated",
		"activation_id", activation.ID(),
		"release_id", rel.ID(),
		"from", previousVersion,
		"to", rel.Version(),
	)
	return update, nil
}
