package usecases

import (
	"context"
	"strings"
	"time"

	"github.com/orris-inc/licenser/internal/domain/license"
	"github.com/orris-inc/licenser/internal/domain/release"
	"github.com/orris-inc/licenser/internal/shared/biztime"
	"github.com/orris-inc/licenser/internal/shared/errors"
	"github.com/orris-inc/licenser/internal/shared/logger"
)

type ActivateCommand struct {
	Key      *license.Key
	Location string
	// Version optionally names the release installed at the location
	Version string
}

// ActivateUseCase binds a location to a key within its activation limit.
type ActivateUseCase struct {
	activationRepo license.ActivationRepository
	releaseRepo    release.Repository
	observer       ActivationObserver
	logger         logger.Interface
	now            func() time.Time
}

func NewActivateUseCase(
	activationRepo license.ActivationRepository,
	releaseRepo release.Repository,
	logger logger.Interface,
) *ActivateUseCase {
	return &ActivateUseCase{
		activationRepo: activationRepo,
		releaseRepo:    releaseRepo,
		logger:         logger,
		now:            biztime.NowUTC,
	}
}

// SetObserver sets the activation outcome observer (optional).
func (uc *ActivateUseCase) SetObserver(observer ActivationObserver) {
	uc.observer = observer
}

// Execute returns license.ErrInvalidLocation when the location cannot be
// normalized. A full key is reported as OutcomeMaxReached, not as an error.
func (uc *ActivateUseCase) Execute(ctx context.Context, cmd ActivateCommand) (*license.ActivationResult, error) {
	if cmd.Key == nil {
		return nil, errors.NewValidationError("license key is required")
	}

	releaseID, err := uc.resolveRelease(ctx, cmd.Key.ProductID(), cmd.Version)
	if err != nil {
		return nil, err
	}

	activation, err := license.NewActivation(cmd.Key.Key(), cmd.Location, uc.now(), releaseID)
	if err != nil {
		return nil, err
	}

	result, err := uc.activationRepo.Activate(ctx, cmd.Key, activation)
	if err != nil {
		uc.logger.Errorw("failed to activate location",
			"error", err,
			"product_id", cmd.Key.ProductID(),
			"location", activation.Location(),
		)
		return nil, toAppError(err, "failed to activate location")
	}

	if uc.observer != nil {
		uc.observer.ObserveActivation(result.Outcome.String())
	}

	uc.logger.Infow("activation processed",
		"outcome", result.Outcome.String(),
		"product_id", cmd.Key.ProductID(),
		"location", activation.Location(),
	)
	return result, nil
}

func (uc *ActivateUseCase) resolveRelease(ctx context.Context, productID uint, version string) (*uint, error) {
	version = strings.TrimSpace(version)
	if version == "" || uc.releaseRepo == nil {
		return nil, nil
	}

	rel, err := uc.releaseRepo.GetByVersion(ctx, productID, version)
	if err != nil {
		return nil, toAppError(err, "failed to load release")
	}
	if rel == nil || !rel.IsPublished() {
		uc.logger.Debugw("activation version does not match a published release",
			"product_id", productID,
			"version", version,
		)
		return nil, nil
	}
	id := rel.ID()
	return &id, nil
}
