package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/orris-inc/licenser/internal/application/release/dto"
	"github.com/orris-inc/licenser/internal/domain/release"
	"github.com/orris-inc/licenser/internal/infrastructure/cache"
	"github.com/orris-inc/licenser/internal/shared/biztime"
	"github.com/orris-inc/licenser/internal/shared/logger"
)

// PublishReleaseUseCase makes a draft release available to installations.
type PublishReleaseUseCase struct {
	releaseRepo release.Repository
	cache       cache.ReleaseCache
	retention   RetentionApplier
	logger      logger.Interface
	now         func() time.Time
}

// NewPublishReleaseUseCase creates the use case. cache and retention are optional.
func NewPublishReleaseUseCase(
	releaseRepo release.Repository,
	releaseCache cache.ReleaseCache,
	retention RetentionApplier,
	logger logger.Interface,
) *PublishReleaseUseCase {
	return &PublishReleaseUseCase{
		releaseRepo: releaseRepo,
		cache:       releaseCache,
		retention:   retention,
		logger:      logger,
		now:         biztime.NowUTC,
	}
}

func (uc *PublishReleaseUseCase) Execute(ctx context.Context, releaseID uint) (*dto.ReleaseDTO, error) {
	rel, err := uc.releaseRepo.GetByID(ctx, releaseID)
	if err != nil {
		return nil, toAppError(err, "failed to load release")
	}
	if rel == nil {
		return nil, releaseNotFound(releaseID)
	}

	if err := rel.Publish(uc.now()); err != nil {
		return nil, toAppError(err, "failed to publish release")
	}
	if err := uc.releaseRepo.Update(ctx, rel); err != nil {
		uc.logger.Errorw("failed to save published release", "error", err, "release_id", releaseID)
		return nil, toAppError(err, "failed to publish release")
	}

	invalidateLatest(ctx, uc.cache, uc.logger, rel.ProductID())

	if uc.retention != nil {
		if archived, err := uc.retention.ApplyForProduct(ctx, rel.ProductID()); err != nil {
			uc.logger.Warnw("failed to apply release retention", "error", err, "product_id", rel.ProductID())
		} else if archived > 0 {
			uc.logger.Infow("older releases archived", "product_id", rel.ProductID(), "count", archived)
		}
	}

	uc.logger.Infow("release published",
		"release_id", rel.ID(),
		"product_id", rel.ProductID(),
		"version", rel.Version(),
	)
	return dto.ToReleaseDTO(rel), nil
}

// ArchiveReleaseUseCase withdraws a single release.
type ArchiveReleaseUseCase struct {
	releaseRepo release.Repository
	cache       cache.ReleaseCache
	logger      logger.Interface
	now         func() time.Time
}

func NewArchiveReleaseUseCase(releaseRepo release.Repository, releaseCache cache.ReleaseCache, logger logger.Interface) *ArchiveReleaseUseCase {
	return &ArchiveReleaseUseCase{
		releaseRepo: releaseRepo,
		cache:       releaseCache,
		logger:      logger,
		now:         biztime.NowUTC,
	}
}

func (uc *ArchiveReleaseUseCase) Execute(ctx context.Context, releaseID uint) (*dto.ReleaseDTO, error) {
	rel, err := uc.releaseRepo.GetByID(ctx, releaseID)
	if err != nil {
		return nil, toAppError(err, "failed to load release")
	}
	if rel == nil {
		return nil, releaseNotFound(releaseID)
	}

	if err := rel.Archive(uc.now()); err != nil {
		return nil, toAppError(err, "failed to archive release")
	}
	if err := uc.releaseRepo.Update(ctx, rel); err != nil {
		uc.logger.Errorw("failed to save archived release", "error", err, "release_id", releaseID)
		return nil, toAppError(err, "failed to archive release")
	}

	invalidateLatest(ctx, uc.cache, uc.logger, rel.ProductID())

	uc.logger.Infow("release archived", "release_id", rel.ID(), "product_id", rel.ProductID())
	return dto.ToReleaseDTO(rel), nil
}

func invalidateLatest(ctx context.Context, c cache.ReleaseCache, log logger.Interface, productID uint) {
	if c == nil {
		return
	}
	if err := c.Invalidate(ctx, productID); err != nil {
		log.Warnw("failed to invalidate latest release cache", "error", err, "product_id", productID)
	}
}

func idDetail(id uint) string {
	return fmt.Sprintf("release_id=%d", id)
}
