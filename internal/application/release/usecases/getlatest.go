package usecases

import (
	"context"

	"github.com/orris-inc/licenser/internal/application/release/dto"
	"github.com/orris-inc/licenser/internal/domain/release"
	vo "github.com/orris-inc/licenser/internal/domain/release/valueobjects"
	"github.com/orris-inc/licenser/internal/infrastructure/cache"
	"github.com/orris-inc/licenser/internal/shared/logger"
)

// GetLatestReleaseUseCase resolves the release offered to installations of
// a product: the highest published major, minor or security version.
type GetLatestReleaseUseCase struct {
	releaseRepo release.Repository
	cache       cache.ReleaseCache
	logger      logger.Interface
}

// NewGetLatestReleaseUseCase creates the use case. releaseCache may be nil.
func NewGetLatestReleaseUseCase(releaseRepo release.Repository, releaseCache cache.ReleaseCache, logger logger.Interface) *GetLatestReleaseUseCase {
	return &GetLatestReleaseUseCase{
		releaseRepo: releaseRepo,
		cache:       releaseCache,
		logger:      logger,
	}
}

// Execute returns nil, nil when the product has no public release.
func (uc *GetLatestReleaseUseCase) Execute(ctx context.Context, productID uint) (*dto.ReleaseDTO, error) {
	if uc.cache != nil {
		cached, err := uc.cache.GetLatest(ctx, productID)
		if err != nil {
			uc.logger.Warnw("latest release cache unavailable", "error", err, "product_id", productID)
		} else if cached != nil {
			if cached.NotFound {
				return nil, nil
			}
			return dto.FromCachedRelease(cached), nil
		}
	}

	published, err := uc.releaseRepo.ListPublished(ctx, productID, vo.PublicReleaseTypes, 0)
	if err != nil {
		uc.logger.Errorw("failed to load published releases", "error", err, "product_id", productID)
		return nil, toAppError(err, "failed to load latest release")
	}

	latest := release.HighestVersion(published)
	if latest == nil && len(published) > 0 {
		// no semantic versions, fall back to the most recently published
		latest = published[0]
	}

	if latest == nil {
		if uc.cache != nil {
			if err := uc.cache.SetNullMarker(ctx, productID); err != nil {
				uc.logger.Warnw("failed to cache missing release", "error", err, "product_id", productID)
			}
		}
		return nil, nil
	}

	result := dto.ToReleaseDTO(latest)
	if uc.cache != nil {
		if err := uc.cache.SetLatest(ctx, productID, dto.ToCachedRelease(result)); err != nil {
			uc.logger.Warnw("failed to cache latest release", "error", err, "product_id", productID)
		}
	}
	return result, nil
}
