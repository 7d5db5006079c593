package usecases

import (
	"context"
	"time"

	"github.com/orris-inc/licenser/internal/domain/release"
	vo "github.com/orris-inc/licenser/internal/domain/release/valueobjects"
	"github.com/orris-inc/licenser/internal/infrastructure/cache"
	"github.com/orris-inc/licenser/internal/shared/biztime"
	"github.com/orris-inc/licenser/internal/shared/logger"
)

const (
	// DefaultKeepLast is the number of published releases kept per product.
	DefaultKeepLast = 10

	retentionScanPageSize = 200
)

// ApplyRetentionUseCase keeps the newest published releases of each product
// and archives the older ones.
type ApplyRetentionUseCase struct {
	releaseRepo release.Repository
	cache       cache.ReleaseCache
	keepLast    int
	logger      logger.Interface
	now         func() time.Time
}

func NewApplyRetentionUseCase(releaseRepo release.Repository, releaseCache cache.ReleaseCache, keepLast int, logger logger.Interface) *ApplyRetentionUseCase {
	if keepLast <= 0 {
		keepLast = DefaultKeepLast
	}
	return &ApplyRetentionUseCase{
		releaseRepo: releaseRepo,
		cache:       releaseCache,
		keepLast:    keepLast,
		logger:      logger,
		now:         biztime.NowUTC,
	}
}

// ApplyForProduct archives a product's published releases beyond the newest
// keepLast and returns how many were archived.
func (uc *ApplyRetentionUseCase) ApplyForProduct(ctx context.Context, productID uint) (int, error) {
	published, err := uc.releaseRepo.ListPublished(ctx, productID, nil, 0)
	if err != nil {
		return 0, err
	}
	if len(published) <= uc.keepLast {
		return 0, nil
	}

	now := uc.now()
	archived := 0
	for _, rel := range published[uc.keepLast:] {
		if err := rel.Archive(now); err != nil {
			uc.logger.Warnw("failed to archive release", "error", err, "release_id", rel.ID())
			continue
		}
		if err := uc.releaseRepo.Update(ctx, rel); err != nil {
			uc.logger.Errorw("failed to save archived release", "error", err, "release_id", rel.ID())
			continue
		}
		archived++
	}

	if archived > 0 {
		invalidateLatest(ctx, uc.cache, uc.logger, productID)
	}
	return archived, nil
}

// Execute applies retention to every product with published releases.
func (uc *ApplyRetentionUseCase) Execute(ctx context.Context) (int, error) {
	productIDs, err := uc.productsWithPublished(ctx)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, productID := range productIDs {
		archived, err := uc.ApplyForProduct(ctx, productID)
		if err != nil {
			uc.logger.Errorw("failed to apply release retention", "error", err, "product_id", productID)
			continue
		}
		total += archived
	}

	if total > 0 {
		uc.logger.Infow("release retention applied", "archived", total, "products", len(productIDs))
	}
	return total, nil
}

func (uc *ApplyRetentionUseCase) productsWithPublished(ctx context.Context) ([]uint, error) {
	seen := make(map[uint]bool)
	var ids []uint
	for page := 1; ; page++ {
		releases, total, err := uc.releaseRepo.List(ctx, release.ReleaseFilter{
			Status:   vo.ReleaseStatusPublished,
			Page:     page,
			PageSize: retentionScanPageSize,
		})
		if err != nil {
			return nil, err
		}
		for _, rel := range releases {
			if !seen[rel.ProductID()] {
				seen[rel.ProductID()] = true
				ids = append(ids, rel.ProductID())
			}
		}
		if len(releases) < retentionScanPageSize || int64(page*retentionScanPageSize) >= total {
			return ids, nil
		}
	}
}
