package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/orris-inc/licenser/internal/domain/license"
	"github.com/orris-inc/licenser/internal/shared/biztime"
	"github.com/orris-inc/licenser/internal/shared/logger"
)

// DefaultSweepBatch is the number of keys loaded per sweep query.
const DefaultSweepBatch = 100

// ExpireKeysUseCase moves active keys whose expiration passed to expired.
type ExpireKeysUseCase struct {
	keyRepo   license.KeyRepository
	batchSize int
	logger    logger.Interface
	now       func() time.Time
}

func NewExpireKeysUseCase(keyRepo license.KeyRepository, batchSize int, logger logger.Interface) *ExpireKeysUseCase {
	if batchSize <= 0 {
		batchSize = DefaultSweepBatch
	}
	return &ExpireKeysUseCase{
		keyRepo:   keyRepo,
		batchSize: batchSize,
		logger:    logger,
		now:       biztime.NowUTC,
	}
}

// Execute returns the number of keys marked as expired.
func (uc *ExpireKeysUseCase) Execute(ctx context.Context) (int, error) {
	now := uc.now()
	expired := 0

	for {
		keys, err := uc.keyRepo.ListActiveExpiringBefore(ctx, now, uc.batchSize)
		if err != nil {
			return expired, fmt.Errorf("failed to find expired license keys: %w", err)
		}
		if len(keys) == 0 {
			return expired, nil
		}

		marked := 0
		for _, k := range keys {
			if err := k.Expire(now); err != nil {
				uc.logger.Warnw("failed to mark license key as expired",
					"product_id", k.ProductID(),
					"status", k.Status().String(),
					"error", err,
				)
				continue
			}
			if err := uc.keyRepo.Update(ctx, k); err != nil {
				uc.logger.Errorw("failed to update expired license key",
					"product_id", k.ProductID(),
					"error", err,
				)
				continue
			}
			marked++
		}
		expired += marked

		// Rows that failed stay active and would be returned again.
		if marked == 0 || len(keys) < uc.batchSize {
			return expired, nil
		}
	}
}
