package usecases

import (
	"context"
	"time"

	"github.com/orris-inc/licenser/internal/domain/license"
	"github.com/orris-inc/licenser/internal/domain/product"
	"github.com/orris-inc/licenser/internal/shared/biztime"
	"github.com/orris-inc/licenser/internal/shared/errors"
	"github.com/orris-inc/licenser/internal/shared/logger"
)

type RenewKeyCommand struct {
	Key string
	// Expires sets the new expiration explicitly. Otherwise the product's
	// expire_after_days, or Days when set, is added to the current
	// expiration if it is still in the future and to now if not.
	Expires       *time.Time
	Days          int
	TransactionID *uint
	Revenue       int64
}

type RenewKeyResult struct {
	Key     *license.Key
	Renewal *license.Renewal
}

// RenewKeyUseCase extends a key and records the renewal in one transaction.
type RenewKeyUseCase struct {
	keyRepo     license.KeyRepository
	renewalRepo license.RenewalRepository
	productRepo product.Repository
	txManager   TransactionManager
	logger      logger.Interface
	now         func() time.Time
}

func NewRenewKeyUseCase(
	keyRepo license.KeyRepository,
	renewalRepo license.RenewalRepository,
	productRepo product.Repository,
	txManager TransactionManager,
	logger logger.Interface,
) *RenewKeyUseCase {
	return &RenewKeyUseCase{
		keyRepo:     keyRepo,
		renewalRepo: renewalRepo,
		productRepo: productRepo,
		txManager:   txManager,
		logger:      logger,
		now:         biztime.NowUTC,
	}
}

func (uc *RenewKeyUseCase) Execute(ctx context.Context, cmd RenewKeyCommand) (*RenewKeyResult, error) {
	if cmd.Days < 0 {
		return nil, errors.NewValidationError("days cannot be negative")
	}

	now := uc.now()
	var result *RenewKeyResult
	err := uc.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		k, err := uc.keyRepo.GetByKeyForUpdate(ctx, cmd.Key)
		if err != nil {
			return err
		}
		if k == nil {
			return errors.NewNotFoundError(license.ErrKeyNotFound.Error())
		}

		newExpiration, err := uc.newExpiration(ctx, k, cmd, now)
		if err != nil {
			return err
		}

		renewal, err := k.Extend(newExpiration, cmd.TransactionID, cmd.Revenue, now)
		if err != nil {
			return err
		}
		if err := uc.keyRepo.Update(ctx, k); err != nil {
			return err
		}
		if err := uc.renewalRepo.Create(ctx, renewal); err != nil {
			return err
		}
		result = &RenewKeyResult{Key: k, Renewal: renewal}
		return nil
	})
	if err != nil {
		uc.logger.Warnw("failed to renew license key", "error", err)
		return nil, toAppError(err, "failed to renew license key")
	}

	uc.logger.Infow("license key renewed",
		"product_id", result.Key.ProductID(),
		"expires", result.Key.Expires(),
		"manual", result.Renewal.IsManual(),
	)
	return result, nil
}

func (uc *RenewKeyUseCase) newExpiration(ctx context.Context, k *license.Key, cmd RenewKeyCommand, now time.Time) (time.Time, error) {
	if cmd.Expires != nil {
		return cmd.Expires.UTC(), nil
	}

	days := cmd.Days
	if days == 0 {
		p, err := uc.productRepo.GetByID(ctx, k.ProductID())
		if err != nil {
			return time.Time{}, err
		}
		if p != nil {
			days = p.License().ExpireAfterDays
		}
	}
	if days == 0 {
		return time.Time{}, errors.NewValidationError("renewal period is required", "product keys do not expire")
	}

	base := now
	if exp := k.Expires(); exp != nil && exp.After(now) {
		base = *exp
	}
	return base.AddDate(0, 0, days), nil
}
