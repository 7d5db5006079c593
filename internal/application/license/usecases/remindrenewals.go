package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/orris-inc/licenser/internal/domain/commerce"
	"github.com/orris-inc/licenser/internal/domain/license"
	"github.com/orris-inc/licenser/internal/domain/product"
	"github.com/orris-inc/licenser/internal/shared/biztime"
	"github.com/orris-inc/licenser/internal/shared/logger"
)

// DefaultReminderDays is how far ahead of the expiration reminders go out.
const DefaultReminderDays = 7

// SendRenewalRemindersUseCase emails customers whose active keys expire
// within the reminder window, once per key and expiration.
type SendRenewalRemindersUseCase struct {
	keyRepo      license.KeyRepository
	customerRepo commerce.CustomerRepository
	productRepo  product.Repository
	mailer       ReminderMailer
	lock         ReminderLock
	days         int
	batchSize    int
	logger       logger.Interface
	now          func() time.Time
}

func NewSendRenewalRemindersUseCase(
	keyRepo license.KeyRepository,
	customerRepo commerce.CustomerRepository,
	productRepo product.Repository,
	mailer ReminderMailer,
	lock ReminderLock,
	days, batchSize int,
	logger logger.Interface,
) *SendRenewalRemindersUseCase {
	if days <= 0 {
		days = DefaultReminderDays
	}
	if batchSize <= 0 {
		batchSize = DefaultSweepBatch
	}
	return &SendRenewalRemindersUseCase{
		keyRepo:      keyRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		mailer:       mailer,
		lock:         lock,
		days:         days,
		batchSize:    batchSize,
		logger:       logger,
		now:          biztime.NowUTC,
	}
}

// Execute returns the number of reminders sent. It sends nothing when no
// mailer is configured.
func (uc *SendRenewalRemindersUseCase) Execute(ctx context.Context) (int, error) {
	if uc.mailer == nil {
		uc.logger.Debugw("renewal reminders skipped, no mailer configured")
		return 0, nil
	}

	now := uc.now()
	until := now.AddDate(0, 0, uc.days)
	sent := 0

	for offset := 0; ; offset += uc.batchSize {
		keys, err := uc.keyRepo.ListActiveExpiringBetween(ctx, now, until, offset, uc.batchSize)
		if err != nil {
			return sent, fmt.Errorf("failed to find expiring license keys: %w", err)
		}

		for _, k := range keys {
			ok, err := uc.remind(ctx, k, now)
			if err != nil {
				uc.logger.Warnw("failed to send renewal reminder",
					"product_id", k.ProductID(),
					"customer_id", k.CustomerID(),
					"error", err,
				)
				continue
			}
			if ok {
				sent++
			}
		}

		if len(keys) < uc.batchSize {
			return sent, nil
		}
	}
}

func (uc *SendRenewalRemindersUseCase) remind(ctx context.Context, k *license.Key, now time.Time) (bool, error) {
	expires := k.Expires()
	if expires == nil {
		return false, nil
	}

	// Hold the claim until the key has expired; a renewal changes the
	// expiration and therefore the claim key.
	ttl := expires.Sub(now) + 24*time.Hour
	acquired, err := uc.lock.TryAcquire(ctx, k.Key(), *expires, ttl)
	if err != nil {
		return false, err
	}
	if !acquired {
		return false, nil
	}

	if err := uc.send(ctx, k, *expires); err != nil {
		if releaseErr := uc.lock.Release(ctx, k.Key(), *expires); releaseErr != nil {
			uc.logger.Warnw("failed to release reminder claim", "error", releaseErr)
		}
		return false, err
	}
	return true, nil
}

func (uc *SendRenewalRemindersUseCase) send(ctx context.Context, k *license.Key, expires time.Time) error {
	customer, err := uc.customerRepo.GetByID(ctx, k.CustomerID())
	if err != nil {
		return err
	}
	if customer == nil {
		return fmt.Errorf("customer %d not found", k.CustomerID())
	}

	productName := fmt.Sprintf("product #%d", k.ProductID())
	p, err := uc.productRepo.GetByID(ctx, k.ProductID())
	if err != nil {
		return err
	}
	if p != nil {
		productName = p.Name()
	}

	return uc.mailer.SendRenewalReminder(customer.Email(), customer.DisplayName(), productName, k.Key(), expires)
}
