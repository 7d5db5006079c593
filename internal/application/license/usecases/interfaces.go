package usecases

import (
	"context"
	"time"

	"github.com/orris-inc/licenser/internal/domain/license/keygen"
)

// TransactionManager runs fn inside one database transaction.
type TransactionManager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// GeneratorResolver resolves a product's configured key generator.
type GeneratorResolver interface {
	Resolve(slug string) (keygen.Generator, error)
}

// ReminderMailer delivers renewal reminders.
type ReminderMailer interface {
	SendRenewalReminder(to, name, product, key string, expires time.Time) error
}

// ReminderLock de-duplicates reminders per (key, expiration).
type ReminderLock interface {
	TryAcquire(ctx context.Context, licenseKey string, expires time.Time, ttl time.Duration) (bool, error)
	Release(ctx context.Context, licenseKey string, expires time.Time) error
}

// ActivationObserver is notified of every activation outcome.
type ActivationObserver interface {
	ObserveActivation(outcome string)
}
