// Package sweep builds the license maintenance jobs and the one-shot
// `licenser sweep` command that runs them.
package sweep

import (
	"context"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	licenseUsecases "github.com/orris-inc/licenser/internal/application/license/usecases"
	releaseUsecases "github.com/orris-inc/licenser/internal/application/release/usecases"
	"github.com/orris-inc/licenser/internal/infrastructure/cache"
	"github.com/orris-inc/licenser/internal/infrastructure/config"
	"github.com/orris-inc/licenser/internal/infrastructure/email"
	"github.com/orris-inc/licenser/internal/infrastructure/repository"
	"github.com/orris-inc/licenser/internal/infrastructure/scheduler"
	"github.com/orris-inc/licenser/internal/shared/logger"
)

// Jobs are the batch jobs run by the sweep. Reminders is nil when Redis or
// SMTP is not configured.
type Jobs struct {
	Expire    scheduler.BatchJob
	Reminders scheduler.BatchJob
	Retention scheduler.BatchJob

	redis *redis.Client
}

// NewJobs wires the jobs against db and the optional Redis and SMTP services.
func NewJobs(ctx context.Context, db *gorm.DB, cfg *config.Config, log logger.Interface) *Jobs {
	keyRepo := repository.NewLicenseKeyRepository(db, log)
	releaseRepo := repository.NewReleaseRepository(db, log)

	jobs := &Jobs{
		Expire: licenseUsecases.NewExpireKeysUseCase(keyRepo, cfg.License.SweepBatch, log),
	}

	var releaseCache cache.ReleaseCache
	if cfg.Redis.Enabled {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Warnw("redis unavailable, renewal reminders disabled", "error", err)
		} else {
			jobs.redis = client
			releaseCache = cache.NewRedisReleaseCache(client, cfg.Release.CacheTTL, log)
		}
	}
	jobs.Retention = releaseUsecases.NewApplyRetentionUseCase(releaseRepo, releaseCache, cfg.Release.KeepLast, log)

	if jobs.redis == nil || !cfg.Email.IsConfigured() {
		return jobs
	}
	mailer, err := email.NewSMTPEmailService(email.SMTPConfig{
		Host:        cfg.Email.SMTPHost,
		Port:        cfg.Email.SMTPPort,
		Username:    cfg.Email.SMTPUser,
		Password:    cfg.Email.SMTPPassword,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		RenewURL:    cfg.Email.RenewURL,
	})
	if err != nil {
		log.Warnw("smtp unavailable, renewal reminders disabled", "error", err)
		return jobs
	}
	jobs.Reminders = licenseUsecases.NewSendRenewalRemindersUseCase(
		keyRepo,
		repository.NewCustomerRepository(db, log),
		repository.NewProductRepository(db, log),
		mailer,
		cache.NewReminderDeduplicator(jobs.redis),
		cfg.License.ReminderDays,
		cfg.License.SweepBatch,
		log,
	)
	return jobs
}

// Named lists the jobs in run order.
func (j *Jobs) Named() []scheduler.NamedJob {
	named := []scheduler.NamedJob{{Name: "expire-keys", Job: j.Expire}}
	if j.Reminders != nil {
		named = append(named, scheduler.NamedJob{Name: "renewal-reminders", Job: j.Reminders})
	}
	return append(named, scheduler.NamedJob{Name: "release-retention", Job: j.Retention})
}

// Close releases the Redis connection.
func (j *Jobs) Close() error {
	if j.redis == nil {
		return nil
	}
	return j.redis.Close()
}
