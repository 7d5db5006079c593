// Package scheduler runs the license maintenance jobs on a gocron v2 scheduler.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/orris-inc/licenser/internal/shared/biztime"
	"github.com/orris-inc/licenser/internal/shared/logger"
)

// DefaultSweepInterval is used when no interval is configured.
const DefaultSweepInterval = 24 * time.Hour

// jobTimeout bounds a single job run.
const jobTimeout = 10 * time.Minute

// BatchJob defines the interface for a scheduled batch processing job.
// Each Execute call processes a batch and returns the number of items processed.
type BatchJob interface {
	Execute(ctx context.Context) (int, error)
}

// NamedJob pairs a batch job with the name used in logs and gocron tags.
type NamedJob struct {
	Name string
	Job  BatchJob
}

// SchedulerManager owns the gocron scheduler used by the worker process.
type SchedulerManager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	started   bool
	startedMu sync.RWMutex
}

// NewSchedulerManager creates a new SchedulerManager instance.
// It initializes gocron with the business timezone for cron expressions.
func NewSchedulerManager(log logger.Interface) (*SchedulerManager, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(biztime.Location()),
	)
	if err != nil {
		return nil, err
	}

	return &SchedulerManager{
		scheduler: scheduler,
		logger:    log,
	}, nil
}

// RegisterLicenseJobs registers the license sweep: expire keys whose
// expiration passed, then send renewal reminders. reminderJob may be nil.
func (m *SchedulerManager) RegisterLicenseJobs(interval time.Duration, expireJob, reminderJob BatchJob) error {
	if expireJob == nil {
		return errors.New("expire job is required")
	}
	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	jobs := []NamedJob{{Name: "expire-keys", Job: expireJob}}
	if reminderJob != nil {
		jobs = append(jobs, NamedJob{Name: "renewal-reminders", Job: reminderJob})
	} else {
		m.logger.Warnw("renewal reminders disabled, no reminder job registered")
	}

	_, err := m.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()
			m.RunOnce(ctx, jobs...)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("license", "expire", "remind"),
		gocron.WithName("license-sweep"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered license jobs", "interval", interval.String(), "job_count", len(jobs))
	return nil
}

// RegisterReleaseRetentionJob registers the job archiving published releases
// beyond the retention limit.
func (m *SchedulerManager) RegisterReleaseRetentionJob(interval time.Duration, retentionJob BatchJob) error {
	if retentionJob == nil {
		return errors.New("retention job is required")
	}
	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	_, err := m.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()
			m.RunOnce(ctx, NamedJob{Name: "release-retention", Job: retentionJob})
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("release", "retention"),
		gocron.WithName("release-retention"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered release retention job", "interval", interval.String())
	return nil
}

// RunOnce executes jobs in order and returns the total number of processed
// items. A failing job is logged and does not stop the following ones.
func (m *SchedulerManager) RunOnce(ctx context.Context, jobs ...NamedJob) int {
	total := 0
	for _, j := range jobs {
		startTime := biztime.NowUTC()

		count, err := j.Job.Execute(ctx)
		if err != nil {
			m.logger.Errorw("scheduled job failed",
				"job", j.Name,
				"error", err,
				"duration", time.Since(startTime),
			)
			continue
		}
		total += count

		if count > 0 {
			m.logger.Infow("scheduled job processed",
				"job", j.Name,
				"count", count,
				"duration", time.Since(startTime),
			)
		} else {
			m.logger.Debugw("scheduled job had nothing to process",
				"job", j.Name,
				"duration", time.Since(startTime),
			)
		}
	}
	return total
}

// Start starts the scheduler and all registered jobs.
func (m *SchedulerManager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started {
		return
	}

	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler manager started", "job_count", len(m.scheduler.Jobs()))
}

// Stop gracefully stops the scheduler.
// It waits for all running jobs to complete before returning.
func (m *SchedulerManager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if !m.started {
		return nil
	}

	m.logger.Infow("stopping scheduler manager")

	err := m.scheduler.Shutdown()
	m.started = false

	if err != nil {
		m.logger.Errorw("scheduler manager shutdown with error", "error", err)
		return err
	}

	m.logger.Infow("scheduler manager stopped")
	return nil
}

// IsStarted returns whether the scheduler is running.
func (m *SchedulerManager) IsStarted() bool {
	m.startedMu.RLock()
	defer m.startedMu.RUnlock()
	return m.started
}

// Jobs returns all registered jobs for inspection.
func (m *SchedulerManager) Jobs() []gocron.Job {
	return m.scheduler.Jobs()
}
