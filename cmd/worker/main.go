package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/orris-inc/licenser/internal/infrastructure/database"
	"github.com/orris-inc/licenser/internal/infrastructure/scheduler"
	"github.com/orris-inc/licenser/internal/interfaces/cli/bootstrap"
	"github.com/orris-inc/licenser/internal/interfaces/cli/sweep"
)

func main() {
	var env, configPath string

	rootCmd := &cobra.Command{
		Use:           "licenser-worker",
		Short:         "Run the license expiry, reminder and retention sweeps on a schedule",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(env, configPath)
		},
	}
	rootCmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "worker: %v\n", err)
		os.Exit(1)
	}
}

func run(env, configPath string) error {
	cfg, log, err := bootstrap.Init(bootstrap.Options{Env: env, ConfigPath: configPath})
	if err != nil {
		return err
	}
	defer database.Close()

	log.Infow("starting license worker", "environment", env, "interval", cfg.License.SweepInterval.String())

	jobs := sweep.NewJobs(context.Background(), database.Get(), cfg, log)
	defer jobs.Close()

	manager, err := scheduler.NewSchedulerManager(log)
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	if err := manager.RegisterLicenseJobs(cfg.License.SweepInterval, jobs.Expire, jobs.Reminders); err != nil {
		return fmt.Errorf("failed to register license jobs: %w", err)
	}
	if err := manager.RegisterReleaseRetentionJob(cfg.License.SweepInterval, jobs.Retention); err != nil {
		return fmt.Errorf("failed to register retention job: %w", err)
	}

	manager.Start()
	log.Infow("license worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Infow("received signal, shutting down", "signal", sig.String())
	if err := manager.Stop(); err != nil {
		log.Errorw("failed to stop scheduler", "error", err)
		return err
	}
	log.Infow("license worker stopped")
	return nil
}
