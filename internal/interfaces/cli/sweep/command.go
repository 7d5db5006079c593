package sweep

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orris-inc/licenser/internal/infrastructure/database"
	"github.com/orris-inc/licenser/internal/infrastructure/scheduler"
	"github.com/orris-inc/licenser/internal/interfaces/cli/bootstrap"
)

var (
	env        string
	configPath string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run the license maintenance jobs once",
		Long:  `Expire keys past their expiration, send renewal reminders and archive releases beyond the retention limit.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap.Init(bootstrap.Options{Env: env, ConfigPath: configPath})
	if err != nil {
		return err
	}
	defer database.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	jobs := NewJobs(ctx, database.Get(), cfg, log)
	defer jobs.Close()

	manager, err := scheduler.NewSchedulerManager(log)
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	total := manager.RunOnce(ctx, jobs.Named()...)
	fmt.Printf("sweep processed %d item(s)\n", total)
	return nil
}
