package migrate

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/orris-inc/licenser/internal/infrastructure/database"
	"github.com/orris-inc/licenser/internal/infrastructure/migration"
	"github.com/orris-inc/licenser/internal/interfaces/cli/bootstrap"
	"github.com/orris-inc/licenser/internal/shared/logger"
)

const scriptsDir = "./internal/infrastructure/migration/scripts"

var (
	env          string
	configPath   string
	strategyName string
	name         string
	steps        int
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Manage database migrations including running migrations, checking status, and creating new migration files.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.PersistentFlags().StringVarP(&strategyName, "strategy", "s", "",
		"Migration strategy: goose, golang_migrate or gorm_auto_migrate (default: by database driver)")

	cmd.AddCommand(
		newUpCommand(),
		newDownCommand(),
		newStatusCommand(),
		newCreateCommand(),
	)

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		Long:  `Apply all pending database migrations to bring the database schema up to date.`,
		RunE:  runUp,
	}
}

func newDownCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		Long:  `Rollback a specified number of database migrations.`,
		RunE:  runDown,
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")

	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		Long:  `Display the current migration version and status of the database.`,
		RunE:  runStatus,
	}
}

func newCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new migration",
		Long:  `Create new migration files with the specified name in the scripts directory of the selected strategy.`,
		RunE:  runCreate,
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Name of the migration (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

// initStrategy connects to the database and resolves the strategy flag,
// falling back to the driver default.
func initStrategy(withDatabase bool) (migration.Strategy, logger.Interface, error) {
	cfg, log, err := bootstrap.Init(bootstrap.Options{Env: env, ConfigPath: configPath, SkipDatabase: !withDatabase})
	if err != nil {
		return nil, nil, err
	}

	if strategyName == "" {
		return migration.NewManager(cfg.Database.Driver, log).GetStrategy(), log, nil
	}
	strategy, err := migration.NewStrategy(strategyName, log)
	if err != nil {
		return nil, nil, err
	}
	return strategy, log, nil
}

func runUp(cmd *cobra.Command, args []string) error {
	strategy, log, err := initStrategy(true)
	if err != nil {
		return err
	}
	defer database.Close()

	log.Infow("running up migrations", "environment", env, "strategy", strategy.GetName())

	if err := migration.NewManagerWithStrategy(strategy, log).Migrate(database.Get()); err != nil {
		return err
	}

	log.Infow("migrations completed successfully")
	return nil
}

func runDown(cmd *cobra.Command, args []string) error {
	strategy, log, err := initStrategy(true)
	if err != nil {
		return err
	}
	defer database.Close()

	versioned, ok := strategy.(migration.Versioned)
	if !ok {
		return fmt.Errorf("down migration is not supported with %s strategy", strategy.GetName())
	}

	log.Infow("running down migrations", "environment", env, "steps", steps, "strategy", strategy.GetName())

	if err := versioned.MigrateDown(database.Get(), steps); err != nil {
		log.Errorw("down migration failed", "error", err)
		return fmt.Errorf("down migration failed: %w", err)
	}

	log.Infow("down migration completed successfully")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	strategy, log, err := initStrategy(true)
	if err != nil {
		return err
	}
	defer database.Close()

	versioned, ok := strategy.(migration.Versioned)
	if !ok {
		return fmt.Errorf("status check is not supported with %s strategy", strategy.GetName())
	}

	v, err := versioned.GetVersion(database.Get())
	if err != nil {
		log.Errorw("failed to get migration version", "error", err)
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	fmt.Printf("\nMigration Status:\n")
	fmt.Printf("  Environment:     %s\n", env)
	fmt.Printf("  Strategy:        %s\n", strategy.GetName())
	fmt.Printf("  Current Version: %d\n", v)

	if goose, ok := strategy.(*migration.GooseStrategy); ok {
		if err := goose.Status(database.Get()); err != nil {
			return fmt.Errorf("failed to get detailed status: %w", err)
		}
	}
	return nil
}

func runCreate(cmd *cobra.Command, args []string) error {
	strategy, log, err := initStrategy(false)
	if err != nil {
		return err
	}

	log.Infow("creating new migration", "name", name, "strategy", strategy.GetName())

	switch s := strategy.(type) {
	case *migration.GooseStrategy:
		dir, err := filepath.Abs(filepath.Join(scriptsDir, "goose"))
		if err != nil {
			return fmt.Errorf("failed to get scripts path: %w", err)
		}
		if err := s.Create(dir, name); err != nil {
			return err
		}
	case *migration.GolangMigrateStrategy:
		dir, err := filepath.Abs(filepath.Join(scriptsDir, "versioned"))
		if err != nil {
			return fmt.Errorf("failed to get scripts path: %w", err)
		}
		up, down, err := migration.NewGenerator(dir, log).CreateMigration(name)
		if err != nil {
			return err
		}
		fmt.Printf("created %s\ncreated %s\n", up, down)
	default:
		return fmt.Errorf("create is not supported with %s strategy", strategy.GetName())
	}

	fmt.Printf("✅ Migration '%s' created successfully\n", name)
	return nil
}
