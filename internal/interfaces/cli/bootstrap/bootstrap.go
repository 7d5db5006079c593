// Package bootstrap prepares the process environment shared by the CLI
// commands and the worker: configuration, logger, business timezone and
// database connection.
package bootstrap

import (
	"fmt"
	"os"

	"github.com/orris-inc/licenser/internal/infrastructure/config"
	"github.com/orris-inc/licenser/internal/infrastructure/database"
	"github.com/orris-inc/licenser/internal/shared/biztime"
	"github.com/orris-inc/licenser/internal/shared/logger"
)

// Options select the environment and config file.
type Options struct {
	Env        string
	ConfigPath string
	// SkipDatabase leaves the database closed, for commands that only read config.
	SkipDatabase bool
}

// Init loads configuration and initializes the logger, timezone and
// database. The caller closes the database with database.Close.
func Init(opts Options) (*config.Config, logger.Interface, error) {
	env := opts.Env
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env, opts.ConfigPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Server.Mode = GinMode(env)

	if err := logger.Init(&cfg.Logger, cfg.Server.IsDebug()); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	if err := biztime.Init(cfg.Server.Timezone); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	if !opts.SkipDatabase {
		if err := database.Init(&cfg.Database); err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
	}

	return cfg, log, nil
}

// GinMode maps an environment name to a gin mode.
func GinMode(environment string) string {
	switch environment {
	case "production", "prod", "release":
		return "release"
	case "test", "testing":
		return "test"
	default:
		return "debug"
	}
}
