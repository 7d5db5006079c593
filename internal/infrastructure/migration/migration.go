package migration

import (
	"embed"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/orris-inc/licenser/internal/shared/logger"
)

//go:embed scripts
var scriptsFS embed.FS

const (
	gooseDir     = "scripts/goose"
	versionedDir = "scripts/versioned"
)

// Strategy names accepted by NewStrategy.
const (
	StrategyGorm          = "gorm_auto_migrate"
	StrategyGoose         = "goose"
	StrategyGolangMigrate = "golang_migrate"
)

// Manager handles database migrations with different strategies
type Manager struct {
	strategy Strategy
	logger   logger.Interface
}

// NewManager picks the strategy for a database driver: sqlite schemas are
// derived from the models, MySQL schemas come from the versioned goose scripts.
func NewManager(driver string, log logger.Interface) *Manager {
	name := StrategyGoose
	if strings.EqualFold(driver, "sqlite") {
		name = StrategyGorm
	}
	strategy, _ := NewStrategy(name, log)
	return NewManagerWithStrategy(strategy, log)
}

// NewManagerWithStrategy creates a new migration manager with a specific strategy
func NewManagerWithStrategy(strategy Strategy, log logger.Interface) *Manager {
	return &Manager{
		strategy: strategy,
		logger:   log.Named("migration.manager"),
	}
}

// NewStrategy builds a strategy by name.
func NewStrategy(name string, log logger.Interface) (Strategy, error) {
	switch name {
	case StrategyGorm:
		return NewGormAutoMigrateStrategy(log), nil
	case StrategyGoose, "":
		return NewGooseStrategy(log), nil
	case StrategyGolangMigrate:
		return NewGolangMigrateStrategy(log), nil
	default:
		return nil, fmt.Errorf("unknown migration strategy: %s", name)
	}
}

// Migrate executes the configured migration strategy
func (m *Manager) Migrate(db *gorm.DB) error {
	m.logger.Infow("starting database migration", "strategy", m.strategy.GetName())

	if err := m.strategy.Migrate(db); err != nil {
		m.logger.Errorw("migration failed", "strategy", m.strategy.GetName(), "error", err)
		return fmt.Errorf("migration failed with strategy %s: %w", m.strategy.GetName(), err)
	}

	m.logger.Infow("database migration completed successfully", "strategy", m.strategy.GetName())
	return nil
}

// GetStrategy returns the current migration strategy
func (m *Manager) GetStrategy() Strategy {
	return m.strategy
}

// GetStrategyInfo returns information about the current strategy
func (m *Manager) GetStrategyInfo() map[string]interface{} {
	return map[string]interface{}{
		"name":        m.strategy.GetName(),
		"description": getStrategyDescription(m.strategy.GetName()),
	}
}

func getStrategyDescription(strategyName string) string {
	switch strategyName {
	case StrategyGorm:
		return "GORM AutoMigrate - schema derived from the persistence models"
	case StrategyGoose:
		return "goose - versioned SQL scripts"
	case StrategyGolangMigrate:
		return "golang-migrate - versioned up/down SQL script pairs"
	default:
		return "Unknown migration strategy"
	}
}
