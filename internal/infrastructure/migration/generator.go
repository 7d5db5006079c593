package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/orris-inc/licenser/internal/shared/logger"
)

var (
	pairPattern = regexp.MustCompile(`^(\d+)_.+\.up\.sql$`)
	namePattern = regexp.MustCompile(`^[a-z0-9_]+$`)
)

// Generator creates golang-migrate up/down script pairs on disk.
type Generator struct {
	scriptsPath string
	logger      logger.Interface
}

func NewGenerator(scriptsPath string, log logger.Interface) *Generator {
	return &Generator{
		scriptsPath: scriptsPath,
		logger:      log.Named("migration.generator"),
	}
}

// CreateMigration writes <seq>_<name>.up.sql and .down.sql, numbering after
// the highest existing pair. It returns the created file paths.
func (g *Generator) CreateMigration(name string) (string, string, error) {
	if !namePattern.MatchString(name) {
		return "", "", fmt.Errorf("migration name must be snake_case: %q", name)
	}
	if err := os.MkdirAll(g.scriptsPath, 0o755); err != nil {
		return "", "", fmt.Errorf("failed to create scripts directory: %w", err)
	}

	seq, err := g.nextSequence()
	if err != nil {
		return "", "", err
	}

	prefix := fmt.Sprintf("%06d_%s", seq, name)
	upPath := filepath.Join(g.scriptsPath, prefix+".up.sql")
	downPath := filepath.Join(g.scriptsPath, prefix+".down.sql")
	created := time.Now().Format("2006-01-02 15:04:05")

	if err := os.WriteFile(upPath, []byte(fmt.Sprintf("-- Migration: %s\n-- Created: %s\n\n", name, created)), 0o644); err != nil {
		return "", "", fmt.Errorf("failed to create up migration file: %w", err)
	}
	if err := os.WriteFile(downPath, []byte(fmt.Sprintf("-- Rollback Migration: %s\n-- Created: %s\n\n", name, created)), 0o644); err != nil {
		return "", "", fmt.Errorf("failed to create down migration file: %w", err)
	}

	g.logger.Infow("migration files created successfully", "up_file", upPath, "down_file", downPath)
	return upPath, downPath, nil
}

func (g *Generator) nextSequence() (int, error) {
	entries, err := os.ReadDir(g.scriptsPath)
	if err != nil {
		return 0, fmt.Errorf("failed to read scripts directory: %w", err)
	}
	highest := 0
	for _, e := range entries {
		m := pairPattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > highest {
			highest = n
		}
	}
	return highest + 1, nil
}
