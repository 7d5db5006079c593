package migration

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/orris-inc/licenser/internal/shared/constants"
	"github.com/orris-inc/licenser/internal/shared/logger"
)

func TestNewManagerSelectsStrategyByDriver(t *testing.T) {
	log := logger.NewNop()
	assert.Equal(t, StrategyGorm, NewManager("sqlite", log).GetStrategy().GetName())
	assert.Equal(t, StrategyGoose, NewManager("mysql", log).GetStrategy().GetName())

	_, err := NewStrategy("flyway", log)
	assert.Error(t, err)
}

func TestGormAutoMigrateCreatesTables(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, NewManager("sqlite", logger.NewNop()).Migrate(db))

	for _, table := range []string{
		constants.TableLicenseKeys,
		constants.TableLicenseActivations,
		constants.TableLicenseRenewals,
		constants.TableReleases,
		constants.TableReleaseUpdates,
		constants.TableProducts,
		constants.TableCustomers,
		constants.TableTransactions,
	} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestEmbeddedScripts(t *testing.T) {
	goose, err := fs.Glob(scriptsFS, gooseDir+"/*.sql")
	require.NoError(t, err)
	assert.NotEmpty(t, goose)

	up, err := fs.Glob(scriptsFS, versionedDir+"/*.up.sql")
	require.NoError(t, err)
	down, err := fs.Glob(scriptsFS, versionedDir+"/*.down.sql")
	require.NoError(t, err)
	assert.Equal(t, len(up), len(down))
}

func TestGeneratorNumbersPairs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "000004_existing.up.sql"), nil, 0o644))

	g := NewGenerator(dir, logger.NewNop())
	up, down, err := g.CreateMigration("add_notes")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "000005_add_notes.up.sql"), up)
	assert.FileExists(t, down)

	_, _, err = g.CreateMigration("Bad Name")
	assert.Error(t, err)
}
