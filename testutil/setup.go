package testutil

import (
	"path/filepath"
	"testing"

	dbsqlite "github.com/Nam088/drinking-game-v2/db/sqlite"
	"github.com/Nam088/drinking-game-v2/model"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// SetupTestDB creates a throwaway SQLite DB under t.TempDir() and runs
// AutoMigrate. It requires no external services and is safe to use in
// parallel tests.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := dbsqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "SetupTestDB: Open")
	require.NoError(t, model.AutoMigrate(db), "SetupTestDB: AutoMigrate")
	return db
}
