package sqlite_test

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/geocoder89/recipehub/internal/db"
	"github.com/stretchr/testify/require"
)

// testDB opens a migrated database backed by a throwaway file. A file, not
// :memory:, because the pool hands out several connections and each
// in-memory connection would be its own database.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	sqldb, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	t.Cleanup(func() { sqldb.Close() })

	require.NoError(t, db.Migrate(sqldb))

	return sqldb
}
