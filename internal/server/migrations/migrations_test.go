package migrations

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dmitrijs2005/sconn-admin/internal/dbx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func TestUp_SQLiteCreatesSchemaAndIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := dbx.Open(ctx, dbx.DriverSQLite, ":memory:")
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Up(ctx, db, dbx.DriverSQLite))
	require.NoError(t, Up(ctx, db, dbx.DriverSQLite))

	assert.True(t, tableExists(t, db, "admin_users"))
	assert.True(t, tableExists(t, db, "refresh_tokens"))
	assert.True(t, tableExists(t, db, "goose_db_version"))
}

func TestDir(t *testing.T) {
	d, err := Dir(dbx.DriverPostgres)
	require.NoError(t, err)
	assert.Equal(t, "postgres", d)

	_, err = Dir("mysql")
	require.Error(t, err)
}

func TestEmbeddedFiles(t *testing.T) {
	for _, dir := range []string{"sqlite", "postgres"} {
		entries, err := Migrations.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 2, dir)
	}
}
