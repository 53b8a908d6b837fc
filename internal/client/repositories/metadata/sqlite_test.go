package metadata

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dmitrijs2005/sconn-admin/internal/client/migrations"
	"github.com/dmitrijs2005/sconn-admin/internal/dbx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()
	db, err := dbx.Open(ctx, dbx.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrations.Up(ctx, db))
	return db
}

func TestSetAndGet(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "k1", []byte{0x01, 0x02}))

	v, err := r.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02}, v)
}

func TestGet_Absent(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	v, err := r.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestSet_Upserts(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "k", []byte("old")))
	require.NoError(t, r.Set(ctx, "k", []byte("new")))

	v, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), v)
}

func TestDelete_Idempotent(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "x", []byte{0x01}))
	require.NoError(t, r.Delete(ctx, "x"))
	require.NoError(t, r.Delete(ctx, "x"))

	v, err := r.Get(ctx, "x")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestErrorsAreWrapped(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	require.NoError(t, db.Close())

	_, err := r.Get(ctx, "k")
	assert.ErrorContains(t, err, "failed to get metadata[k]")
	assert.ErrorContains(t, r.Set(ctx, "k", []byte("v")), "failed to set metadata[k]")
	assert.ErrorContains(t, r.Delete(ctx, "k"), "failed to delete metadata[k]")
}
