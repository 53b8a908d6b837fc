package refreshtokens

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dmitrijs2005/sconn-admin/internal/common"
	"github.com/dmitrijs2005/sconn-admin/internal/dbx"
	"github.com/dmitrijs2005/sconn-admin/internal/server/migrations"
	"github.com/dmitrijs2005/sconn-admin/internal/server/models"
	"github.com/dmitrijs2005/sconn-admin/internal/server/repositories/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*sql.DB, *SQLiteRepository, *users.SQLiteRepository) {
	t.Helper()
	ctx := context.Background()
	db, err := dbx.Open(ctx, dbx.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrations.Up(ctx, db, dbx.DriverSQLite))

	ur := users.NewSQLiteRepository(db)
	for _, id := range []string{"u-1", "u-2"} {
		_, err := ur.Create(ctx, &models.AdminUser{
			ID: id, Username: "user-" + id, Email: id + "@x", PasswordHash: "h",
			Roles: []string{"admin"}, IsActive: true, CreatedAt: base, UpdatedAt: base,
		})
		require.NoError(t, err)
	}
	return db, NewSQLiteRepository(db), ur
}

func token(id, user, value string, expires time.Time) *models.RefreshToken {
	return &models.RefreshToken{ID: id, UserID: user, Token: value, ExpiresAt: expires, CreatedAt: base}
}

func TestSQLite_CreateAndFindValid(t *testing.T) {
	ctx := context.Background()
	_, repo, _ := setup(t)

	require.NoError(t, repo.Create(ctx, token("t-1", "u-1", "abc", base.Add(time.Hour))))

	rt, u, err := repo.FindValid(ctx, "abc", base)
	require.NoError(t, err)
	assert.Equal(t, "t-1", rt.ID)
	assert.Equal(t, "u-1", rt.UserID)
	assert.True(t, base.Add(time.Hour).Equal(rt.ExpiresAt))
	assert.Equal(t, "user-u-1", u.Username)
	assert.Equal(t, []string{"admin"}, u.Roles)
}

func TestSQLite_FindValid_Rejects(t *testing.T) {
	ctx := context.Background()
	_, repo, ur := setup(t)

	require.NoError(t, repo.Create(ctx, token("t-1", "u-1", "abc", base.Add(time.Hour))))
	require.NoError(t, repo.Create(ctx, token("t-2", "u-2", "def", base.Add(time.Hour))))
	require.NoError(t, ur.SetActive(ctx, "u-2", false, base))

	_, _, err := repo.FindValid(ctx, "unknown", base)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	// expiry instant itself is already invalid
	_, _, err = repo.FindValid(ctx, "abc", base.Add(time.Hour))
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, _, err = repo.FindValid(ctx, "def", base)
	assert.ErrorIs(t, err, common.ErrorNotFound, "inactive owner")
}

func TestSQLite_TokenIsUnique(t *testing.T) {
	ctx := context.Background()
	_, repo, _ := setup(t)

	require.NoError(t, repo.Create(ctx, token("t-1", "u-1", "abc", base.Add(time.Hour))))
	err := repo.Create(ctx, token("t-2", "u-2", "abc", base.Add(time.Hour)))
	require.Error(t, err)
}

func TestSQLite_DeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	_, repo, _ := setup(t)

	require.NoError(t, repo.Create(ctx, token("t-1", "u-1", "abc", base.Add(time.Hour))))
	require.NoError(t, repo.Delete(ctx, "abc"))
	require.NoError(t, repo.Delete(ctx, "abc"))

	_, _, err := repo.FindValid(ctx, "abc", base)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSQLite_DeleteExpired(t *testing.T) {
	ctx := context.Background()
	_, repo, _ := setup(t)

	require.NoError(t, repo.Create(ctx, token("t-1", "u-1", "old-1", base.Add(-time.Minute))))
	require.NoError(t, repo.Create(ctx, token("t-2", "u-2", "old-2", base)))
	require.NoError(t, repo.Create(ctx, token("t-3", "u-1", "fresh", base.Add(time.Minute))))

	n, err := repo.DeleteExpired(ctx, base)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	_, _, err = repo.FindValid(ctx, "fresh", base)
	assert.NoError(t, err)
}

func TestSQLite_DeleteExpiredForUser(t *testing.T) {
	ctx := context.Background()
	db, repo, _ := setup(t)

	require.NoError(t, repo.Create(ctx, token("t-1", "u-1", "old-1", base.Add(-time.Minute))))
	require.NoError(t, repo.Create(ctx, token("t-2", "u-2", "old-2", base.Add(-time.Minute))))
	require.NoError(t, repo.Create(ctx, token("t-3", "u-1", "fresh", base.Add(time.Minute))))

	n, err := repo.DeleteExpiredForUser(ctx, "u-1", base)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	var left int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM refresh_tokens`).Scan(&left))
	assert.Equal(t, 2, left)
}

func TestSQLite_DeleteByUser(t *testing.T) {
	ctx := context.Background()
	_, repo, _ := setup(t)

	require.NoError(t, repo.Create(ctx, token("t-1", "u-1", "a", base.Add(time.Hour))))
	require.NoError(t, repo.Create(ctx, token("t-2", "u-1", "b", base.Add(time.Hour))))
	require.NoError(t, repo.Create(ctx, token("t-3", "u-2", "c", base.Add(time.Hour))))

	n, err := repo.DeleteByUser(ctx, "u-1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	_, _, err = repo.FindValid(ctx, "c", base)
	assert.NoError(t, err)
}

func TestSQLite_CascadeOnUserDelete(t *testing.T) {
	ctx := context.Background()
	db, repo, _ := setup(t)

	require.NoError(t, repo.Create(ctx, token("t-1", "u-1", "a", base.Add(time.Hour))))
	_, err := db.ExecContext(ctx, `DELETE FROM admin_users WHERE id = ?`, "u-1")
	require.NoError(t, err)

	var left int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM refresh_tokens`).Scan(&left))
	assert.Zero(t, left)
}
