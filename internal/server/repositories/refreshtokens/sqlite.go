package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/sconn-admin/internal/common"
	"github.com/dmitrijs2005/sconn-admin/internal/dbx"
	"github.com/dmitrijs2005/sconn-admin/internal/server/models"
	"github.com/dmitrijs2005/sconn-admin/internal/server/repositories/users"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, t *models.RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (id, user_id, token, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query, t.ID, t.UserID, t.Token,
		dbx.FormatTimestamp(t.ExpiresAt), dbx.FormatTimestamp(t.CreatedAt))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) FindValid(ctx context.Context, token string, now time.Time) (*models.RefreshToken, *models.AdminUser, error) {
	query := `
		SELECT ` + users.QualifiedColumns("u") + `, rt.id, rt.token, rt.expires_at, rt.created_at
		FROM refresh_tokens rt
		JOIN admin_users u ON u.id = rt.user_id
		WHERE rt.token = ? AND rt.expires_at > ? AND u.is_active = 1
	`
	var (
		rt               models.RefreshToken
		expires, created string
	)
	row := r.db.QueryRowContext(ctx, query, token, dbx.FormatTimestamp(now))
	u, err := users.ScanSQLiteRow(row, &rt.ID, &rt.Token, &expires, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, common.ErrorNotFound
		}
		return nil, nil, fmt.Errorf("db error: %w", err)
	}
	if rt.ExpiresAt, err = dbx.ParseTimestamp(expires); err != nil {
		return nil, nil, fmt.Errorf("expires_at: %w", err)
	}
	if rt.CreatedAt, err = dbx.ParseTimestamp(created); err != nil {
		return nil, nil, fmt.Errorf("created_at: %w", err)
	}
	rt.UserID = u.ID
	return &rt, u, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE token = ?`, token); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	return exec(ctx, r.db, `DELETE FROM refresh_tokens WHERE user_id = ?`, userID)
}

func (r *SQLiteRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return exec(ctx, r.db, `DELETE FROM refresh_tokens WHERE expires_at <= ?`, dbx.FormatTimestamp(now))
}

func (r *SQLiteRepository) DeleteExpiredForUser(ctx context.Context, userID string, now time.Time) (int64, error) {
	return exec(ctx, r.db, `DELETE FROM refresh_tokens WHERE user_id = ? AND expires_at <= ?`,
		userID, dbx.FormatTimestamp(now))
}

func exec(ctx context.Context, db dbx.DBTX, query string, args ...any) (int64, error) {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
