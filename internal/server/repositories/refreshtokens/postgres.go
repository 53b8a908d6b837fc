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

// PostgresRepository works over dbx.DBTX, so it can run inside a transaction.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, t *models.RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (id, user_id, token, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := r.db.ExecContext(ctx, query, t.ID, t.UserID, t.Token, t.ExpiresAt, t.CreatedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) FindValid(ctx context.Context, token string, now time.Time) (*models.RefreshToken, *models.AdminUser, error) {
	query := `
		SELECT ` + users.QualifiedColumns("u") + `, rt.id, rt.token, rt.expires_at, rt.created_at
		FROM refresh_tokens rt
		JOIN admin_users u ON u.id = rt.user_id
		WHERE rt.token = $1 AND rt.expires_at > $2 AND u.is_active
	`
	var rt models.RefreshToken
	row := r.db.QueryRowContext(ctx, query, token, now)
	u, err := users.ScanPostgresRow(row, &rt.ID, &rt.Token, &rt.ExpiresAt, &rt.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, common.ErrorNotFound
		}
		return nil, nil, fmt.Errorf("db error: %w", err)
	}
	rt.UserID = u.ID
	rt.ExpiresAt = rt.ExpiresAt.UTC()
	rt.CreatedAt = rt.CreatedAt.UTC()
	return &rt, u, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE token = $1`, token); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	return exec(ctx, r.db, `DELETE FROM refresh_tokens WHERE user_id = $1`, userID)
}

func (r *PostgresRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return exec(ctx, r.db, `DELETE FROM refresh_tokens WHERE expires_at <= $1`, now)
}

func (r *PostgresRepository) DeleteExpiredForUser(ctx context.Context, userID string, now time.Time) (int64, error) {
	return exec(ctx, r.db, `DELETE FROM refresh_tokens WHERE user_id = $1 AND expires_at <= $2`, userID, now)
}
