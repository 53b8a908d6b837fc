package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/sconn-admin/internal/common"
	"github.com/dmitrijs2005/sconn-admin/internal/dbx"
	"github.com/dmitrijs2005/sconn-admin/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.AdminUser) (*models.AdminUser, error) {
	roles, err := encodeList(user.Roles)
	if err != nil {
		return nil, err
	}
	perms, err := encodeList(user.Permissions)
	if err != nil {
		return nil, err
	}

	query :=
		`INSERT INTO admin_users (id, username, email, password_hash, roles, permissions, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = r.db.ExecContext(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash, roles, perms, user.IsActive,
		user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM admin_users WHERE username = $1`, username)
	return scanPostgres(row)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.AdminUser, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM admin_users WHERE id = $1`, id)
	return scanPostgres(row)
}

func (r *PostgresRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE admin_users SET last_login_at = $1, updated_at = $1 WHERE id = $2`, at, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) SetActive(ctx context.Context, id string, active bool, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE admin_users SET is_active = $1, updated_at = $2 WHERE id = $3`, active, at, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneRow(res)
}

// ScanPostgresRow is the PostgreSQL counterpart of ScanSQLiteRow.
func ScanPostgresRow(row RowScanner, extra ...any) (*models.AdminUser, error) {
	var (
		u            models.AdminUser
		roles, perms []byte
		lastLogin    sql.NullTime
	)

	dest := append([]any{&u.ID, &u.Username, &u.Email, &u.PasswordHash, &roles, &perms,
		&u.IsActive, &lastLogin, &u.CreatedAt, &u.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	var err error
	if u.Roles, err = decodeList(roles); err != nil {
		return nil, err
	}
	if u.Permissions, err = decodeList(perms); err != nil {
		return nil, err
	}
	if lastLogin.Valid {
		t := lastLogin.Time.UTC()
		u.LastLoginAt = &t
	}
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return &u, nil
}

func scanPostgres(row *sql.Row) (*models.AdminUser, error) {
	u, err := ScanPostgresRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}
