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

// SQLiteRepository keeps timestamps as fixed-width UTC text and role and
// permission lists as JSON text.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, user *models.AdminUser) (*models.AdminUser, error) {
	roles, err := encodeList(user.Roles)
	if err != nil {
		return nil, err
	}
	perms, err := encodeList(user.Permissions)
	if err != nil {
		return nil, err
	}

	query := `INSERT INTO admin_users (` + columns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, NULL, ?, ?)`

	_, err = r.db.ExecContext(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash, roles, perms, user.IsActive,
		dbx.FormatTimestamp(user.CreatedAt), dbx.FormatTimestamp(user.UpdatedAt))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (r *SQLiteRepository) GetByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM admin_users WHERE username = ?`, username)
	return scanSQLite(row)
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.AdminUser, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM admin_users WHERE id = ?`, id)
	return scanSQLite(row)
}

func (r *SQLiteRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	ts := dbx.FormatTimestamp(at)
	_, err := r.db.ExecContext(ctx,
		`UPDATE admin_users SET last_login_at = ?, updated_at = ? WHERE id = ?`, ts, ts, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) SetActive(ctx context.Context, id string, active bool, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE admin_users SET is_active = ?, updated_at = ? WHERE id = ?`, active, dbx.FormatTimestamp(at), id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneRow(res)
}

// RowScanner is satisfied by *sql.Row and *sql.Rows.
type RowScanner interface {
	Scan(dest ...any) error
}

// ScanSQLiteRow reads a user selected with the standard column list from
// SQLite. It is shared with queries that join other tables on admin_users.
func ScanSQLiteRow(row RowScanner, extra ...any) (*models.AdminUser, error) {
	var (
		u                models.AdminUser
		roles, perms     string
		lastLogin        sql.NullString
		created, updated string
	)

	dest := append([]any{&u.ID, &u.Username, &u.Email, &u.PasswordHash, &roles, &perms,
		&u.IsActive, &lastLogin, &created, &updated}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	var err error
	if u.Roles, err = decodeList([]byte(roles)); err != nil {
		return nil, err
	}
	if u.Permissions, err = decodeList([]byte(perms)); err != nil {
		return nil, err
	}
	if u.CreatedAt, err = dbx.ParseTimestamp(created); err != nil {
		return nil, fmt.Errorf("created_at: %w", err)
	}
	if u.UpdatedAt, err = dbx.ParseTimestamp(updated); err != nil {
		return nil, fmt.Errorf("updated_at: %w", err)
	}
	if lastLogin.Valid {
		t, err := dbx.ParseTimestamp(lastLogin.String)
		if err != nil {
			return nil, fmt.Errorf("last_login_at: %w", err)
		}
		u.LastLoginAt = &t
	}
	return &u, nil
}

func scanSQLite(row *sql.Row) (*models.AdminUser, error) {
	u, err := ScanSQLiteRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
