// Package storage keeps the CLI session across runs: the local SQLite
// database and the refresh token persisted in it.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/sconn-admin/internal/client/migrations"
	"github.com/dmitrijs2005/sconn-admin/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/sconn-admin/internal/dbx"
	"github.com/dmitrijs2005/sconn-admin/internal/filex"
)

const refreshTokenKey = "refresh_token"

// RefreshTokenStore persists the refresh token between runs. Load returns
// "" when nothing is stored.
type RefreshTokenStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// InitDatabase opens the session database at path and migrates it.
func InitDatabase(ctx context.Context, path string) (*sql.DB, error) {
	if path != ":memory:" && !strings.HasPrefix(path, "file:") {
		abs, err := filex.EnsureParentDir(path)
		if err != nil {
			return nil, err
		}
		path = abs
	}

	db, err := dbx.Open(ctx, dbx.DriverSQLite, path)
	if err != nil {
		return nil, err
	}
	if err := migrations.Up(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("session db migrations: %w", err)
	}
	return db, nil
}

// MetadataTokenStore keeps the refresh token in the metadata table.
type MetadataTokenStore struct {
	repo metadata.Repository
}

func NewMetadataTokenStore(repo metadata.Repository) *MetadataTokenStore {
	return &MetadataTokenStore{repo: repo}
}

func (s *MetadataTokenStore) Load(ctx context.Context) (string, error) {
	v, err := s.repo.Get(ctx, refreshTokenKey)
	if err != nil {
		return "", err
	}
	return string(v), nil
}

func (s *MetadataTokenStore) Save(ctx context.Context, token string) error {
	return s.repo.Set(ctx, refreshTokenKey, []byte(token))
}

func (s *MetadataTokenStore) Clear(ctx context.Context) error {
	return s.repo.Delete(ctx, refreshTokenKey)
}
