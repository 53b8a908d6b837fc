package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/sconn-admin/internal/dbx"
	"github.com/dmitrijs2005/sconn-admin/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/sconn-admin/internal/server/repositories/users"
)

// PostgresRepositoryManager vends PostgreSQL repositories.
type PostgresRepositoryManager struct{}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return refreshtokens.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrationsUp(ctx, db, dbx.DriverPostgres)
}
