// Package repomanager vends repositories for the configured database backend
// and applies its schema migrations.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/sconn-admin/internal/dbx"
	"github.com/dmitrijs2005/sconn-admin/internal/server/migrations"
	"github.com/dmitrijs2005/sconn-admin/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/sconn-admin/internal/server/repositories/users"
)

// RepositoryManager binds repositories to a handle, which may be the pool or
// a transaction opened with dbx.WithTx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
}

// migrationsUp is a seam for tests.
var migrationsUp = migrations.Up

// New returns the manager for a database/sql driver name.
func New(driver string) (RepositoryManager, error) {
	switch driver {
	case dbx.DriverSQLite:
		return &SQLiteRepositoryManager{}, nil
	case dbx.DriverPostgres:
		return &PostgresRepositoryManager{}, nil
	default:
		return nil, fmt.Errorf("no repositories for driver %q", driver)
	}
}
