// Package migrations embeds the goose SQL migrations of the admin API,
// one directory per supported database driver.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/sconn-admin/internal/dbx"
	"github.com/pressly/goose/v3"
)

//go:embed sqlite/*.sql postgres/*.sql
var Migrations embed.FS

// goose keeps its base FS and dialect in package globals.
var gooseMu sync.Mutex

// Dir returns the migrations directory for a database/sql driver name.
func Dir(driver string) (string, error) {
	switch driver {
	case dbx.DriverSQLite:
		return "sqlite", nil
	case dbx.DriverPostgres:
		return "postgres", nil
	default:
		return "", fmt.Errorf("no migrations for driver %q", driver)
	}
}

// Up applies all pending migrations for driver.
func Up(ctx context.Context, db *sql.DB, driver string) error {
	dir, err := Dir(driver)
	if err != nil {
		return err
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(Migrations)
	if err := goose.SetDialect(driver); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, dir)
}
