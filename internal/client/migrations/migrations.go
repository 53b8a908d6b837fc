// Package migrations embeds the schema of the CLI's local session database.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var Migrations embed.FS

var gooseMu sync.Mutex

// Up brings a SQLite database to the latest schema.
func Up(ctx context.Context, db *sql.DB) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}
