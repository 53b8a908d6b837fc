package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/dmitrijs2005/sconn-admin/internal/client/client"
	"github.com/dmitrijs2005/sconn-admin/internal/client/config"
	"github.com/dmitrijs2005/sconn-admin/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/sconn-admin/internal/client/session"
	"github.com/dmitrijs2005/sconn-admin/internal/client/storage"
	"github.com/dmitrijs2005/sconn-admin/internal/logging"
)

// Session is what the commands need from session.Manager.
type Session interface {
	Restore(ctx context.Context) error
	Login(ctx context.Context, cred session.Credentials) error
	Logout(ctx context.Context) error
	RefreshAccessToken(ctx context.Context) (string, error)
	User() *client.User
	IsAuthenticated() bool
	HasPermission(permission string) bool
	HasRole(role string) bool
	ExpiresAt() time.Time
}

// Profile fetches the current user through the intercepting transport.
type Profile interface {
	Me(ctx context.Context) (*client.User, error)
}

type App struct {
	db      *sql.DB
	session Session
	profile Profile
	reader  *bufio.Reader
	out     io.Writer
	log     logging.Logger
}

func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	db, err := storage.InitDatabase(ctx, cfg.SessionDBPath)
	if err != nil {
		return nil, fmt.Errorf("session database: %w", err)
	}

	store := storage.NewMetadataTokenStore(metadata.NewSQLiteRepository(db))
	authAPI := client.NewAuthAPI(cfg.ServerURL, &http.Client{Timeout: cfg.RequestTimeout})

	mgr := session.NewManager(authAPI, store, log, session.WithOnSessionExpired(func() {
		printlnFn("Your session has expired. Please log in again.")
	}))
	api := client.NewAPIClient(cfg.ServerURL, mgr, cfg.RequestTimeout)

	a := newApp(mgr, api, bufio.NewReader(os.Stdin), os.Stdout, log)
	a.db = db
	return a, nil
}

func newApp(s Session, p Profile, reader *bufio.Reader, out io.Writer, log logging.Logger) *App {
	return &App{session: s, profile: p, reader: reader, out: out, log: log}
}

// Run restores the saved session and blocks in the REPL until the user
// exits or input ends.
func (a *App) Run(ctx context.Context) {
	if a.db != nil {
		defer a.db.Close()
	}

	printlnFn("SConnect admin CLI (type 'help' for commands)")

	if err := a.session.Restore(ctx); err != nil {
		printlnFn("Saved session could not be restored:", describe(err))
	} else if u := a.session.User(); u != nil {
		printlnFn("Welcome back,", u.Username)
	}

	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

func (a *App) status() string {
	if u := a.session.User(); u != nil {
		return "(" + u.Username + ")"
	}
	return ""
}
