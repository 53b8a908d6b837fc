// Package server assembles the admin API: storage, the auth service, the
// HTTP surface and the refresh token janitor, and runs them until shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/sconn-admin/internal/dbx"
	"github.com/dmitrijs2005/sconn-admin/internal/logging"
	"github.com/dmitrijs2005/sconn-admin/internal/server/auth"
	"github.com/dmitrijs2005/sconn-admin/internal/server/config"
	"github.com/dmitrijs2005/sconn-admin/internal/server/metrics"
	"github.com/dmitrijs2005/sconn-admin/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/sconn-admin/internal/server/rest"
	"github.com/dmitrijs2005/sconn-admin/internal/server/services"
	"github.com/dmitrijs2005/sconn-admin/internal/timex"
	"golang.org/x/sync/errgroup"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	authService *services.AuthService
	metrics     *metrics.Metrics
	clock       timex.Clock
}

// NewApp connects to the database and wires the services. It does not touch
// the schema; Run migrates before serving.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	clock := timex.SystemClock{}

	codec, err := auth.NewCodec([]byte(cfg.SecretKey), clock)
	if err != nil {
		return nil, err
	}

	rm, err := repomanager.New(cfg.DatabaseDriver)
	if err != nil {
		return nil, err
	}

	db, err := dbx.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	m := metrics.New()
	svc := services.NewAuthService(db, rm, services.AuthConfig{
		AccessTokenTTL:  cfg.AccessTokenValidityDuration,
		RefreshTokenTTL: cfg.RefreshTokenValidityDuration,
		RememberMeTTL:   cfg.RememberMeValidityDuration,
		BcryptCost:      cfg.BcryptCost,
	}, codec, clock, logger.With("module", "auth_service"), m)

	return &App{
		config:      cfg,
		logger:      logger,
		db:          db,
		repomanager: rm,
		authService: svc,
		metrics:     m,
		clock:       clock,
	}, nil
}

func (app *App) prepareDatabase(ctx context.Context) error {
	if err := app.repomanager.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	if !app.config.SeedAdmin {
		return nil
	}
	created, err := services.SeedAdmin(ctx, app.repomanager.Users(app.db), app.clock, app.config.BcryptCost)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if created {
		app.logger.Warn(ctx, "default administrator created, change its password",
			"username", services.SeedAdminUsername)
	}
	return nil
}

// Run serves until SIGINT, SIGTERM or SIGQUIT, or until ctx is cancelled.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()
	defer app.db.Close()

	app.logger.Info(ctx, "Starting app...", "env", app.config.Env, "driver", app.config.DatabaseDriver)

	if err := app.prepareDatabase(ctx); err != nil {
		return err
	}

	router := rest.NewRouter(app.config, app.authService, app.logger, app.metrics, app.clock)
	srv := rest.NewServer(app.config.HTTPAddr, router, app.logger)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(ctx)
	})
	g.Go(func() error {
		return app.authService.RunJanitor(ctx, app.config.TokenCleanupInterval)
	})

	err := g.Wait()
	app.logger.Info(context.Background(), "App stopped")
	return err
}
