package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/sconn-admin/internal/logging"
	"github.com/dmitrijs2005/sconn-admin/internal/server"
	"github.com/dmitrijs2005/sconn-admin/internal/server/config"
)

func main() {
	ctx := context.Background()

	cfg := config.LoadConfig()
	logger := logging.New(cfg.Env, os.Stdout)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "startup failed", "error", err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error(ctx, "server stopped with error", "error", err)
		os.Exit(1)
	}
}
