package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/sconn-admin/internal/flagx"
	"github.com/dmitrijs2005/sconn-admin/internal/timex"
)

func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-f", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "admin API base URL")
	fs.StringVar(&cfg.SessionDBPath, "f", cfg.SessionDBPath, "local session database file")
	timeout := &timex.Duration{Duration: cfg.RequestTimeout}
	fs.Var(timeout, "t", "request timeout")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = timeout.Duration
}
