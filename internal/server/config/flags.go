package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/sconn-admin/internal/flagx"
	"github.com/dmitrijs2005/sconn-admin/internal/timex"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags:
//
//	-a string     HTTP listen address (e.g. ":3001")
//	-b string     database driver: sqlite or pgx
//	-d string     database DSN
//	-s string     token signing secret
//	-t duration   access token lifetime ("8h")
//	-r duration   refresh token lifetime ("7d")
//	-m duration   remember-me refresh token lifetime ("30d")
//	-i duration   expired refresh token cleanup interval ("30m")
//	-e string     environment: development or production
//
// Only these flags are taken from os.Args (see flagx.FilterArgs), so the
// -c and -env-file flags of the other layers do not clash.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-b", "-d", "-s", "-t", "-r", "-m", "-i", "-e"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDriver, "b", config.DatabaseDriver, "database driver (sqlite|pgx)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "token signing secret")

	access := &timex.Duration{Duration: config.AccessTokenValidityDuration}
	refresh := &timex.Duration{Duration: config.RefreshTokenValidityDuration}
	remember := &timex.Duration{Duration: config.RememberMeValidityDuration}
	cleanup := &timex.Duration{Duration: config.TokenCleanupInterval}
	fs.Var(access, "t", "access token lifetime")
	fs.Var(refresh, "r", "refresh token lifetime")
	fs.Var(remember, "m", "remember-me refresh token lifetime")
	fs.Var(cleanup, "i", "expired token cleanup interval")

	fs.StringVar(&config.Env, "e", config.Env, "environment (development|production)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = access.Duration
	config.RefreshTokenValidityDuration = refresh.Duration
	config.RememberMeValidityDuration = remember.Duration
	config.TokenCleanupInterval = cleanup.Duration
}
