// Package config handles configuration for the admin API server: defaults,
// an optional JSON file, environment variables (with .env support) and
// command-line flags, applied in that order.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/sconn-admin/internal/common"
	"github.com/dmitrijs2005/sconn-admin/internal/dbx"
	"github.com/dmitrijs2005/sconn-admin/internal/timex"
)

// Config holds runtime settings for the admin API server.
//
// Fields:
//   - HTTPAddr / APIPrefix: listen address and the prefix the auth routes live under.
//   - DatabaseDriver / DatabaseDSN: "sqlite" (default) or "pgx" and the matching DSN.
//   - SecretKey: HMAC secret for signing access tokens (HS256). Required.
//   - AccessTokenValidityDuration: access token lifetime (8h).
//   - RefreshTokenValidityDuration / RememberMeValidityDuration: refresh token
//     lifetime for normal (7d) and remember-me (30d) logins.
//   - TokenCleanupInterval: how often expired refresh tokens are purged.
//   - Env: "development" or "production"; production hides internal error text.
//   - CORSOrigin: the single origin allowed to call the API from a browser.
//   - RateLimitWindow / RateLimitMaxRequests: per client IP request budget.
//   - SeedAdmin: create the default administrator on an empty database.
//   - BcryptCost: cost used for the seeded password and the timing dummy hash.
type Config struct {
	HTTPAddr                     string
	APIPrefix                    string
	DatabaseDriver               string
	DatabaseDSN                  string
	SecretKey                    string
	AccessTokenValidityDuration  time.Duration
	RefreshTokenValidityDuration time.Duration
	RememberMeValidityDuration   time.Duration
	TokenCleanupInterval         time.Duration
	Env                          string
	CORSOrigin                   string
	RateLimitWindow              time.Duration
	RateLimitMaxRequests         int
	SeedAdmin                    bool
	BcryptCost                   int
}

// LoadDefaults populates Config with development defaults.
// SecretKey is deliberately left empty; Validate rejects it.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":3001"
	c.APIPrefix = "/api"
	c.DatabaseDriver = dbx.DriverSQLite
	c.DatabaseDSN = "file:sconn-admin.db"
	c.SecretKey = ""
	c.AccessTokenValidityDuration = 8 * time.Hour
	c.RefreshTokenValidityDuration = 7 * timex.Day
	c.RememberMeValidityDuration = 30 * timex.Day
	c.TokenCleanupInterval = 30 * time.Minute
	c.Env = "development"
	c.CORSOrigin = "http://localhost:5173"
	c.RateLimitWindow = 15 * time.Minute
	c.RateLimitMaxRequests = 100
	c.SeedAdmin = true
	c.BcryptCost = 12
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.SecretKey == "" {
		errs = append(errs, common.ErrMissingSecret)
	}
	if c.DatabaseDriver != dbx.DriverSQLite && c.DatabaseDriver != dbx.DriverPostgres {
		errs = append(errs, fmt.Errorf("unsupported database driver %q", c.DatabaseDriver))
	}
	if c.AccessTokenValidityDuration <= 0 {
		errs = append(errs, errors.New("access token lifetime must be positive"))
	}
	if c.RefreshTokenValidityDuration <= 0 || c.RememberMeValidityDuration <= 0 {
		errs = append(errs, errors.New("refresh token lifetimes must be positive"))
	}
	if c.TokenCleanupInterval <= 0 {
		errs = append(errs, errors.New("token cleanup interval must be positive"))
	}
	return errors.Join(errs...)
}

// IsProduction reports whether internal details must be hidden from clients.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// LoadConfig builds a Config from defaults, then the JSON file, then the
// environment, then command-line flags. Later sources win.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
