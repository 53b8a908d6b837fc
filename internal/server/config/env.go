package config

import (
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/sconn-admin/internal/flagx"
	"github.com/dmitrijs2005/sconn-admin/internal/timex"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// envDuration reads "8h" or "7d" style values. It is not a struct, so
// cleanenv parses it through SetValue instead of descending into it.
type envDuration time.Duration

func (d *envDuration) SetValue(s string) error {
	v, err := timex.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = envDuration(v)
	return nil
}

// EnvConfig maps environment variables onto the server configuration.
// Variable names follow the admin panel deployment conventions
// (JWT_SECRET, JWT_EXPIRES_IN, ...). It is seeded from the current config,
// and cleanenv leaves fields of unset variables untouched.
type EnvConfig struct {
	HTTPAddr                     string      `env:"HTTP_ADDR"`
	APIPrefix                    string      `env:"API_PREFIX"`
	DatabaseDriver               string      `env:"DATABASE_DRIVER"`
	DatabaseDSN                  string      `env:"DATABASE_DSN"`
	SecretKey                    string      `env:"JWT_SECRET"`
	AccessTokenValidityDuration  envDuration `env:"JWT_EXPIRES_IN"`
	RefreshTokenValidityDuration envDuration `env:"JWT_REFRESH_EXPIRES_IN"`
	RememberMeValidityDuration   envDuration `env:"JWT_REMEMBER_EXPIRES_IN"`
	TokenCleanupInterval         envDuration `env:"TOKEN_CLEANUP_INTERVAL"`
	Env                          string      `env:"APP_ENV"`
	CORSOrigin                   string      `env:"CORS_ORIGIN"`
	RateLimitWindow              envDuration `env:"RATE_LIMIT_WINDOW"`
	RateLimitMaxRequests         int         `env:"RATE_LIMIT_MAX_REQUESTS"`
	SeedAdmin                    bool        `env:"SEED_ADMIN"`
	BcryptCost                   int         `env:"BCRYPT_COST"`
}

func envFrom(c *Config) *EnvConfig {
	return &EnvConfig{
		HTTPAddr:                     c.HTTPAddr,
		APIPrefix:                    c.APIPrefix,
		DatabaseDriver:               c.DatabaseDriver,
		DatabaseDSN:                  c.DatabaseDSN,
		SecretKey:                    c.SecretKey,
		AccessTokenValidityDuration:  envDuration(c.AccessTokenValidityDuration),
		RefreshTokenValidityDuration: envDuration(c.RefreshTokenValidityDuration),
		RememberMeValidityDuration:   envDuration(c.RememberMeValidityDuration),
		TokenCleanupInterval:         envDuration(c.TokenCleanupInterval),
		Env:                          c.Env,
		CORSOrigin:                   c.CORSOrigin,
		RateLimitWindow:              envDuration(c.RateLimitWindow),
		RateLimitMaxRequests:         c.RateLimitMaxRequests,
		SeedAdmin:                    c.SeedAdmin,
		BcryptCost:                   c.BcryptCost,
	}
}

func (e *EnvConfig) applyTo(c *Config) {
	c.HTTPAddr = e.HTTPAddr
	c.APIPrefix = e.APIPrefix
	c.DatabaseDriver = e.DatabaseDriver
	c.DatabaseDSN = e.DatabaseDSN
	c.SecretKey = e.SecretKey
	c.AccessTokenValidityDuration = time.Duration(e.AccessTokenValidityDuration)
	c.RefreshTokenValidityDuration = time.Duration(e.RefreshTokenValidityDuration)
	c.RememberMeValidityDuration = time.Duration(e.RememberMeValidityDuration)
	c.TokenCleanupInterval = time.Duration(e.TokenCleanupInterval)
	c.Env = e.Env
	c.CORSOrigin = e.CORSOrigin
	c.RateLimitWindow = time.Duration(e.RateLimitWindow)
	c.RateLimitMaxRequests = e.RateLimitMaxRequests
	c.SeedAdmin = e.SeedAdmin
	c.BcryptCost = e.BcryptCost
}

// loadEnvFile loads the dotenv file named by -env-file (default .env) if it
// exists. Variables already present in the process environment win.
func loadEnvFile() {
	path := flagx.EnvFileFlag()
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := godotenv.Load(path); err != nil {
		panic(err)
	}
}

// parseEnv overlays config with environment variables. Malformed values
// panic, like parseJson and parseFlags do.
func parseEnv(config *Config) {
	loadEnvFile()

	c := envFrom(config)
	if err := cleanenv.ReadEnv(c); err != nil {
		panic(fmt.Errorf("environment: %w", err))
	}
	c.applyTo(config)
}
