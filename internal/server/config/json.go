package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/sconn-admin/internal/flagx"
	"github.com/dmitrijs2005/sconn-admin/internal/timex"
)

// JsonConfig is the on-disk shape of the server configuration file.
// Durations accept "8h", "7d" or integer nanoseconds. Pointer fields tell
// "absent" apart from an explicit zero value.
type JsonConfig struct {
	HTTPAddr                     string          `json:"http_addr"`
	APIPrefix                    string          `json:"api_prefix"`
	DatabaseDriver               string          `json:"database_driver"`
	DatabaseDSN                  string          `json:"database_dsn"`
	SecretKey                    string          `json:"secret_key"`
	AccessTokenValidityDuration  *timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration *timex.Duration `json:"refresh_token_validity_duration"`
	RememberMeValidityDuration   *timex.Duration `json:"remember_me_validity_duration"`
	TokenCleanupInterval         *timex.Duration `json:"token_cleanup_interval"`
	Env                          string          `json:"env"`
	CORSOrigin                   string          `json:"cors_origin"`
	RateLimitWindow              *timex.Duration `json:"rate_limit_window"`
	RateLimitMaxRequests         *int            `json:"rate_limit_max_requests"`
	SeedAdmin                    *bool           `json:"seed_admin"`
	BcryptCost                   *int            `json:"bcrypt_cost"`
}

// parseJson overlays config with the file named by -c / -config.
// Only keys present in the file are applied. Unreadable files and invalid
// JSON panic, as a misconfigured server must not start.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(data, c); err != nil {
		panic(err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.APIPrefix, c.APIPrefix)
	setString(&config.DatabaseDriver, c.DatabaseDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.Env, c.Env)
	setString(&config.CORSOrigin, c.CORSOrigin)

	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration != nil {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	if c.RememberMeValidityDuration != nil {
		config.RememberMeValidityDuration = c.RememberMeValidityDuration.Duration
	}
	if c.TokenCleanupInterval != nil {
		config.TokenCleanupInterval = c.TokenCleanupInterval.Duration
	}
	if c.RateLimitWindow != nil {
		config.RateLimitWindow = c.RateLimitWindow.Duration
	}
	if c.RateLimitMaxRequests != nil {
		config.RateLimitMaxRequests = *c.RateLimitMaxRequests
	}
	if c.SeedAdmin != nil {
		config.SeedAdmin = *c.SeedAdmin
	}
	if c.BcryptCost != nil {
		config.BcryptCost = *c.BcryptCost
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
