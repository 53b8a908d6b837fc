package config

import (
	"os"
	"testing"
	"time"

	"github.com/dmitrijs2005/sconn-admin/internal/timex"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "all flags", args: []string{"cmd",
			"-a", "127.0.0.1:8080", "-b", "pgx", "-d", "postgres://localhost/sconn", "-s", "secret",
			"-t", "1h", "-r", "3d", "-m", "60d", "-i", "5m", "-e", "production",
		}, expectPanic: false,
			expected: &Config{
				HTTPAddr:                     "127.0.0.1:8080",
				DatabaseDriver:               "pgx",
				DatabaseDSN:                  "postgres://localhost/sconn",
				SecretKey:                    "secret",
				AccessTokenValidityDuration:  time.Hour,
				RefreshTokenValidityDuration: 3 * timex.Day,
				RememberMeValidityDuration:   60 * timex.Day,
				TokenCleanupInterval:         5 * time.Minute,
				Env:                          "production",
			}},
		{name: "foreign flags ignored", args: []string{"cmd", "-c", "server.json", "-s", "k"}, expectPanic: false,
			expected: &Config{SecretKey: "k"}},
		{name: "bad duration", args: []string{"cmd", "-t", "soon"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
