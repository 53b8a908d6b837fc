package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/sconn-admin/internal/flagx"
	"github.com/dmitrijs2005/sconn-admin/internal/timex"
)

// JsonConfig is the on-disk shape. Empty fields leave the current value.
type JsonConfig struct {
	ServerURL      string          `json:"server_url"`
	SessionDBPath  string          `json:"session_db_path"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
}

// parseJson overlays cfg with the file named by -c/-config, if any.
// Unreadable or malformed files panic.
func parseJson(cfg *Config) {
	path := flagx.JsonConfigFlags()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.SessionDBPath != "" {
		cfg.SessionDBPath = jc.SessionDBPath
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
}
