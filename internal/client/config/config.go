package config

import "time"

// Config holds runtime settings for the admin CLI.
type Config struct {
	ServerURL      string
	SessionDBPath  string
	RequestTimeout time.Duration
}

func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:3001/api"
	c.SessionDBPath = "session.db"
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig applies defaults, then the JSON file, then flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
