package config

import "time"

// Config holds runtime settings for the userdesk CLI.
//
// Fields:
//   - DatabaseDSN: sqlite data source, a file path or ":memory:".
//   - Namespace: key prefix isolating this app's entries in the store.
//   - Latency: artificial delay applied to every simulated API request.
//   - SessionTimeout: inactivity window after which a session counts as expired.
//   - TokenSecret: HMAC key for session flag tokens.
//   - LogLevel: slog level name (debug, info, warn, error).
type Config struct {
	DatabaseDSN    string
	Namespace      string
	Latency        time.Duration
	SessionTimeout time.Duration
	TokenSecret    string
	LogLevel       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabaseDSN = "userdesk.db"
	c.Namespace = "userdesk_"
	c.Latency = 300 * time.Millisecond
	c.SessionTimeout = 30 * time.Minute
	c.TokenSecret = "devsecret"
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), environment variables, and command-line flags. Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
