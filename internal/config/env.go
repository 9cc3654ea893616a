package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// envConfig is a DTO for environment variables. Absent variables leave the
// corresponding Config field untouched.
type envConfig struct {
	DatabaseDSN    string        `env:"DATABASE_DSN"`
	Namespace      string        `env:"NAMESPACE"`
	Latency        time.Duration `env:"LATENCY"`
	SessionTimeout time.Duration `env:"SESSION_TIMEOUT"`
	TokenSecret    string        `env:"TOKEN_SECRET"`
	LogLevel       string        `env:"LOG_LEVEL"`
}

// parseEnv overlays Config with values from UD_-prefixed environment
// variables, e.g. UD_DATABASE_DSN or UD_LATENCY=150ms.
func parseEnv(cfg *Config) {
	var ec envConfig
	if err := env.ParseWithOptions(&ec, env.Options{Prefix: "UD_"}); err != nil {
		panic(err)
	}

	if ec.DatabaseDSN != "" {
		cfg.DatabaseDSN = ec.DatabaseDSN
	}
	if ec.Namespace != "" {
		cfg.Namespace = ec.Namespace
	}
	if ec.Latency != 0 {
		cfg.Latency = ec.Latency
	}
	if ec.SessionTimeout != 0 {
		cfg.SessionTimeout = ec.SessionTimeout
	}
	if ec.TokenSecret != "" {
		cfg.TokenSecret = ec.TokenSecret
	}
	if ec.LogLevel != "" {
		cfg.LogLevel = ec.LogLevel
	}
}
