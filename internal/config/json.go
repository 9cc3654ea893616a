package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/udx-labs/userdesk/internal/flagx"
	"github.com/udx-labs/userdesk/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "30m"
// or as integer nanoseconds. After parsing, values are copied into the
// runtime Config (which uses time.Duration).
type JsonConfig struct {
	DatabaseDSN    string         `json:"database_dsn"`
	Namespace      string         `json:"namespace"`
	Latency        timex.Duration `json:"latency"`
	SessionTimeout timex.Duration `json:"session_timeout"`
	TokenSecret    string         `json:"token_secret"`
	LogLevel       string         `json:"log_level"`
}

// parseJson overlays Config with values loaded from a JSON file. The file
// path comes from the -c or -config flag via flagx.JsonConfigFlags(); when
// neither is present the function returns without touching cfg. Read and
// unmarshal errors panic (caller should recover if desired).
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.Namespace != "" {
		cfg.Namespace = jc.Namespace
	}
	if jc.Latency.Duration != 0 {
		cfg.Latency = time.Duration(jc.Latency.Duration)
	}
	if jc.SessionTimeout.Duration != 0 {
		cfg.SessionTimeout = time.Duration(jc.SessionTimeout.Duration)
	}
	if jc.TokenSecret != "" {
		cfg.TokenSecret = jc.TokenSecret
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
}
