package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "userdesk.db", c.DatabaseDSN)
	assert.Equal(t, "userdesk_", c.Namespace)
	assert.Equal(t, 300*time.Millisecond, c.Latency)
	assert.Equal(t, 30*time.Minute, c.SessionTimeout)
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "userdesk.db", cfg.DatabaseDSN)
	assert.Equal(t, 300*time.Millisecond, cfg.Latency)
}
