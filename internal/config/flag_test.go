package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_parseFlags_OverridesDefaults(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"testbin", "-d", "flag.db", "-l", "50", "-t", "5"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, "flag.db", cfg.DatabaseDSN)
	assert.Equal(t, 50*time.Millisecond, cfg.Latency)
	assert.Equal(t, 5*time.Minute, cfg.SessionTimeout)
	assert.Equal(t, "userdesk_", cfg.Namespace)
}

func Test_parseFlags_IgnoresForeignFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"testbin", "-config", "somewhere.json", "-n", "alt_"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, "alt_", cfg.Namespace)
	assert.Equal(t, "userdesk.db", cfg.DatabaseDSN)
}
