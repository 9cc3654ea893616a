package config

import (
	"flag"
	"os"
	"time"

	"github.com/udx-labs/userdesk/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   sqlite data source (path or ":memory:")
//	-n string   storage key namespace prefix
//	-l int      simulated API latency in milliseconds
//	-t int      session inactivity timeout in minutes
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-n", "-l", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "sqlite data source")
	fs.StringVar(&cfg.Namespace, "n", cfg.Namespace, "storage key namespace prefix")
	latencyMs := fs.Int("l", int(cfg.Latency.Milliseconds()), "simulated API latency (in milliseconds)")
	timeoutMin := fs.Int("t", int(cfg.SessionTimeout.Minutes()), "session inactivity timeout (in minutes)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.Latency = time.Duration(*latencyMs) * time.Millisecond
	cfg.SessionTimeout = time.Duration(*timeoutMin) * time.Minute
}
