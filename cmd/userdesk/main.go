package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/udx-labs/userdesk/internal/buildinfo"
	"github.com/udx-labs/userdesk/internal/cli"
	"github.com/udx-labs/userdesk/internal/config"
	"github.com/udx-labs/userdesk/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewText(os.Stderr, parseLevel(cfg.LogLevel))

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
