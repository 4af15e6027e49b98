// Package main is the entry point for the webhook-hub server.
//
// main stays minimal: load configuration, build the logger, create the
// server, run it. Everything else lives under internal/.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sakif/webhook-hub/internal/config"
	"github.com/sakif/webhook-hub/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.Load()
	if err != nil {
		// Missing secret or lifetime aborts startup — running with an
		// insecure default is worse than not running.
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if dbDir := filepath.Dir(cfg.Database.Path); dbDir != "." {
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			logger.Error("failed to create database directory",
				slog.String("dir", dbDir),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
