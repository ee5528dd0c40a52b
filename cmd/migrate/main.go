package main

import (
	"flag"
	"log/slog"
	"os"

	"salon-scheduler/internal/infra/db"
	"salon-scheduler/internal/pkg/config"

	"github.com/kelseyhightower/envconfig"
)

func main() {
	steps := flag.Int("steps", 0, "apply at most N migrations, negative rolls back N; 0 applies all pending")
	flag.Parse()

	var cfg config.DBConfig
	if err := envconfig.Process("", &cfg); err != nil {
		slog.Error("failed to read database settings", "error", err)
		os.Exit(1)
	}
	if cfg.User == "" || cfg.DBName == "" {
		slog.Error("DB_USER and DB_NAME are required")
		os.Exit(1)
	}

	if err := db.Migrate(cfg.BuildDSN(), *steps); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}
}
