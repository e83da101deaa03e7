// Command planner runs the training planner: the HTTP API, schema
// migrations and one-off profile submissions.
//
// @title       Training Planner API
// @version     1.0
// @description Fitness profile synchronization and training plan generation.
// @BasePath    /api/v1
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-training-planner/internal/config"
	"github.com/tbourn/go-training-planner/internal/repo"
	"github.com/tbourn/go-training-planner/internal/sysutil"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "planner",
		Short:         "Training planner: profile sync and plan generation",
		Version:       sysutil.FirstNonEmpty(version, os.Getenv("APP_VERSION"), "dev"),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newMigrateCmd(), newSubmitCmd())
	return root
}

// loadConfig reads .env (when present) and the environment, then installs
// the global logger. Logs go to stderr so command output on stdout stays
// machine-readable.
func loadConfig() (config.Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return config.Config{}, fmt.Errorf("load .env: %w", err)
	}
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	sysutil.ConfigureLogging(os.Stderr, cfg.LogLevel, cfg.LogPretty)
	return cfg, nil
}

// openStore opens the SQLite database and brings the schema up to date.
func openStore(ctx context.Context, cfg config.Config, reset bool) (*gorm.DB, func(), error) {
	db, err := repo.OpenSQLite(cfg.DB.Path,
		repo.WithMaxOpenConns(cfg.DB.MaxOpenConns),
		repo.WithBusyTimeout(cfg.DB.BusyTimeout),
		repo.WithTracing(cfg.DB.Tracing),
		repo.WithLogLevel(gormLogLevel(cfg.LogLevel)),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	closeDB := func() {
		if sqlDB, err := db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Warn().Err(err).Msg("close database")
			}
		}
	}
	if err := repo.EnsureSchema(ctx, db, reset); err != nil {
		closeDB()
		return nil, nil, fmt.Errorf("ensure schema: %w", err)
	}
	return db, closeDB, nil
}

// gormLogLevel keeps SQL tracing out of the logs unless debug is requested.
func gormLogLevel(level string) logger.LogLevel {
	if level == "debug" || level == "trace" {
		return logger.Info
	}
	return logger.Warn
}
