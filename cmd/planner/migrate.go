package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tbourn/go-training-planner/internal/config"
	"github.com/tbourn/go-training-planner/internal/repo"
)

func newMigrateCmd() *cobra.Command {
	var reset bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the database schema and seed the exercise catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runMigrate(cmd.Context(), cfg, reset || cfg.DB.Reset)
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "drop every table before recreating (destroys all data)")
	return cmd
}

func runMigrate(ctx context.Context, cfg config.Config, reset bool) error {
	db, closeDB, err := openStore(ctx, cfg, reset)
	if err != nil {
		return err
	}
	defer closeDB()

	purged, err := repo.PurgeExpiredIdempotency(ctx, db, time.Now().UTC())
	if err != nil {
		return err
	}
	log.Info().Str("db", cfg.DB.Path).Bool("reset", reset).Int64("idempotency_purged", purged).Msg("schema up to date")
	return nil
}
