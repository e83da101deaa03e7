package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tbourn/go-training-planner/internal/artifacts"
	"github.com/tbourn/go-training-planner/internal/config"
	httpapi "github.com/tbourn/go-training-planner/internal/http"
	"github.com/tbourn/go-training-planner/internal/observability"
	"github.com/tbourn/go-training-planner/internal/repo"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API until SIGINT or SIGTERM",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg, cmd.Root().Version)
		},
	}
}

func runServe(ctx context.Context, cfg config.Config, version string) error {
	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	db, closeDB, err := openStore(ctx, cfg, cfg.DB.Reset)
	if err != nil {
		return err
	}
	defer closeDB()

	if n, err := repo.PurgeExpiredIdempotency(ctx, db, time.Now().UTC()); err != nil {
		log.Warn().Err(err).Msg("purge expired idempotency records")
	} else if n > 0 {
		log.Info().Int64("purged", n).Msg("expired idempotency records removed")
	}

	store, err := artifacts.New(ctx, cfg.Artifacts)
	if err != nil {
		return err
	}
	catalog, err := repo.ListExercises(ctx, db)
	if err != nil {
		return err
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	svc := httpapi.NewServices(db, catalog, store, cfg)
	httpapi.RegisterRoutes(r, db, svc, cfg)

	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("version", version).
			Str("artifacts", cfg.Artifacts.Backend).
			Int("catalog", svc.Catalog.Len()).
			Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down http server")
	sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	log.Info().Msg("http server stopped")
	return nil
}
