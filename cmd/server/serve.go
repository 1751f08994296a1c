package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/actuallystonmai/cf-recommender/internal/cache"
	"github.com/actuallystonmai/cf-recommender/internal/config"
	"github.com/actuallystonmai/cf-recommender/internal/handler"
	"github.com/actuallystonmai/cf-recommender/internal/repository"
	"github.com/actuallystonmai/cf-recommender/internal/router"
	"github.com/actuallystonmai/cf-recommender/internal/service"
	"github.com/actuallystonmai/cf-recommender/migrations"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}
}

func serviceOptions(cfg *config.Config) service.Options {
	return service.Options{
		Scale: cfg.Scale(),
		Defaults: service.Defaults{
			Neighbors:          cfg.CF.Neighbors,
			TopN:               cfg.CF.TopN,
			Metric:             cfg.Metric(),
			RelevanceThreshold: cfg.CF.RelevanceThreshold,
			TestRatio:          cfg.CF.TestRatio,
			Seed:               cfg.CF.Seed,
		},
		MemoSize:         cfg.CF.SimilarityCacheSize,
		BatchConcurrency: cfg.BatchConcurrency,
	}
}

func runServe(cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// ------------ PostgreSQL ---------------
	pool, err := connectDB(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("database not ready")
		return err
	}
	defer pool.Close()

	// ------------ Run Migrations ---------------
	if err := migrations.Up(ctx, pool); err != nil {
		return err
	}

	// ------------ Setup Seed Data ---------------
	if err := checkSeed(ctx, pool); err != nil {
		return fmt.Errorf("check seed: %w", err)
	}

	// ------------ Redis ---------------
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(redisOpts)
	defer rdb.Close()

	recCache := cache.NewCache(rdb, cfg.CacheTTL)
	if err := recCache.Ping(ctx); err != nil {
		// Cache failures are tolerated per request, so keep serving.
		log.Warn().Err(err).Msg("redis unreachable, continuing without cache hits")
	}

	// ------------ Service ---------------
	svc := service.NewService(repository.New(pool), recCache, serviceOptions(cfg))
	if err := svc.Reload(ctx); err != nil {
		return fmt.Errorf("initial snapshot: %w", err)
	}

	// ---------------- Server --------------------
	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: router.Setup(handler.NewHandler(svc), router.Options{
			RequestsPerMinute: cfg.RateLimit,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server running")
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

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
