// Copyright (c) 2026 Editaliza. All rights reserved.

// Command api serves the Editaliza auth API, feed API and gated page UI.
//
// # Startup Sequence
//
//  1. Structured logger.
//  2. Configuration from the environment (and .env when present).
//  3. PostgreSQL pool and migrations.
//  4. Redis, when REDIS_URL is set.
//  5. Token service, auth and feed wiring, request gate.
//  6. HTTP server with graceful shutdown on SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/editaliza/editaliza/internal/api"
	"github.com/editaliza/editaliza/internal/auth"
	"github.com/editaliza/editaliza/internal/feed"
	"github.com/editaliza/editaliza/internal/gate"
	"github.com/editaliza/editaliza/internal/platform/config"
	"github.com/editaliza/editaliza/internal/platform/constants"
	"github.com/editaliza/editaliza/internal/platform/migration"
	pgstore "github.com/editaliza/editaliza/internal/platform/postgres"
	redisstore "github.com/editaliza/editaliza/internal/platform/redis"
	"github.com/editaliza/editaliza/internal/platform/sec"
)

func main() {
	log := newLogger(slog.LevelInfo)
	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.Bool("redis", cfg.RedisURL != ""),
		slog.Bool("gate_resolve_user", cfg.GateResolveUser),
	)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	startupCtx, startupCancel := context.WithTimeout(rootCtx, 30*time.Second)
	defer startupCancel()

	// Storage
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, pgstore.DefaultOptions(), log)
	must(log, err, "connect to postgres")
	defer pool.Close()

	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	if rdb != nil {
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Error("redis_close_failed", slog.Any("error", err))
			}
		}()
	}

	// Auth
	tokens, err := sec.NewTokenService(cfg.JWTSecret, constants.AuthIssuer, cfg.TokenTTL)
	must(log, err, "initialize token service")

	authService := auth.NewService(auth.NewUserRepository(pool), tokens)
	authHandler := auth.NewHandler(authService, cfg.IsProduction())

	var pageVerifier gate.Verifier = gate.VerifierFunc(authService.Verify)
	if cfg.GateResolveUser {
		pageVerifier = gate.VerifierFunc(authService.VerifyResolved)
	}
	pageGate := gate.New(pageVerifier, gate.WithCookieOptions(authHandler.CookieOptions()))

	// Feed
	var feedRepository feed.Repository = feed.NewPostgresRepository(pool)
	if rdb != nil {
		feedRepository = feed.NewCachedRepository(feedRepository, feed.NewRedisCache(rdb), cfg.FeedCacheTTL)
	}
	feedHandler := feed.NewHandler(feed.NewService(feedRepository))

	// Pages
	pages, err := api.NewPageHandler(cfg.FrontendURL, cfg.StaticDir)
	must(log, err, "initialize page handler")

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		Database: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) },
		Cache:    cacheCheck(rdb),
	})

	server := api.NewServer(rootCtx, cfg, log, authService, pageGate, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      authHandler,
		Feed:      feedHandler,
		Pages:     pages,
	})

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-rootCtx.Done():
		log.Info("shutdown_signal_received")
	case err := <-serverErr:
		log.Error("server_failed", slog.Any("error", err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown_failed", slog.Any("error", err))
		return
	}
	log.Info("server_stopped")
}

func newLogger(level slog.Level) *slog.Logger {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", constants.AppName))
	slog.SetDefault(log)
	return log
}

// cacheCheck returns nil when Redis is disabled so /ready skips it.
func cacheCheck(client *goredis.Client) api.Check {
	if client == nil {
		return nil
	}
	return func(ctx context.Context) error { return redisstore.Ping(ctx, client) }
}

// must terminates startup on err. After startup, errors are returned, never fatal.
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup_failed", slog.String("step", step), slog.Any("error", err))
		os.Exit(1)
	}
}
