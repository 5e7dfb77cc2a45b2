// Copyright (c) 2026 Fablery. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Fablery HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire the admin token service, media store, and Gemini client.
//  7. Wire domain handlers and start the HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
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

	"github.com/taibuivan/fablery/internal/admin"
	"github.com/taibuivan/fablery/internal/api"
	"github.com/taibuivan/fablery/internal/generation"
	"github.com/taibuivan/fablery/internal/platform/config"
	"github.com/taibuivan/fablery/internal/platform/constants"
	"github.com/taibuivan/fablery/internal/platform/gemini"
	"github.com/taibuivan/fablery/internal/platform/media"
	"github.com/taibuivan/fablery/internal/platform/migration"
	pgstore "github.com/taibuivan/fablery/internal/platform/postgres"
	redisstore "github.com/taibuivan/fablery/internal/platform/redis"
	"github.com/taibuivan/fablery/internal/platform/sec"
	"github.com/taibuivan/fablery/internal/story"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "fablery"))
	slog.SetDefault(log)

	log.Info("[Fablery] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "fablery"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Platform Services ──────────────────────────────────────────────
	tokenService, err := sec.NewTokenService(cfg.SessionSecret, constants.AuthIssuer)
	must(log, err, "initialize token service")

	mediaStore, err := media.NewStore(cfg.MediaDir, cfg.MediaBaseURL)
	must(log, err, "initialize media store")

	geminiClient := gemini.NewClient(
		cfg.GeminiAPIKey,
		cfg.GeminiBaseURL,
		cfg.GeminiTextModel,
		cfg.GeminiImageModel,
		log,
	)

	// ── 7. Health Handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
		CheckMedia: mediaStore.Check,
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	storyRepository := story.NewRepository(pool)
	tagCache := story.NewTagCache(rdb)
	storyService := story.NewService(storyRepository, tagCache, log)
	storyHandler := story.NewHandler(storyService)

	generationPipeline := generation.NewPipeline(geminiClient, mediaStore, log)
	generationService := generation.NewService(geminiClient, generationPipeline, storyRepository, storyService, log)
	generationHandler := generation.NewHandler(generationService)

	adminService := admin.NewService(cfg.AdminPasswordHash, tokenService, rdb)
	adminHandler := admin.NewHandler(adminService, storyService, generationService)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	// The server context outlives startup; it stops the rate limiter's
	// background cleanup on shutdown.
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	handlers := api.Handlers{
		Liveness:   liveness,
		Readiness:  readiness,
		Story:      storyHandler,
		Generation: generationHandler,
		Admin:      adminHandler,
	}

	server := api.NewServer(serverCtx, cfg, log, adminService, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
