// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Recipebox HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool) and run migrations (idempotent).
//  4. Connect to Redis when configured.
//  5. Open the image store (disk or S3).
//  6. Wire HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/taibuivan/recipebox/internal/api"
	"github.com/taibuivan/recipebox/internal/core/recipe"
	"github.com/taibuivan/recipebox/internal/platform/config"
	"github.com/taibuivan/recipebox/internal/platform/constants"
	"github.com/taibuivan/recipebox/internal/platform/metrics"
	"github.com/taibuivan/recipebox/internal/platform/middleware"
	"github.com/taibuivan/recipebox/internal/platform/migration"
	pgstore "github.com/taibuivan/recipebox/internal/platform/postgres"
	redisstore "github.com/taibuivan/recipebox/internal/platform/redis"
	"github.com/taibuivan/recipebox/internal/platform/sec"
	"github.com/taibuivan/recipebox/internal/platform/storage"
	"github.com/taibuivan/recipebox/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo, false)
	slog.SetDefault(log)

	log.Info("[Recipebox] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	log = newLogger(level, cfg.IsDevelopment())
	slog.SetDefault(log)

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("image_storage", cfg.ImageStorage),
		slog.Bool("cache_enabled", cfg.CacheEnabled()),
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

	must(log, migration.RunUp(cfg.DatabaseURL, log), "run migrations")

	// ── 4. Metrics ────────────────────────────────────────────────────────
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(registry)

	// ── 5. Recipe storage (+ optional Redis cache) ────────────────────────
	var recipes recipe.Repository = recipe.NewPostgresRepository(pool)
	health := api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) },
	}

	if cfg.CacheEnabled() {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing redis client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis close error", slog.Any("error", cerr))
			}
		}()

		recipes = recipe.NewCachedRepository(recipes, rdb, cfg.RecipeCacheTTL, log)
		health.CheckCache = func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) }
	}

	// ── 6. Image storage ──────────────────────────────────────────────────
	var (
		images       storage.ImageStore
		imageHandler http.Handler
	)

	switch cfg.ImageStorage {
	case config.StorageS3:
		s3Store, err := storage.NewS3Store(startupCtx, storage.S3Options{
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
		})
		must(log, err, "initialize s3 image store")
		images = s3Store
	default:
		diskStore, err := storage.NewDiskStore(cfg.ImageDir)
		must(log, err, "initialize disk image store")
		images = diskStore
		imageHandler = http.FileServer(http.Dir(diskStore.Dir()))
	}

	// ── 7. Identity tokens ────────────────────────────────────────────────
	tokens, err := sec.NewTokenService([]byte(cfg.TokenSecret), constants.AuthIssuer, sec.WithTTL(cfg.TokenTTL))
	must(log, err, "initialize token service")

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	users := auth.NewUserRepository(pool)
	userHandler := auth.NewHandler(auth.NewService(users, tokens))

	recipeService := recipe.NewService(recipes, images, collector, cfg.MaxUploadBytes)
	recipeHandler := recipe.NewHandler(recipeService, collector, cfg.MaxUploadBytes)

	gate := middleware.Authenticate(tokens, users, middleware.WithRecorder(collector))

	liveness, readiness := api.NewHealthHandlers(health, log)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	server := api.NewServer(cfg, log, collector, gate, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		User:      userHandler,
		Recipe:    recipeHandler,
		Images:    imageHandler,
		Metrics:   metrics.Handler(registry),
	})

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

	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// newLogger builds the process logger. Development gets readable text output.
func newLogger(level slog.Level, text bool) *slog.Logger {
	options := &slog.HandlerOptions{Level: level}

	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, options)
	if text {
		handler = slog.NewTextHandler(os.Stdout, options)
	}

	return slog.New(handler).With(slog.String("app", constants.AppName))
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
