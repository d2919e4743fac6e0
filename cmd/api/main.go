package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	apphttp "leadradar_backend/internal/http"
	"leadradar_backend/internal/http/router"
	"leadradar_backend/internal/leads"
	"leadradar_backend/internal/scheduler"
	"leadradar_backend/migrations"
	"leadradar_backend/platform/cache"
	"leadradar_backend/platform/config"
	"leadradar_backend/platform/db"
	"leadradar_backend/platform/logger"
	"leadradar_backend/platform/metrics"
	"leadradar_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

const leadsCachePrefix = "leadradar:"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, pool, migrations.FS)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	m := metrics.New()
	val := validator.New()
	health := map[string]apphttp.HealthChecker{"database": pool}
	optionalHealth := map[string]apphttp.HealthChecker{}

	resultCache, closeCache := initCache(ctx, cfg, log)
	if closeCache != nil {
		defer closeCache()
		optionalHealth["redis"] = resultCache
	}

	rescoreClient, closeScheduler := initSchedulerClient(cfg, log)
	if closeScheduler != nil {
		defer closeScheduler()
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	leadsModule := leads.NewModule(pool, val, cfg, m, log)
	if resultCache != nil {
		leadsModule.Service().SetCache(resultCache)
	}
	if rescoreClient != nil {
		leadsModule.Service().SetRescoreEnqueuer(rescoreClient)
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:         cfg,
		Logger:         log,
		Health:         health,
		OptionalHealth: optionalHealth,
		Metrics:        m,
		Modules:        []apphttp.Module{leadsModule},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initCache(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) (*cache.RedisCache, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; result caching disabled")
		return nil, nil
	}

	c, err := cache.NewRedis(ctx, cfg, leadsCachePrefix)
	if err != nil {
		log.Error("failed to initialize result cache; continuing without it", "error", err)
		return nil, nil
	}

	return c, func() {
		_ = c.Close()
	}
}

func initSchedulerClient(cfg config.SchedulerConfig, log *logger.Logger) (*scheduler.Client, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; background rescoring disabled")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize scheduler client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
