package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"leadradar_backend/internal/leads/repository"
	"leadradar_backend/internal/leads/service"
	"leadradar_backend/internal/scoring"
	"leadradar_backend/platform/config"
	"leadradar_backend/platform/db"
	"leadradar_backend/platform/logger"
)

func main() {
	batchSize := flag.Int("batch", 200, "leads per page")
	force := flag.Bool("force", false, "rescore leads already on the current scoring version")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting lead score backfill", "version", scoring.Version, "batch", *batchSize, "force", *force)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	svc := service.New(repository.New(pool), cfg, nil, log)

	start := time.Now()
	processed, failed, err := svc.Rescore(ctx, *batchSize, *force)
	log.JobFinished("lead-score-backfill", processed, failed, time.Since(start))
	if err != nil {
		log.Error("lead score backfill aborted", "error", err)
		os.Exit(1)
	}
}
