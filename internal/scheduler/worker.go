package scheduler

import (
	"context"
	"fmt"
	"time"

	"leadradar_backend/platform/config"
	"leadradar_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// LeadRescorer recomputes and stores lead scores.
type LeadRescorer interface {
	Rescore(ctx context.Context, batchSize int, force bool) (processed, failed int, err error)
}

type Worker struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	rescorer LeadRescorer
	log      *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, rescorer LeadRescorer, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 5
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	w := newWorker(rescorer, log)
	w.server = server
	return w, nil
}

func newWorker(rescorer LeadRescorer, log *logger.Logger) *Worker {
	mux := asynq.NewServeMux()
	w := &Worker{
		mux:      mux,
		rescorer: rescorer,
		log:      log,
	}
	mux.HandleFunc(TaskLeadRescore, w.handleLeadRescore)
	return w
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleLeadRescore(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseLeadRescorePayload(task)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	start := time.Now()
	processed, failed, err := w.rescorer.Rescore(ctx, payload.BatchSize, payload.Force)
	w.log.JobFinished(TaskLeadRescore, processed, failed, time.Since(start))
	return err
}
