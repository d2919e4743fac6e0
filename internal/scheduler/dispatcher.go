package scheduler

import (
	"context"
	"time"

	"leadradar_backend/platform/apperr"
	"leadradar_backend/platform/logger"
)

// RescoreEnqueuer is implemented by Client.
type RescoreEnqueuer interface {
	EnqueueLeadRescore(ctx context.Context, batchSize int, force bool) (string, error)
}

// RescoreDispatcher periodically queues a rescoring run for leads whose
// stored score was computed by an older scoring version.
type RescoreDispatcher struct {
	enqueuer  RescoreEnqueuer
	interval  time.Duration
	batchSize int
	log       *logger.Logger
}

func NewRescoreDispatcher(enqueuer RescoreEnqueuer, interval time.Duration, batchSize int, log *logger.Logger) *RescoreDispatcher {
	return &RescoreDispatcher{
		enqueuer:  enqueuer,
		interval:  interval,
		batchSize: batchSize,
		log:       log,
	}
}

// Run enqueues once at start and then on every tick until ctx is done.
// A non-positive interval disables the dispatcher.
func (d *RescoreDispatcher) Run(ctx context.Context) {
	if d == nil || d.enqueuer == nil || d.interval <= 0 {
		return
	}

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		d.dispatch(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (d *RescoreDispatcher) dispatch(ctx context.Context) {
	taskID, err := d.enqueuer.EnqueueLeadRescore(ctx, d.batchSize, false)
	switch {
	case err == nil:
		d.log.Info("lead rescore queued", "taskId", taskID)
	case apperr.Is(err, apperr.KindBadRequest):
		d.log.Debug("lead rescore already queued")
	case ctx.Err() != nil:
		return
	default:
		d.log.Error("failed to queue lead rescore", "error", err)
	}
}
