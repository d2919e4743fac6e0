package scheduler

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"leadradar_backend/platform/apperr"
	"leadradar_backend/platform/config"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

const (
	rescoreTimeout  = 30 * time.Minute
	rescoreUnique   = 15 * time.Minute
	rescoreMaxRetry = 3
)

type Client struct {
	client *asynq.Client
	queue  string
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queueName(cfg),
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueLeadRescore queues one rescoring run. While a run is queued or
// active a second request is rejected.
func (c *Client) EnqueueLeadRescore(ctx context.Context, batchSize int, force bool) (string, error) {
	if c == nil || c.client == nil {
		return "", apperr.Unavailable("background jobs are not configured")
	}

	task, err := NewLeadRescoreTask(LeadRescorePayload{BatchSize: batchSize, Force: force})
	if err != nil {
		return "", err
	}

	info, err := c.client.EnqueueContext(ctx, task,
		asynq.Queue(c.queue),
		asynq.MaxRetry(rescoreMaxRetry),
		asynq.Timeout(rescoreTimeout),
		asynq.Unique(rescoreUnique),
	)
	if errors.Is(err, asynq.ErrDuplicateTask) {
		return "", apperr.BadRequest("a rescoring job is already queued")
	}
	if err != nil {
		return "", fmt.Errorf("enqueue %s: %w", TaskLeadRescore, err)
	}
	return info.ID, nil
}

func queueName(cfg config.SchedulerConfig) string {
	if queue := cfg.GetAsynqQueueName(); queue != "" {
		return queue
	}
	return "default"
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	var tlsConfig *tls.Config
	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		tlsConfig = clone
	} else if tlsInsecure {
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig,
	}, nil
}
