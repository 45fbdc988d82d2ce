package queue

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"

	"meetsync/core/config"
	"meetsync/core/logger"
)

// Task types processed by the background worker.
const (
	TaskConflictDetect = "conflict:detect"
	TaskMediaRelease   = "media:release"
)

// ConflictDetectPayload asks the worker to rescan a user's events for overlaps.
type ConflictDetectPayload struct {
	UserID string `json:"user_id"`
}

// MediaReleasePayload asks the worker to delete a stored media object.
type MediaReleasePayload struct {
	URL string `json:"url"`
}

// Queue enqueues background tasks.
type Queue interface {
	EnqueueConflictDetect(ctx context.Context, userID string) error
	EnqueueMediaRelease(ctx context.Context, url string) error
	Close() error
}

type asynqQueue struct {
	client *asynq.Client
}

func New(cfg config.RedisConfig) Queue {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &asynqQueue{client: client}
}

func (q *asynqQueue) EnqueueConflictDetect(ctx context.Context, userID string) error {
	payload, err := json.Marshal(ConflictDetectPayload{UserID: userID})
	if err != nil {
		return err
	}

	// MaxRetry kept low: a newer event write enqueues a fresh scan anyway
	task := asynq.NewTask(TaskConflictDetect, payload, asynq.MaxRetry(3))
	if _, err := q.client.EnqueueContext(ctx, task); err != nil {
		logger.Error("Queue:EnqueueConflictDetect", err)
		return err
	}
	return nil
}

func (q *asynqQueue) EnqueueMediaRelease(ctx context.Context, url string) error {
	payload, err := json.Marshal(MediaReleasePayload{URL: url})
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskMediaRelease, payload, asynq.MaxRetry(5))
	if _, err := q.client.EnqueueContext(ctx, task); err != nil {
		logger.Error("Queue:EnqueueMediaRelease", err)
		return err
	}
	return nil
}

func (q *asynqQueue) Close() error {
	return q.client.Close()
}

// NewServer builds the asynq worker server. Handlers are registered on the
// returned mux by the modules that own the tasks.
func NewServer(cfg config.RedisConfig) (*asynq.Server, *asynq.ServeMux) {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		},
		asynq.Config{
			Concurrency: 5,
		},
	)
	return srv, asynq.NewServeMux()
}
