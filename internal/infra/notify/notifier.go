// Package notify delivers outbox jobs. Mail rendering and sending live in a
// separate consumer that subscribes to the published channel.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"

	"poorito-booking/internal/pkg/errs"
	"poorito-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const ChannelPrefix = "poorito:notifications:"

type message struct {
	ID      uuid.UUID       `json:"id"`
	Kind    string          `json:"kind"`
	Topic   string          `json:"topic"`
	Payload json.RawMessage `json:"payload"`
	Attempt int             `json:"attempt"`
}

// RedisNotifier publishes each job on ChannelPrefix+kind.
type RedisNotifier struct {
	client *redis.Client
}

func NewRedisNotifier(client *redis.Client) *RedisNotifier {
	return &RedisNotifier{client: client}
}

func (n *RedisNotifier) Notify(ctx context.Context, job shared.NotificationJob) error {
	body, err := json.Marshal(message{
		ID:      job.ID,
		Kind:    job.Kind,
		Topic:   job.Topic,
		Payload: job.Payload,
		Attempt: job.Attempts + 1,
	})
	if err != nil {
		return errs.Wrap(err, "failed to encode notification")
	}
	if err := n.client.Publish(ctx, ChannelPrefix+job.Kind, body).Err(); err != nil {
		return errs.Wrap(err, "failed to publish notification")
	}
	return nil
}

// LogNotifier is used when no Redis is configured.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, job shared.NotificationJob) error {
	n.logger.InfoContext(ctx, "notification",
		"job_id", job.ID,
		"kind", job.Kind,
		"topic", job.Topic,
		"payload", string(job.Payload),
	)
	return nil
}
