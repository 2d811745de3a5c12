package cache

import (
	"context"
	"log/slog"
	"time"

	"poorito-booking/internal/pkg/config"
	"poorito-booking/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

// NewRedis returns nil when no URL is configured; callers then skip caching.
func NewRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.URL == "" {
		slog.Warn("Redis URL not configured, running without catalog cache")
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, errs.Wrap(err, "invalid redis URL")
	}
	opt.DialTimeout = 5 * time.Second
	opt.ReadTimeout = 3 * time.Second
	opt.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, errs.Wrap(err, "failed to ping redis")
	}

	slog.Info("Connected to Redis", "addr", opt.Addr)
	return client, nil
}

func CloseRedis(client *redis.Client) {
	if client == nil {
		return
	}
	if err := client.Close(); err != nil {
		slog.Error("Error closing Redis connection", "error", err)
	}
}
