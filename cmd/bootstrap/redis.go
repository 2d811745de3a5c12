package bootstrap

import (
	"context"

	"poorito-booking/internal/infra/cache"
	"poorito-booking/internal/pkg/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var RedisModule = fx.Module("redis",
	fx.Provide(
		NewRedis,
	),
)

// NewRedis provides a nil client when REDIS_URL is empty.
func NewRedis(lc fx.Lifecycle, cfg config.Config) (*redis.Client, error) {
	client, err := cache.NewRedis(context.Background(), cfg.Redis)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			cache.CloseRedis(client)
			return nil
		},
	})

	return client, nil
}
