package inbox

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/yukikurage/task-tracker/internal/config"
)

var Module = fx.Module("inbox",
	fx.Provide(NewStore),
)

// NewStore returns a Redis-backed store when REDIS_ADDR is set and an
// in-memory ring buffer otherwise.
func NewStore(cfg *config.Config, log *zap.Logger, lc fx.Lifecycle) Store {
	capacity := cfg.Notifications.InboxCapacity
	if cfg.Redis.Addr == "" {
		log.Info("Using in-memory notification inbox", zap.Int("capacity", capacity))
		return NewMemoryStore(capacity)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})

	log.Info("Using Redis notification inbox", zap.String("addr", cfg.Redis.Addr), zap.Int("capacity", capacity))
	return NewRedisStore(client, capacity)
}
