package cache

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/memeworks/memebuilder-back/internal/config"
)

type Redis struct {
	client *redis.Client
	logger *zap.SugaredLogger
}

// NewCache returns a redis-backed cache when REDIS_URL is set and reachable,
// and the no-op cache otherwise. It never fails the application start.
func NewCache(cfg *config.Config, logger *zap.SugaredLogger) Cache {
	if cfg.RedisURL == "" {
		logger.Info("No redis URL configured, caching disabled.")
		return Noop{}
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Warnw("Invalid redis URL, caching disabled.", "error", err)
		return Noop{}
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warnw("Redis unreachable, caching disabled.", "error", err)
		return Noop{}
	}

	return &Redis{client: client, logger: logger}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.logger.Warnw("Cache get failed.", "key", key, "error", err)
		}
		return nil, false
	}
	return val, true
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		r.logger.Warnw("Cache set failed.", "key", key, "error", err)
	}
}
