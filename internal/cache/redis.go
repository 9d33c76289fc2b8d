package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/rongwang/finance-tracker-server/internal/config"
)

// Connect creates a Redis client from cfg. It returns nil when no address is
// configured or the server does not answer, and callers run without a cache.
func Connect(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) *redis.Client {
	if cfg.Addr == "" {
		logger.Info("redis not configured, summary cache disabled")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("redis connection failed, continuing without summary cache", "addr", cfg.Addr, "error", err)
		_ = rdb.Close()
		return nil
	}

	logger.Info("redis connection established", "addr", cfg.Addr)
	return rdb
}
