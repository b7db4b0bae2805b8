package cache

import (
	"context"
	"time"

	"github.com/flayve23/flayve-oficial/internal/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewClient connects to redis, which backs the poll-endpoint rate limiter.
// A nil client is acceptable downstream; the limiter fails open.
func NewClient(cfg *config.Config, logger *zap.Logger) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unavailable, rate limiting disabled",
			zap.Error(err),
			zap.String("addr", cfg.Redis.Addr))
		return nil
	}

	logger.Info("Successfully connected to redis", zap.String("addr", cfg.Redis.Addr))

	return rdb
}
