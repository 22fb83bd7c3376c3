package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"money_backend/internal/config"
	"money_backend/internal/platform/logger"
)

// NewRedisClient connects to Redis and verifies the connection with PING.
// It returns (nil, nil) when Redis is not configured.
func NewRedisClient(ctx context.Context, cfg config.Redis) (*redis.Client, error) {
	if !cfg.Enabled() {
		return nil, nil
	}

	log := logger.FromContext(ctx)
	addr := cfg.Addr()

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 接続確認
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Error().Err(err).Str("address", addr).Msg("Redis connection failed")
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}

	log.Info().Str("address", addr).Msg("Redis connection successful")
	return rdb, nil
}
