// Package redis provides the Redis client and the cross-process locks the
// policy core takes around workflow starts.
package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/turtacn/grc/internal/config"
	"github.com/turtacn/grc/pkg/errors"
	"github.com/turtacn/grc/pkg/logger"
)

// NewClient connects a standalone Redis client and verifies the connection.
func NewClient(ctx context.Context, cfg *config.RedisConfig, log logger.Logger) (*redis.Client, error) {
	if cfg == nil {
		return nil, errors.New(errors.CodeInvalidArgument, "redis configuration is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeUnavailable, "redis unreachable")
	}

	log.Info(ctx, "redis client connected", logger.Fields{"addr": cfg.Address})
	return client, nil
}
