package infra

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// SetupRedis connects to the Redis server and checks it answers. Client side
// retries are disabled: a failed command fails the request that issued it.
func SetupRedis(ctx context.Context, cfg *Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:       cfg.RedisAddr(),
		Password:   cfg.Redis.Password,
		DB:         cfg.Redis.DB,
		MaxRetries: -1,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.RedisAddr(), err)
	}
	return client, nil
}
