package redis

import (
	"context"
	"fmt"
	"time"
	"vagaMatch/pkg/config"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient opens the session-store connection. Pool sizing comes
// from config so a busier deployment can raise it without a rebuild.
func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	poolSize := cfg.Redis.RedisPoolSize
	if poolSize <= 0 {
		poolSize = 10
	}
	minIdle := cfg.Redis.RedisMinIdleConns
	if minIdle < 0 || minIdle > poolSize {
		minIdle = poolSize / 2
	}

	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", cfg.Redis.RedisHost, cfg.Redis.RedisPort),
		Password:     cfg.Redis.RedisPassword,
		Username:     "default",
		DB:           cfg.Redis.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     poolSize,
		MinIdleConns: minIdle,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// test connection
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

// CloseRedisClient closes the Redis connection
func CloseRedisClient(client *redis.Client) error {
	if client != nil {
		return client.Close()
	}

	return nil
}
