// Package redis backs the user cache. The service treats it as optional:
// when the connection cannot be established the cache is simply disabled
// and every lookup falls through to MongoDB.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const connectTimeout = 5 * time.Second

// Config carries the Redis connection settings.
type Config struct {
	Addr string
	DB   int
}

// Connect opens a Redis client and verifies it with a ping. Callers decide
// whether a failure is fatal; for the user cache it is not.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}
