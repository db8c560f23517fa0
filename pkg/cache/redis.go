package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/gpa-tracker-api/pkg/config"
)

const pingTimeout = 5 * time.Second

// NewRedis connects the client backing the redis record store. The record
// lives under a single key with no TTL, so the connection only needs to be
// reachable; it is rejected when the first ping fails.
func NewRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	opts := &redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis record store %s (db %d): %w", opts.Addr, opts.DB, err)
	}
	return client, nil
}
