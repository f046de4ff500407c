// Package redis dials the verification status cache. The cache is optional:
// with no URL configured callers get a nil client and every status read goes
// straight to the store.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"campustrust/internal/platform/config"
)

// Client wraps go-redis so callers can health-check the cache alongside the
// other backends.
type Client struct {
	*redis.Client
}

// New dials the configured instance and verifies the connection before
// returning. A nil client with a nil error means the cache is not configured.
func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout

	client := redis.NewClient(opts)

	pingCtx := ctx
	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &Client{Client: client}, nil
}

// Health reports whether the cache is reachable.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}
