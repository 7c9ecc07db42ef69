package redisclient

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// GetInsight fetches a cached narrative. The second return value reports a
// cache hit.
func (c *Client) GetInsight(ctx context.Context, key string) (string, bool, error) {
	val, err := c.rdb.Get(ctx, fmt.Sprintf("insight:%s", key)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read cached insight: %w", err)
	}
	return val, true, nil
}

// SetInsight caches a generated narrative with a TTL.
func (c *Client) SetInsight(ctx context.Context, key, html string, ttl time.Duration) error {
	return c.rdb.Set(ctx, fmt.Sprintf("insight:%s", key), html, ttl).Err()
}

// FlushInsights removes all cached narratives. Called on dataset reset so
// stale prose never outlives the data it described.
func (c *Client) FlushInsights(ctx context.Context) error {
	iter := c.rdb.Scan(ctx, 0, "insight:*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete cached insight %s: %w", iter.Val(), err)
		}
	}
	return iter.Err()
}
