// Package redis implements cache.Cache on a Redis server, relying on
// server-side key expiry for the TTL contract.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/barekit/biblio/pkg/books"
	"github.com/redis/go-redis/v9"
)

// RedisCache implements cache.Cache using Redis.
type RedisCache struct {
	client *redis.Client
}

// New creates a new RedisCache.
func New(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Open connects to the Redis server at url and returns a cache backed by it.
func Open(ctx context.Context, url string) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return New(client), nil
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]books.Book, bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var result []books.Book
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached result: %w", err)
	}
	return result, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, result []books.Book, ttl time.Duration) error {
	b, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	return c.client.Set(ctx, key, b, ttl).Err()
}
