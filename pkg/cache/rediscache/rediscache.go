package rediscache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/celsoprodesp/Antigravity/pkg/cache"
	"github.com/go-redis/redis/v8"
)

// Cache implements cache.Cache on Redis so several server instances share cached permission sets.
type Cache struct {
	client *redis.Client
	prefix string

	hits      atomic.Uint64
	misses    atomic.Uint64
	keysAdded atomic.Uint64
}

// Config holds configuration for the Redis cache.
type Config struct {
	Addr     string
	Password string
	DB       int
	// Prefix namespaces every key (e.g., "erpr:")
	Prefix string
}

// New connects to Redis and verifies the connection.
func New(ctx context.Context, config *Config) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &Cache{client: client, prefix: config.Prefix}, nil
}

// Get retrieves a value from cache.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	value, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return value, true
}

// Set stores a value in cache with the specified TTL.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	c.keysAdded.Add(1)
	return nil
}

// Delete removes a value from cache.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.prefix+key).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Clear removes every key under the configured prefix.
func (c *Cache) Clear(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, c.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete %s: %w", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan keys: %w", err)
	}
	return nil
}

// Close closes the Redis client.
func (c *Cache) Close() error {
	return c.client.Close()
}

// Metrics returns cache statistics. Evictions happen inside Redis and are not tracked.
func (c *Cache) Metrics() *cache.Metrics {
	return &cache.Metrics{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		KeysAdded: c.keysAdded.Load(),
	}
}
