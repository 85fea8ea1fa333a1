package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/obaptiste/dashboard-api/internal/infrastructure/config"
)

// RedisQueryCache implements QueryCache using Redis, for deployments where
// multiple instances must share cached query results.
type RedisQueryCache struct {
	client     *redis.Client
	defaultTTL time.Duration
	logger     *zap.Logger
}

// RedisQueryCacheOption is a functional option for configuring the cache
type RedisQueryCacheOption func(*RedisQueryCache)

// WithRedisTTL sets the default TTL for entries stored without one
func WithRedisTTL(ttl time.Duration) RedisQueryCacheOption {
	return func(c *RedisQueryCache) {
		c.defaultTTL = ttl
	}
}

// WithRedisLogger sets the logger for the cache
func WithRedisLogger(logger *zap.Logger) RedisQueryCacheOption {
	return func(c *RedisQueryCache) {
		c.logger = logger
	}
}

// NewRedisQueryCache creates a Redis-backed query cache and verifies the
// connection before returning.
func NewRedisQueryCache(cfg config.RedisConfig, opts ...RedisQueryCacheOption) (*RedisQueryCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	cache := &RedisQueryCache{
		client:     client,
		defaultTTL: DefaultTTL,
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache, nil
}

// Get retrieves the cached bytes for key
func (c *RedisQueryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get cache key %s: %w", key, err)
	}
	return data, true, nil
}

// Set stores value under key for ttl
func (c *RedisQueryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache key %s: %w", key, err)
	}
	return nil
}

// Delete removes the given keys
func (c *RedisQueryCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete cache keys: %w", err)
	}
	return nil
}

// DeletePrefix removes every key starting with prefix using SCAN so the
// server is never blocked by a KEYS call.
func (c *RedisQueryCache) DeletePrefix(ctx context.Context, prefix string) error {
	iter := c.client.Scan(ctx, 0, prefix+"*", 100).Iterator()

	batch := make([]string, 0, 100)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := c.client.Del(ctx, batch...).Err(); err != nil {
				return fmt.Errorf("failed to delete cache prefix %s: %w", prefix, err)
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cache prefix %s: %w", prefix, err)
	}
	if len(batch) > 0 {
		if err := c.client.Del(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("failed to delete cache prefix %s: %w", prefix, err)
		}
	}
	return nil
}

// Close closes the Redis connection
func (c *RedisQueryCache) Close() error {
	return c.client.Close()
}

// Ensure RedisQueryCache implements QueryCache
var _ QueryCache = (*RedisQueryCache)(nil)
