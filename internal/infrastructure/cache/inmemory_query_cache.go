package cache

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const defaultCleanupInterval = 30 * time.Second

// InMemoryQueryCache implements QueryCache using in-process storage.
// Suitable for single-instance deployments and testing.
type InMemoryQueryCache struct {
	entries    sync.Map // map[string]*cacheEntry
	defaultTTL time.Duration
	logger     *zap.Logger
	stopCh     chan struct{}
	stopped    int32

	// Stats for monitoring
	hits   int64
	misses int64
}

// cacheEntry wraps a cached value with expiration time
type cacheEntry struct {
	value     []byte
	expiresAt time.Time
}

func (e *cacheEntry) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// InMemoryQueryCacheOption is a functional option for configuring the cache
type InMemoryQueryCacheOption func(*InMemoryQueryCache)

// WithInMemoryTTL sets the default TTL for entries stored without one
func WithInMemoryTTL(ttl time.Duration) InMemoryQueryCacheOption {
	return func(c *InMemoryQueryCache) {
		c.defaultTTL = ttl
	}
}

// WithInMemoryLogger sets the logger for the cache
func WithInMemoryLogger(logger *zap.Logger) InMemoryQueryCacheOption {
	return func(c *InMemoryQueryCache) {
		c.logger = logger
	}
}

// NewInMemoryQueryCache creates a new in-memory query cache
func NewInMemoryQueryCache(opts ...InMemoryQueryCacheOption) *InMemoryQueryCache {
	cache := &InMemoryQueryCache{
		defaultTTL: DefaultTTL,
		logger:     zap.NewNop(),
		stopCh:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(cache)
	}

	go cache.cleanupExpired()

	return cache
}

// Get retrieves the cached bytes for key
func (c *InMemoryQueryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if value, ok := c.entries.Load(key); ok {
		entry := value.(*cacheEntry)
		if !entry.isExpired() {
			atomic.AddInt64(&c.hits, 1)
			c.logger.Debug("Query cache hit", zap.String("key", key))
			return entry.value, true, nil
		}
		// Expired, remove from cache
		c.entries.Delete(key)
	}

	atomic.AddInt64(&c.misses, 1)
	c.logger.Debug("Query cache miss", zap.String("key", key))
	return nil, false, nil
}

// Set stores value under key for ttl
func (c *InMemoryQueryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.entries.Store(key, &cacheEntry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	})
	c.logger.Debug("Cached query result",
		zap.String("key", key),
		zap.Duration("ttl", ttl))
	return nil
}

// Delete removes the given keys
func (c *InMemoryQueryCache) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		c.entries.Delete(key)
	}
	return nil
}

// DeletePrefix removes every key starting with prefix
func (c *InMemoryQueryCache) DeletePrefix(ctx context.Context, prefix string) error {
	var removed int
	c.entries.Range(func(key, _ any) bool {
		if strings.HasPrefix(key.(string), prefix) {
			c.entries.Delete(key)
			removed++
		}
		return true
	})
	if removed > 0 {
		c.logger.Debug("Invalidated query cache prefix",
			zap.String("prefix", prefix),
			zap.Int("removed", removed))
	}
	return nil
}

// Close stops the cleanup goroutine
func (c *InMemoryQueryCache) Close() error {
	// Only close once
	if atomic.CompareAndSwapInt32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
	return nil
}

// GetStats returns cache hit and miss counters
func (c *InMemoryQueryCache) GetStats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

// Count returns the number of entries in the cache
func (c *InMemoryQueryCache) Count() int {
	count := 0
	c.entries.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}

// cleanupExpired periodically removes expired entries from the cache
func (c *InMemoryQueryCache) cleanupExpired() {
	ticker := time.NewTicker(defaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.doCleanup()
		}
	}
}

func (c *InMemoryQueryCache) doCleanup() {
	var removed int
	c.entries.Range(func(key, value any) bool {
		if value.(*cacheEntry).isExpired() {
			c.entries.Delete(key)
			removed++
		}
		return true
	})
	if removed > 0 {
		c.logger.Debug("Cleaned up expired query cache entries", zap.Int("removed", removed))
	}
}

// Ensure InMemoryQueryCache implements QueryCache
var _ QueryCache = (*InMemoryQueryCache)(nil)
