package cache

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/obaptiste/dashboard-api/internal/infrastructure/config"
)

// NewQueryCache creates a query cache based on the configured backend.
// "memory" keeps results in-process; "redis" shares them across instances.
func NewQueryCache(cfg *config.Config, logger *zap.Logger) (QueryCache, error) {
	switch cfg.Cache.Backend {
	case "memory":
		logger.Info("using in-memory query cache",
			zap.Duration("ttl", cfg.Cache.TTL))
		return NewInMemoryQueryCache(
			WithInMemoryTTL(cfg.Cache.TTL),
			WithInMemoryLogger(logger),
		), nil
	case "redis":
		cache, err := NewRedisQueryCache(cfg.Redis,
			WithRedisTTL(cfg.Cache.TTL),
			WithRedisLogger(logger),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis query cache: %w", err)
		}
		logger.Info("using Redis query cache",
			zap.String("addr", cfg.Redis.Addr()),
			zap.Duration("ttl", cfg.Cache.TTL))
		return cache, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}
