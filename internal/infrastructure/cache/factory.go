package cache

import (
	"context"
	"time"

	"github.com/consignly/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Locker is satisfied by RedisLocker and MemoryLocker
type Locker interface {
	TryLock(ctx context.Context, key string) (unlock func(), ok bool, err error)
}

// NewLocker returns a Redis-backed locker when Redis is configured and
// reachable, and a process-local one otherwise. The returned client is nil
// when Redis is not in use; callers own closing it.
func NewLocker(ctx context.Context, cfg config.RedisConfig, ttl time.Duration, logger *zap.Logger) (Locker, *redis.Client) {
	if cfg.Host == "" {
		logger.Info("Redis not configured, using in-process payout lock")
		return NewMemoryLocker(), nil
	}

	client, err := NewRedisClient(ctx, cfg)
	if err != nil {
		logger.Warn("Redis unavailable, falling back to in-process payout lock. "+
			"Concurrent payouts from other instances are not serialized.",
			zap.Error(err),
		)
		return NewMemoryLocker(), nil
	}

	logger.Info("Using Redis payout lock", zap.String("addr", cfg.Addr()), zap.Duration("ttl", ttl))
	return NewRedisLocker(client, ttl, logger), client
}
