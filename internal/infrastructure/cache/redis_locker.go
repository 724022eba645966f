package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	defaultLockTTL    = 30 * time.Second
	defaultLockPrefix = "consign:lock:"
)

// RedisLocker hands out short-lived Redis locks shared by every server instance
type RedisLocker struct {
	client *redislock.Client
	ttl    time.Duration
	prefix string
	logger *zap.Logger
}

// NewRedisLocker creates a locker. A zero ttl means 30 seconds.
func NewRedisLocker(rdb redis.UniversalClient, ttl time.Duration, logger *zap.Logger) *RedisLocker {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisLocker{
		client: redislock.New(rdb),
		ttl:    ttl,
		prefix: defaultLockPrefix,
		logger: logger,
	}
}

// TryLock obtains key without waiting. ok is false when another holder has it.
func (l *RedisLocker) TryLock(ctx context.Context, key string) (func(), bool, error) {
	lock, err := l.client.Obtain(ctx, l.prefix+key, l.ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to obtain lock %s: %w", key, err)
	}

	unlock := func() {
		// Release with a fresh context: the request context may already be cancelled.
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := lock.Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			l.logger.Warn("Failed to release lock", zap.String("key", key), zap.Error(err))
		}
	}
	return unlock, true, nil
}
