//go:build integration

package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx).Err())
	return client
}

func TestRedisLocker_TryLock(t *testing.T) {
	client := setupRedis(t)
	ctx := context.Background()
	a := NewRedisLocker(client, time.Minute, zap.NewNop())
	b := NewRedisLocker(client, time.Minute, zap.NewNop())

	unlock, ok, err := a.TryLock(ctx, "payout:t1:c1")
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = b.TryLock(ctx, "payout:t1:c1")
	require.NoError(t, err)
	assert.False(t, ok, "a second instance sees the lock")

	unlock()
	again, ok, err := b.TryLock(ctx, "payout:t1:c1")
	require.NoError(t, err)
	assert.True(t, ok)
	again()
}

func TestRedisLocker_ExpiresAfterTTL(t *testing.T) {
	client := setupRedis(t)
	ctx := context.Background()
	l := NewRedisLocker(client, 200*time.Millisecond, zap.NewNop())

	_, ok, err := l.TryLock(ctx, "payout:t1:c2")
	require.NoError(t, err)
	require.True(t, ok)

	assert.Eventually(t, func() bool {
		u, ok, err := l.TryLock(ctx, "payout:t1:c2")
		if err == nil && ok {
			u()
			return true
		}
		return false
	}, 3*time.Second, 100*time.Millisecond)
}
