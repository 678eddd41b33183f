package lock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocker(t *testing.T) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisLocker(client), mr
}

func TestRedisLockerExclusive(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLocker(t)

	release, ok, err := l.TryLock(ctx, "automation:tick", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = l.TryLock(ctx, "automation:tick", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, release(ctx))

	_, ok, err = l.TryLock(ctx, "automation:tick", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLockerExpiredReleaseDoesNotStealNewHolder(t *testing.T) {
	ctx := context.Background()
	l, mr := newTestLocker(t)

	first, ok, err := l.TryLock(ctx, "k", time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(2 * time.Second)

	_, ok, err = l.TryLock(ctx, "k", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	assert.ErrorIs(t, first(ctx), ErrNotHeld)
	assert.True(t, mr.Exists("k"))
}

func TestRedisLockerUnavailable(t *testing.T) {
	l, mr := newTestLocker(t)
	mr.Close()

	_, ok, err := l.TryLock(context.Background(), "k", time.Minute)
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestNewRedisClientBadURL(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "http://localhost:6379")
	assert.ErrorContains(t, err, "failed to parse")
}

func TestNoopLocker(t *testing.T) {
	release, ok, err := NoopLocker{}.TryLock(context.Background(), "k", time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, release(context.Background()))
}
