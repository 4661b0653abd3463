package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestRedisLimiter_Allow(t *testing.T) {
	_, rdb := newTestRedis(t)
	limiter := NewRedisLimiter(rdb, 3, time.Hour)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := limiter.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, ok, "request %d should pass", i+1)
	}

	ok, err := limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = limiter.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, ok, "keys are counted separately")
}

func TestRedisLimiter_SetsExpiry(t *testing.T) {
	mr, rdb := newTestRedis(t)
	limiter := NewRedisLimiter(rdb, 5, time.Minute)

	_, err := limiter.Allow(context.Background(), "k")
	require.NoError(t, err)

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.Equal(t, time.Minute, mr.TTL(keys[0]))
}

func TestRedisLimiter_Unavailable(t *testing.T) {
	mr, rdb := newTestRedis(t)
	limiter := NewRedisLimiter(rdb, 5, time.Minute)
	mr.Close()

	_, err := limiter.Allow(context.Background(), "k")
	assert.Error(t, err)
}

func TestLocalLimiter_Allow(t *testing.T) {
	limiter := NewLocalLimiter(2, time.Minute)
	now := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }
	ctx := context.Background()

	ok, _ := limiter.Allow(ctx, "a")
	assert.True(t, ok)
	ok, _ = limiter.Allow(ctx, "a")
	assert.True(t, ok)
	ok, _ = limiter.Allow(ctx, "a")
	assert.False(t, ok)

	ok, _ = limiter.Allow(ctx, "b")
	assert.True(t, ok)

	now = now.Add(30 * time.Second)
	ok, _ = limiter.Allow(ctx, "a")
	assert.True(t, ok, "one token refills every 30s")
}

func TestLocalLimiter_EvictsIdleKeys(t *testing.T) {
	limiter := NewLocalLimiter(1, time.Second)
	now := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }
	ctx := context.Background()

	_, _ = limiter.Allow(ctx, "old")
	now = now.Add(time.Minute)
	_, _ = limiter.Allow(ctx, "new")

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	assert.NotContains(t, limiter.entries, "old")
	assert.Contains(t, limiter.entries, "new")
}

func TestLocalLimiter_KeepsBucketAcrossCalls(t *testing.T) {
	limiter := NewLocalLimiter(2, time.Minute)
	ctx := context.Background()

	allowed := 0
	for i := 0; i < 10; i++ {
		ok, err := limiter.Allow(ctx, "user:1")
		require.NoError(t, err)
		if ok {
			allowed++
		}
	}

	assert.Equal(t, 2, allowed)

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	assert.Len(t, limiter.entries, 1)
}
