package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// Limiter decides whether one more request under key is allowed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)

	// RetryAfter is how long a rejected caller should wait before trying again.
	RetryAfter() time.Duration
}

const keyPrefix = "ratelimit:"

// RedisLimiter is a fixed-window counter shared by every instance pointing at
// the same Redis.
type RedisLimiter struct {
	rdb    *goredis.Client
	limit  int64
	window time.Duration
}

func NewRedisLimiter(rdb *goredis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, limit: int64(limit), window: window}
}

func (l *RedisLimiter) RetryAfter() time.Duration {
	return l.window
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	bucket := time.Now().UnixNano() / int64(l.window)
	redisKey := fmt.Sprintf("%s%s:%d", keyPrefix, key, bucket)

	pipe := l.rdb.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit counter: %w", err)
	}

	return incr.Val() <= l.limit, nil
}

// LocalLimiter keeps one token bucket per key in process memory. Buckets are
// dropped after idleTTL without traffic.
type LocalLimiter struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
	refill  time.Duration
	entries map[string]*localEntry
	now     func() time.Time
}

type localEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLocalLimiter allows limit requests per window per key, bursting up to limit.
func NewLocalLimiter(limit int, window time.Duration) *LocalLimiter {
	return &LocalLimiter{
		limit:   rate.Every(window / time.Duration(limit)),
		burst:   limit,
		idleTTL: 10 * window,
		refill:  window / time.Duration(limit),
		entries: make(map[string]*localEntry),
		now:     time.Now,
	}
}

// RetryAfter is the time one token takes to refill.
func (l *LocalLimiter) RetryAfter() time.Duration {
	return l.refill
}

func (l *LocalLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.entries[key]
	if !ok {
		l.evict(now)
		e = &localEntry{limiter: rate.NewLimiter(l.limit, l.burst), lastSeen: now}
		l.entries[key] = e
	}
	e.lastSeen = now

	return e.limiter.AllowN(now, 1), nil
}

// evict drops idle buckets. Caller holds mu.
func (l *LocalLimiter) evict(now time.Time) {
	for k, e := range l.entries {
		if now.Sub(e.lastSeen) > l.idleTTL {
			delete(l.entries, k)
		}
	}
}
