package main

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/cmlabs-hris/hris-timekeeping-go/internal/config"
	"github.com/cmlabs-hris/hris-timekeeping-go/internal/pkg/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func limiterConfig(addr string) *config.Config {
	return &config.Config{
		Redis:     config.RedisConfig{Addr: addr},
		RateLimit: config.RateLimitConfig{PreviewRequests: 2, PreviewWindow: time.Minute},
	}
}

func TestNewPreviewLimiter_RedisClosedByCloser(t *testing.T) {
	mr := miniredis.RunT(t)

	limiter, closeLimiter := newPreviewLimiter(context.Background(), limiterConfig(mr.Addr()))
	require.IsType(t, &ratelimit.RedisLimiter{}, limiter)

	require.NoError(t, closeLimiter())
	assert.Error(t, closeLimiter(), "client already closed")
}

func TestNewPreviewLimiter_LocalFallback(t *testing.T) {
	for name, addr := range map[string]string{
		"no redis":    "",
		"unreachable": "127.0.0.1:1",
	} {
		t.Run(name, func(t *testing.T) {
			limiter, closeLimiter := newPreviewLimiter(context.Background(), limiterConfig(addr))
			assert.IsType(t, &ratelimit.LocalLimiter{}, limiter)
			assert.NoError(t, closeLimiter())
		})
	}
}
