package ratelimit

import (
	"context"
	"testing"
	"time"

	"ytsa-go/internal/config"
	"ytsa-go/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	_ = logger.Init("error", "console", "stdout", "")
}

func newTestLimiter(t *testing.T) (*Limiter, *miniredis.Miniredis, *fakeClock) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	clock := &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	limiter := New(rdb, &config.RateLimitConfig{
		Capacity:   5,
		RefillRate: 5.0 / 60.0,
		BucketTTL:  60,
	}).WithClock(clock.Now)

	return limiter, mr, clock
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func TestLimiterBurstThenDeny(t *testing.T) {
	limiter, _, _ := newTestLimiter(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		allowed, err := limiter.Allow(ctx, 1)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should pass within burst capacity", i+1)
	}

	allowed, err := limiter.Allow(ctx, 1)
	require.NoError(t, err)
	assert.False(t, allowed, "6th request should be denied")
}

func TestLimiterRefillOverTime(t *testing.T) {
	limiter, _, clock := newTestLimiter(t)
	ctx := context.Background()

	// 耗尽桶
	for i := 0; i < 5; i++ {
		allowed, err := limiter.Allow(ctx, 1)
		require.NoError(t, err)
		require.True(t, allowed)
	}
	allowed, err := limiter.Allow(ctx, 1)
	require.NoError(t, err)
	require.False(t, allowed)

	// 5 令牌/分钟 ≈ 每 12 秒补 1 个
	clock.Advance(12 * time.Second)

	allowed, err = limiter.Allow(ctx, 1)
	require.NoError(t, err)
	assert.True(t, allowed, "one token should have refilled after 12s")

	allowed, err = limiter.Allow(ctx, 1)
	require.NoError(t, err)
	assert.False(t, allowed, "refilled token already consumed")
}

func TestLimiterCapacityCap(t *testing.T) {
	limiter, _, clock := newTestLimiter(t)
	ctx := context.Background()

	// 消耗一个令牌后长时间闲置，桶只回到容量上限
	allowed, err := limiter.Allow(ctx, 1)
	require.NoError(t, err)
	require.True(t, allowed)

	clock.Advance(time.Hour)

	for i := 0; i < 5; i++ {
		allowed, err := limiter.Allow(ctx, 1)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d within capped capacity", i+1)
	}
	allowed, err = limiter.Allow(ctx, 1)
	require.NoError(t, err)
	assert.False(t, allowed, "capacity must not exceed the cap")
}

func TestLimiterOrgIsolation(t *testing.T) {
	limiter, _, _ := newTestLimiter(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		allowed, err := limiter.Allow(ctx, 1)
		require.NoError(t, err)
		require.True(t, allowed)
	}
	allowed, err := limiter.Allow(ctx, 1)
	require.NoError(t, err)
	require.False(t, allowed)

	// 另一个组织的桶不受影响
	allowed, err = limiter.Allow(ctx, 2)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestLimiterFailClosed(t *testing.T) {
	limiter, mr, _ := newTestLimiter(t)
	ctx := context.Background()

	mr.Close()

	allowed, err := limiter.Allow(ctx, 1)
	assert.Error(t, err)
	assert.False(t, allowed, "redis failure must deny the request")
}
