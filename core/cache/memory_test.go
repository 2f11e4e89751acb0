package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"party-invites/core/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheLoginBlocking(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	for i := 0; i < constants.MaxLoginAttempts-1; i++ {
		require.NoError(t, c.IncrementLoginAttempt(ctx, "a@x.com"))
	}
	blocked, err := c.IsLoginBlocked(ctx, "a@x.com")
	require.NoError(t, err)
	assert.False(t, blocked)

	require.NoError(t, c.IncrementLoginAttempt(ctx, "a@x.com"))
	blocked, _ = c.IsLoginBlocked(ctx, "a@x.com")
	assert.True(t, blocked)

	blocked, _ = c.IsLoginBlocked(ctx, "b@x.com")
	assert.False(t, blocked)
}

func TestMemoryCacheOAuthStateIsSingleUse(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	require.NoError(t, c.SaveOAuthState(ctx, "st"))
	ok, _ := c.ConsumeOAuthState(ctx, "st")
	assert.True(t, ok)
	ok, _ = c.ConsumeOAuthState(ctx, "st")
	assert.False(t, ok)
}

func TestMemoryCacheSetGet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	require.NoError(t, c.Set(ctx, "k", "v", 0))
	v, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)

	require.NoError(t, c.Del(ctx, "k"))
	v, _ = c.Get(ctx, "k")
	assert.Empty(t, v)
}

func TestMemoryCacheAllowWindow(t *testing.T) {
	ctx := context.Background()
	c := newMemoryCache(time.Minute)
	window := 50 * time.Millisecond

	for i := 0; i < 3; i++ {
		ok, err := c.Allow(ctx, "ip:1.2.3.4", 3, window)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, _ := c.Allow(ctx, "ip:1.2.3.4", 3, window)
	assert.False(t, ok)

	ok, _ = c.Allow(ctx, "ip:5.6.7.8", 3, window)
	assert.True(t, ok, "windows are per key")

	time.Sleep(2 * window)
	ok, _ = c.Allow(ctx, "ip:1.2.3.4", 3, window)
	assert.True(t, ok, "a new window starts after expiry")
}

func TestMemoryCacheBlacklistExpires(t *testing.T) {
	ctx := context.Background()
	c := newMemoryCache(time.Minute)

	require.NoError(t, c.AddToTokenBlacklist(ctx, "tok", 50*time.Millisecond))
	listed, _ := c.IsTokenBlacklisted(ctx, "tok")
	assert.True(t, listed)

	time.Sleep(100 * time.Millisecond)
	listed, _ = c.IsTokenBlacklisted(ctx, "tok")
	assert.False(t, listed)
}

func TestMemoryCacheEvictsExpiredRateLimitKeys(t *testing.T) {
	ctx := context.Background()
	c := newMemoryCache(10 * time.Millisecond)

	for i := 0; i < 10000; i++ {
		_, err := c.Allow(ctx, fmt.Sprintf("ip:10.0.%d.%d:/rsvp", i/256, i%256), 5, 200*time.Millisecond)
		require.NoError(t, err)
	}
	require.Positive(t, c.items.ItemCount())

	require.Eventually(t, func() bool { return c.items.ItemCount() == 0 },
		2*time.Second, 10*time.Millisecond, "expired windows are swept without being looked up again")
}
