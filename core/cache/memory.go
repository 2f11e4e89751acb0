package cache

import (
	"context"
	"strconv"
	"sync"
	"time"

	"party-invites/core/constants"

	gocache "github.com/patrickmn/go-cache"
)

const memoryCleanupInterval = time.Minute

// memoryCache backs the Cache interface when Redis is not reachable and in tests.
// Entries live in a single process only. Expired entries are swept by the
// go-cache janitor every cleanup interval.
type memoryCache struct {
	// mu serialises read-modify-write sequences; single calls are safe on their own
	mu    sync.Mutex
	items *gocache.Cache
}

func NewMemoryCache() Cache {
	return newMemoryCache(memoryCleanupInterval)
}

func newMemoryCache(cleanup time.Duration) *memoryCache {
	return &memoryCache{items: gocache.New(gocache.NoExpiration, cleanup)}
}

// expiration maps a Redis-style TTL (0 means keep forever) onto go-cache.
func expiration(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return gocache.NoExpiration
	}
	return ttl
}

func asString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	default:
		return ""
	}
}

func asInt(v any) int {
	switch val := v.(type) {
	case int:
		return val
	case string:
		n, _ := strconv.Atoi(val)
		return n
	default:
		return 0
	}
}

func (m *memoryCache) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	m.items.Set(key, value, expiration(ttl))
	return nil
}

func (m *memoryCache) Get(_ context.Context, key string) (string, error) {
	v, ok := m.items.Get(key)
	if !ok {
		return "", nil
	}
	return asString(v), nil
}

func (m *memoryCache) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		m.items.Delete(k)
	}
	return nil
}

func (m *memoryCache) Expire(_ context.Context, key string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.items.Get(key); ok {
		m.items.Set(key, v, expiration(ttl))
	}
	return nil
}

func (m *memoryCache) AddToTokenBlacklist(ctx context.Context, token string, ttl time.Duration) error {
	return m.Set(ctx, constants.RedisKeyTokenBlacklist+token, "1", ttl)
}

func (m *memoryCache) IsTokenBlacklisted(_ context.Context, token string) (bool, error) {
	_, ok := m.items.Get(constants.RedisKeyTokenBlacklist + token)
	return ok, nil
}

func (m *memoryCache) IncrementLoginAttempt(_ context.Context, key string) error {
	full := constants.RedisKeyLoginAttempt + key

	m.mu.Lock()
	defer m.mu.Unlock()
	n := 1
	if v, ok := m.items.Get(full); ok {
		n = asInt(v) + 1
	}
	// every failure restarts the block window, as INCR + EXPIRE does in Redis
	m.items.Set(full, n, constants.BlockDuration)
	return nil
}

func (m *memoryCache) IsLoginBlocked(_ context.Context, key string) (bool, error) {
	v, ok := m.items.Get(constants.RedisKeyLoginAttempt + key)
	if !ok {
		return false, nil
	}
	return asInt(v) >= constants.MaxLoginAttempts, nil
}

func (m *memoryCache) SaveOAuthState(ctx context.Context, state string) error {
	return m.Set(ctx, constants.RedisKeyOAuthState+state, "1", constants.OAuthStateTTL)
}

func (m *memoryCache) ConsumeOAuthState(_ context.Context, state string) (bool, error) {
	key := constants.RedisKeyOAuthState + state

	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.items.Get(key)
	m.items.Delete(key)
	return ok, nil
}

// Allow opens a window on the first hit and counts later hits inside it.
// IncrementInt keeps the expiry set by Add.
func (m *memoryCache) Allow(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	full := constants.RedisKeyRateLimit + key

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.items.Add(full, 1, expiration(window)); err == nil {
		return 1 <= limit, nil
	}
	n, err := m.items.IncrementInt(full, 1)
	if err != nil {
		// the entry was not an int counter; restart the window
		m.items.Set(full, 1, expiration(window))
		n = 1
	}
	return n <= limit, nil
}
