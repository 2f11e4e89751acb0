package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"party-invites/core/config"
	"party-invites/core/constants"
	"party-invites/core/logger"

	"github.com/redis/go-redis/v9"
)

type Cache interface {
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	Expire(ctx context.Context, key string, ttl time.Duration) error

	AddToTokenBlacklist(ctx context.Context, token string, ttl time.Duration) error
	IsTokenBlacklisted(ctx context.Context, token string) (bool, error)

	IncrementLoginAttempt(ctx context.Context, key string) error
	IsLoginBlocked(ctx context.Context, key string) (bool, error)

	SaveOAuthState(ctx context.Context, state string) error
	ConsumeOAuthState(ctx context.Context, state string) (bool, error)

	// Allow counts a hit in a fixed window and reports whether it is within limit.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type redisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) Cache {
	return &redisCache{client: client}
}

// NewRedisClient connects and pings Redis. It returns an error when the server is unreachable.
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}

	logger.Info("Redis connected", "addr", cfg.Addr, "db", cfg.DB)
	return client, nil
}

func (r *redisCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return val, err
}

func (r *redisCache) Del(ctx context.Context, keys ...string) error {
	return r.client.Del(ctx, keys...).Err()
}

func (r *redisCache) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return r.client.Expire(ctx, key, ttl).Err()
}

func (r *redisCache) AddToTokenBlacklist(ctx context.Context, token string, ttl time.Duration) error {
	return r.client.Set(ctx, constants.RedisKeyTokenBlacklist+token, "1", ttl).Err()
}

func (r *redisCache) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	n, err := r.client.Exists(ctx, constants.RedisKeyTokenBlacklist+token).Result()
	if err != nil {
		logger.Error("Cache:IsTokenBlacklisted:Error", "error", err)
		return false, err
	}
	return n > 0, nil
}

func (r *redisCache) IncrementLoginAttempt(ctx context.Context, key string) error {
	full := constants.RedisKeyLoginAttempt + key
	pipe := r.client.TxPipeline()
	pipe.Incr(ctx, full)
	pipe.Expire(ctx, full, constants.BlockDuration)
	_, err := pipe.Exec(ctx)
	return err
}

func (r *redisCache) IsLoginBlocked(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Get(ctx, constants.RedisKeyLoginAttempt+key).Int()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return n >= constants.MaxLoginAttempts, nil
}

func (r *redisCache) SaveOAuthState(ctx context.Context, state string) error {
	return r.client.Set(ctx, constants.RedisKeyOAuthState+state, "1", constants.OAuthStateTTL).Err()
}

func (r *redisCache) ConsumeOAuthState(ctx context.Context, state string) (bool, error) {
	n, err := r.client.Del(ctx, constants.RedisKeyOAuthState+state).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *redisCache) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	full := constants.RedisKeyRateLimit + key
	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, full)
	pipe.ExpireNX(ctx, full, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, err
	}
	return incr.Val() <= int64(limit), nil
}
