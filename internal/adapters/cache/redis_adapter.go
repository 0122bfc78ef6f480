package cache

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/carebridge/seniorplacement/backend/internal/domain/providers"
	"github.com/carebridge/seniorplacement/backend/internal/infrastructure/clients/redis"
	apperrors "github.com/carebridge/seniorplacement/backend/pkg/errors"
)

// RedisAdapter implements CacheProvider over Redis
type RedisAdapter struct {
	client *redis.Client
}

// NewRedisAdapter creates a new Redis cache adapter
func NewRedisAdapter(client *redis.Client) providers.CacheProvider {
	return &RedisAdapter{client: client}
}

// Get returns the value for key, or nil when the key does not exist
func (a *RedisAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := a.client.Client().Get(ctx, key).Bytes()
	if err == goredis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get cache key", err)
	}
	return data, nil
}

// Set stores value under key with the given expiration in seconds
func (a *RedisAdapter) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	expiration := time.Duration(expirationSeconds) * time.Second
	if err := a.client.Client().Set(ctx, key, value, expiration).Err(); err != nil {
		return apperrors.NewInternalError("failed to set cache key", err)
	}
	return nil
}

// SetIfAbsent stores value under key only when the key does not already
// exist. Returns true when the value was stored.
func (a *RedisAdapter) SetIfAbsent(ctx context.Context, key string, value []byte, expirationSeconds int) (bool, error) {
	expiration := time.Duration(expirationSeconds) * time.Second
	acquired, err := a.client.Client().SetNX(ctx, key, value, expiration).Result()
	if err != nil {
		return false, apperrors.NewInternalError("failed to set cache key if absent", err)
	}
	return acquired, nil
}

// Delete removes key from the cache
func (a *RedisAdapter) Delete(ctx context.Context, key string) error {
	if err := a.client.Client().Del(ctx, key).Err(); err != nil {
		return apperrors.NewInternalError("failed to delete cache key", err)
	}
	return nil
}

// Exists reports whether key is present in the cache
func (a *RedisAdapter) Exists(ctx context.Context, key string) (bool, error) {
	count, err := a.client.Client().Exists(ctx, key).Result()
	if err != nil {
		return false, apperrors.NewInternalError("failed to check cache key", err)
	}
	return count > 0, nil
}
