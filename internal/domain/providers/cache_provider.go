package providers

import (
	"context"
)

// CacheProvider defines the cache operations used by the pipeline.
type CacheProvider interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in cache with expiration
	Set(ctx context.Context, key string, value []byte, expirationSeconds int) error

	// SetIfAbsent stores the value only when the key does not exist and reports
	// whether the write happened. Used for at-most-one-in-flight coordination.
	SetIfAbsent(ctx context.Context, key string, value []byte, expirationSeconds int) (bool, error)

	// Delete removes a value from cache
	Delete(ctx context.Context, key string) error

	// Exists checks if a key exists in cache
	Exists(ctx context.Context, key string) (bool, error)
}
