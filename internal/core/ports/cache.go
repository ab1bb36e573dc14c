package ports

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by CacheService.Get for absent or expired keys.
var ErrCacheMiss = errors.New("cache: miss")

// CacheService is a generic TTL cache used for derived, string-keyed data
// (usage aggregates and the like). The registry's model caches are not built
// on it; they need composite struct keys and stale-serving semantics.
type CacheService interface {
	// Get unmarshals the cached value into dest, or returns ErrCacheMiss.
	Get(ctx context.Context, key string, dest any) error

	// Set marshals and stores a value with a TTL.
	Set(ctx context.Context, key string, value any, ttl time.Duration) error

	// Delete removes a value.
	Delete(ctx context.Context, key string) error
}
