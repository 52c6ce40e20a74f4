// Package cache implements an optional run cache: a content-addressed store
// the global-placement orchestrator consults before Run() so that
// re-invoking the engine with an unchanged
// (circuit, config) pair can skip the solve entirely and replay the cached
// final coordinates.
//
// Three backends are provided: NewNullCache (default, always misses),
// NewFileCache (JSON-on-disk, for a single machine or CI cache directory),
// and NewRedisCache (shared across a fleet of placement workers running a
// parameter sweep).
package cache

import (
	"context"
	"time"
)

// Cache is the interface every backend implements.
type Cache interface {
	// Get retrieves a value by key. hit is false on a cache miss; err is
	// only non-nil for a genuine backend failure.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores a value with the given time-to-live. A zero ttl means no
	// expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any backend resources (connections, file handles).
	Close() error
}
