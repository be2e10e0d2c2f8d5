// Package cache stores rendered artifacts and traversal results.
//
// Three backends implement [Cache]: [FileCache] for the CLI, [RedisCache]
// for the API server and [NullCache] when caching is disabled. Keys are built
// by a [Keyer] from a content hash of the input graph plus the options that
// affect the output.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the stored value and true, or false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Default time-to-live values.
const (
	TTLArtifact  = 7 * 24 * time.Hour
	TTLTraversal = 24 * time.Hour
)
