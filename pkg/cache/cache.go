// Package cache stores pipeline artifacts between runs.
//
// # Backends
//
// Three implementations of [Cache] are provided:
//
//   - [NullCache] never stores anything (caching disabled)
//   - [FileCache] keeps one JSON file per entry below a directory, for the CLI
//   - [RedisCache] shares entries between processes through Redis
//
// [Open] picks a backend from a URL: "" or "file://<dir>" for the file
// cache, "redis://..." for Redis and "none" for the null cache.
//
// # Keys
//
// Keys are produced by a [Keyer]. [DefaultKeyer] hashes the options that
// affect a stage's output together with the hash of that stage's input, so
// changing any event file, configuration value or render option yields a new
// key. [ScopedKeyer] prefixes every key, e.g. per workspace.
package cache

import (
	"context"
	"time"
)

// Time-to-live defaults per artifact kind.
const (
	// TTLTOC applies to numbered TOC entry trees.
	TTLTOC = 24 * time.Hour
	// TTLArtifact applies to rendered outputs.
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss
	// (ok == false), not an error.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	// Set stores data under key. A ttl of zero keeps the entry until it is
	// deleted.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases the backend.
	Close() error
}

// Lookup is Get with misses reported as [ErrCacheMiss].
func Lookup(ctx context.Context, c Cache, key string) ([]byte, error) {
	data, ok, err := c.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCacheMiss
	}
	return data, nil
}
