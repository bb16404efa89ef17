// Package cache stores generated maps and rendered artifacts.
//
// # Overview
//
// Generation is deterministic for a fixed (params, seed) pair, so both the
// map snapshot and every artifact rendered from it can be reused. The
// [Cache] interface is a byte store with TTLs; a [Keyer] turns generation
// and render options into stable keys.
//
// # Backends
//
//   - [NullCache]: stores nothing (caching disabled)
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: shared cache for the HTTP server
//
// # Keys
//
//	keyer := cache.NewDefaultKeyer()
//	mapKey := keyer.MapKey(params, seed)
//	artKey := keyer.ArtifactKey(mapHash, cache.ArtifactKeyOpts{Format: "svg", Style: "rooms"})
//
// Use [WithPrefix] to isolate namespaces sharing one backend.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
// Get reports a miss with ok=false and a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default time-to-live values per entry kind.
const (
	// TTLMap applies to generated map snapshots. Maps never change for a key.
	TTLMap = 30 * 24 * time.Hour

	// TTLArtifact applies to rendered outputs, which depend on renderer code.
	TTLArtifact = 7 * 24 * time.Hour
)

// NullCache stores nothing; every Get is a miss. It backs --no-cache.
type NullCache struct{}

func NewNullCache() *NullCache { return &NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error { return nil }
func (NullCache) Close() error { return nil }

var _ Cache = (*NullCache)(nil)
