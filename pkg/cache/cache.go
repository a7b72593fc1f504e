// Package cache stores built graphs and rendered artifacts by content key.
//
// docgraph rebuilds a graph whenever a document changes, but editors, the
// HTTP service and repeated CLI runs frequently submit identical bytes. The
// cache maps a content-addressed key to the serialized result so those
// repeats skip parsing, building and rendering.
//
// # Backends
//
//   - [NullCache]: stores nothing (caching disabled)
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [MemoryCache]: bounded in-process LRU with expiry, for the server
//   - [RedisCache]: shared cache for several server instances
//
// # Keys
//
// A [Keyer] derives keys from the SHA-256 of the document plus every option
// that changes the output, so a key never aliases two different results:
//
//	k := cache.NewDefaultKeyer()
//	gk := k.GraphKey(cache.Hash(doc), cache.GraphKeyOpts{Format: "json"})
//	ak := k.ArtifactKey(graphHash, cache.ArtifactKeyOpts{Format: "svg"})
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry TTL. A TTL of zero means no expiry.
//
// Get reports a miss as (nil, false, nil); errors are reserved for backend
// failures. Implementations are safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default TTLs.
const (
	GraphTTL    = 7 * 24 * time.Hour
	ArtifactTTL = 7 * 24 * time.Hour
	HTTPTTL     = 24 * time.Hour
)

// NullCache misses every lookup and discards every write. It backs
// --no-cache and the "none" backend.
type NullCache struct{}

// NewNullCache returns a cache that stores nothing.
func NewNullCache() Cache { return &NullCache{} }

func (*NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (*NullCache) Delete(context.Context, string) error                     { return nil }
func (*NullCache) Close() error                                             { return nil }

var _ Cache = (*NullCache)(nil)
