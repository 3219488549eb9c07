// Package cache stores search results and rendered artifacts.
//
// Backends share the [Cache] interface: [FileCache] for the CLI,
// [RedisCache] and [MongoCache] for shared deployments and [NullCache]
// when caching is off. [Open] picks one from a location string. Keys come
// from a [Keyer] so that identical problems map to identical entries.
package cache

import (
	"context"
	"strings"
	"time"

	errs "github.com/matzehuels/dci/pkg/errors"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases connections held by the backend.
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Open returns the cache for location:
//
//   - "" or "none": a [NullCache]
//   - redis:// or rediss://: a [RedisCache]
//   - mongodb:// or mongodb+srv://: a [MongoCache]
//   - anything else: a [FileCache] rooted at that directory
//     (a file:// prefix is stripped)
func Open(ctx context.Context, location string) (Cache, error) {
	switch {
	case location == "" || location == "none":
		return NewNullCache(), nil
	case strings.HasPrefix(location, "redis://"), strings.HasPrefix(location, "rediss://"):
		c, err := NewRedisCache(location)
		if err != nil {
			return nil, err
		}
		return c, nil
	case strings.HasPrefix(location, "mongodb://"), strings.HasPrefix(location, "mongodb+srv://"):
		c, err := NewMongoCache(ctx, location, MongoOptions{})
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	dir := strings.TrimPrefix(location, "file://")
	c, err := NewFileCache(dir)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidPath, err, "cache directory %s", dir)
	}
	return c, nil
}
