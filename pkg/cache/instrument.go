package cache

import (
	"context"
	"time"

	errs "github.com/matzehuels/dci/pkg/errors"
	"github.com/matzehuels/dci/pkg/observability"
)

// Instrumented reports hits, misses and writes of an inner cache to the
// registered [observability.CacheHooks].
type Instrumented struct {
	Cache
}

// Instrument wraps c.
func Instrument(c Cache) Cache {
	return &Instrumented{Cache: c}
}

// Get forwards to the inner cache and reports the outcome.
func (c *Instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := c.Cache.Get(ctx, key)
	if err != nil {
		return data, hit, err
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, keyType(key))
	} else {
		observability.Cache().OnCacheMiss(ctx, keyType(key))
	}
	return data, hit, nil
}

// Set forwards to the inner cache and reports successful writes.
func (c *Instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.Cache.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, keyType(key), len(data))
	return nil
}

// Clear forwards to the inner cache when it supports clearing.
func (c *Instrumented) Clear(ctx context.Context) error {
	if cl, ok := c.Cache.(Clearer); ok {
		return cl.Clear(ctx)
	}
	return errs.New(errs.ErrCodeUnsupported, "cache backend cannot be cleared")
}
