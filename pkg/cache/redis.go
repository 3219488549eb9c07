package cache

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	errs "github.com/matzehuels/dci/pkg/errors"
)

// RedisCache stores entries as plain Redis strings with native expiry.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects lazily to the server at url
// (redis://[user:pass@]host:port/db or rediss:// for TLS).
func NewRedisCache(url string) (*RedisCache, error) {
	if err := errs.ValidateCacheURL(url); err != nil {
		return nil, err
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "parse redis URL")
	}
	return &RedisCache{client: redis.NewClient(opts)}, nil
}

// Get retrieves a value, retrying network failures.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var (
		data []byte
		hit  bool
	)
	err := RetryWithBackoff(ctx, func() error {
		b, err := c.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return redisError(err)
		}
		data, hit = b, true
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return data, hit, nil
}

// Set stores a value. A ttl of zero keeps it until deleted.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := RetryWithBackoff(ctx, func() error {
		return redisError(c.client.Set(ctx, key, data, ttl).Err())
	})
	if err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Delete removes a value.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := redisError(c.client.Del(ctx, key).Err()); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// Close closes the client's connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// redisError marks network failures as retryable.
func redisError(err error) error {
	if err == nil {
		return nil
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	return err
}

var _ Cache = (*RedisCache)(nil)
