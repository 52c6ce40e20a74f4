package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig configures a shared run cache. Multiple placement workers in
// a design-space-exploration sweep point at the same Redis instance so a
// (circuit, config) pair solved by one worker is reused by the rest.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// KeyPrefix namespaces keys, e.g. "placer:runs:".
	KeyPrefix string
}

// RedisCache is a Cache backed by a Redis instance.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache dials Redis and returns a Cache. The connection is verified
// with a PING before returning.
func NewRedisCache(ctx context.Context, cfg RedisConfig) (Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, wrapNetErr(err)
	}
	return &RedisCache{client: client, prefix: cfg.KeyPrefix}, nil
}

// wrapNetErr attaches ErrNetwork to a driver-level failure so callers can
// match it with errors.Is(err, cache.ErrNetwork) while still seeing the
// underlying cause in the message. The result is also Retryable: a dropped
// connection to the shared Redis instance is exactly the kind of failure
// RetryWithBackoff exists to ride out, since a design-space-exploration
// sweep would otherwise abandon a cache hit or miss over one blip.
func wrapNetErr(cause error) error {
	if cause == nil {
		return nil
	}
	return Retryable(&wrappedError{sentinel: ErrNetwork, cause: cause})
}

type wrappedError struct {
	sentinel error
	cause    error
}

func (w *wrappedError) Error() string { return w.sentinel.Error() + ": " + w.cause.Error() }
func (w *wrappedError) Unwrap() error { return w.sentinel }

// Get implements Cache. A dropped connection is retried with backoff before
// the run falls back to treating it as a miss and re-solving; a lost cache
// hit costs one placement run, not correctness.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	var hit bool
	err := RetryWithBackoff(ctx, func() error {
		var err error
		data, err = c.client.Get(ctx, c.prefix+key).Bytes()
		if err == redis.Nil {
			hit = false
			return nil
		}
		if err != nil {
			return wrapNetErr(err)
		}
		hit = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return data, hit, nil
}

// Set implements Cache.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return RetryWithBackoff(ctx, func() error {
		if err := c.client.Set(ctx, c.prefix+key, data, ttl).Err(); err != nil {
			return wrapNetErr(err)
		}
		return nil
	})
}

// Delete implements Cache.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return RetryWithBackoff(ctx, func() error {
		if err := c.client.Del(ctx, c.prefix+key).Err(); err != nil {
			return wrapNetErr(err)
		}
		return nil
	})
}

// Close implements Cache.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

var _ Cache = (*RedisCache)(nil)
