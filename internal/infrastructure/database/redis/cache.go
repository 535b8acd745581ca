package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/turtacn/hydromoment/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/hydromoment/pkg/errors"
	"golang.org/x/sync/singleflight"
)

var (
	ErrCacheMiss           = errors.New(errors.ErrCodeNotFound, "cache miss")
	ErrSerializationFailed = errors.New(errors.ErrCodeSerialization, "serialization failed")
)

// Cache stores JSON-encoded moment results under prefixed keys.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, loader func(ctx context.Context) (interface{}, error)) (bool, error)
	Ping(ctx context.Context) error
}

type redisCache struct {
	client       *Client
	logger       logging.Logger
	prefix       string
	defaultTTL   time.Duration
	jitter       float64
	singleflight singleflight.Group
}

type CacheOption func(*redisCache)

func WithPrefix(prefix string) CacheOption {
	return func(c *redisCache) { c.prefix = prefix }
}

func WithDefaultTTL(ttl time.Duration) CacheOption {
	return func(c *redisCache) { c.defaultTTL = ttl }
}

// WithTTLJitter sets the symmetric TTL spread as a fraction of the TTL.
// Zero disables jitter.
func WithTTLJitter(fraction float64) CacheOption {
	return func(c *redisCache) {
		if fraction >= 0 && fraction < 1 {
			c.jitter = fraction
		}
	}
}

func NewRedisCache(client *Client, log logging.Logger, opts ...CacheOption) Cache {
	if log == nil {
		log = logging.NewNopLogger()
	}
	c := &redisCache{
		client:     client,
		logger:     log,
		prefix:     "hmoment:",
		defaultTTL: time.Hour,
		jitter:     0.1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *redisCache) fullKey(key string) string {
	return c.prefix + key
}

func (c *redisCache) jitterTTL(ttl time.Duration) time.Duration {
	if ttl == 0 || c.jitter == 0 {
		return ttl
	}
	jitter := float64(ttl) * c.jitter * (rand.Float64()*2 - 1)
	return ttl + time.Duration(jitter)
}

func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.Get(ctx, c.fullKey(key)).Bytes()
	if err == redis.Nil {
		return ErrCacheMiss
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "failed to get from cache")
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return ErrSerializationFailed.WithCause(err).WithDetail(key)
	}
	return nil
}

func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.defaultTTL
	}
	ttl = c.jitterTTL(ttl)

	data, err := json.Marshal(value)
	if err != nil {
		return ErrSerializationFailed.WithCause(err).WithDetail(key)
	}
	if err := c.client.Set(ctx, c.fullKey(key), data, ttl).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "failed to write to cache")
	}
	return nil
}

// GetOrSet reads key into dest and reports a hit. On a miss, or an entry
// that no longer decodes, loader runs once per key across concurrent callers
// and its result is cached and decoded into dest. Loader errors are returned
// unchanged; backend failures carry ErrCodeCacheError.
func (c *redisCache) GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, loader func(ctx context.Context) (interface{}, error)) (bool, error) {
	err := c.Get(ctx, key, dest)
	switch {
	case err == nil:
		return true, nil
	case err == ErrCacheMiss:
	case errors.IsCode(err, errors.ErrCodeSerialization):
		c.logger.Warn("Discarding undecodable cache entry", logging.String("key", key), logging.Err(err))
	default:
		return false, err
	}

	val, err, _ := c.singleflight.Do(key, func() (interface{}, error) {
		v, loadErr := loader(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		if setErr := c.Set(ctx, key, v, ttl); setErr != nil {
			c.logger.Warn("Failed to set cache in GetOrSet", logging.String("key", key), logging.Err(setErr))
		}
		return v, nil
	})
	if err != nil {
		return false, err
	}

	data, err := json.Marshal(val)
	if err != nil {
		return false, ErrSerializationFailed.WithCause(err).WithDetail(key)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, ErrSerializationFailed.WithCause(err).WithDetail(key)
	}
	return false, nil
}

func (c *redisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx)
}

//Personal.AI order the ending
