// Package cache provides a Dragonfly/Redis client wrapper with namespaced keys
// and tracked key sets for bulk invalidation.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned by Get when the key is absent.
var ErrMiss = errors.New("cache miss")

// DefaultPrefix namespaces every key the service writes.
const DefaultPrefix = "diglearners"

// Cache wraps a Redis/Dragonfly client.
type Cache struct {
	Client *redis.Client
	prefix string
}

// ParseURL validates a Redis connection URL.
func ParseURL(url string) (*redis.Options, error) {
	if url == "" {
		return nil, fmt.Errorf("cache URL is empty")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid cache URL: %w", err)
	}
	return opts, nil
}

// New connects to the cache at url and verifies it answers PING.
func New(ctx context.Context, url string) (*Cache, error) {
	opts, err := ParseURL(url)
	if err != nil {
		return nil, err
	}

	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging cache: %w", err)
	}

	return NewFromClient(client, DefaultPrefix), nil
}

// NewFromClient wraps an existing client. Keys are namespaced under prefix.
func NewFromClient(client *redis.Client, prefix string) *Cache {
	return &Cache{Client: client, prefix: strings.TrimSuffix(prefix, ":")}
}

// Key joins parts under the cache namespace.
func (c *Cache) Key(parts ...string) string {
	if c.prefix == "" {
		return strings.Join(parts, ":")
	}
	return c.prefix + ":" + strings.Join(parts, ":")
}

// Get returns the raw value at key, or ErrMiss.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	return data, err
}

// SetTracked stores value at key and records key in the set so that
// DropTracked can remove it later.
func (c *Cache) SetTracked(ctx context.Context, set, key string, value []byte, ttl time.Duration) error {
	_, err := c.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key, value, ttl)
		pipe.SAdd(ctx, set, key)
		return nil
	})
	return err
}

// DropTracked deletes every key recorded in set, and the set itself.
func (c *Cache) DropTracked(ctx context.Context, set string) error {
	keys, err := c.Client.SMembers(ctx, set).Result()
	if err != nil {
		return fmt.Errorf("reading tracked keys: %w", err)
	}
	keys = append(keys, set)
	if err := c.Client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("deleting tracked keys: %w", err)
	}
	return nil
}

// Generation returns the counter stored at key, or 0 when it has never been
// bumped.
func (c *Cache) Generation(ctx context.Context, key string) (int64, error) {
	n, err := c.Client.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

// BumpGeneration increments the counter at key and returns the new value.
func (c *Cache) BumpGeneration(ctx context.Context, key string) (int64, error) {
	return c.Client.Incr(ctx, key).Result()
}

// Close shuts down the cache client.
func (c *Cache) Close() error {
	return c.Client.Close()
}

// HealthCheck verifies the cache connection is alive.
func (c *Cache) HealthCheck(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}
