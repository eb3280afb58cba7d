package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces cache keys in a shared redis database.
const KeyPrefix = "garagedocs:published:"

// RedisOptions configures a Redis cache.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// Redis is a Cache backed by a redis server. Entries are stored as JSON.
type Redis struct {
	internal *redis.Client
}

var _ Cache = (*Redis)(nil)

// NewRedis creates a client for opts. Connections are opened lazily.
func NewRedis(opts RedisOptions) *Redis {
	c := &Redis{internal: redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})}
	log.Printf("[cache] redis client for %s initialized", opts.Addr)
	return c
}

// Ping checks that the server is reachable.
func (c *Redis) Ping(ctx context.Context) error {
	if err := c.internal.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("cache: redis ping: %w", err)
	}
	return nil
}

func (c *Redis) Get(ctx context.Context, fingerprint string) (Entry, bool, error) {
	val, err := c.internal.Get(ctx, KeyPrefix+fingerprint).Bytes()
	if errors.Is(err, redis.Nil) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("cache: get: %w", err)
	}
	var e Entry
	if err := json.Unmarshal(val, &e); err != nil {
		return Entry{}, false, fmt.Errorf("cache: decode %s: %w", fingerprint, err)
	}
	return e, true, nil
}

func (c *Redis) Set(ctx context.Context, fingerprint string, e Entry, ttl time.Duration) error {
	val, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("cache: encode: %w", err)
	}
	if err := c.internal.Set(ctx, KeyPrefix+fingerprint, val, ttl).Err(); err != nil {
		return fmt.Errorf("cache: set: %w", err)
	}
	return nil
}

func (c *Redis) Close() error {
	return c.internal.Close()
}
