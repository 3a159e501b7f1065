package cacheinfra

import (
	"context"
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

// RedisConfig holds the configuration for the redis-backed backend.
type RedisConfig struct {
	// Addr is the host:port of the redis server.
	Addr string

	// Username and Password authenticate against the server when set.
	Username string
	Password string

	// DB selects the redis logical database.
	DB int

	// KeyPrefix namespaces every key written by this backend.
	KeyPrefix string

	// DefaultTTL applies when an operation's options carry no "ttl" entry.
	// Zero means entries never expire.
	DefaultTTL time.Duration
}

// Validate checks if the configuration values are valid.
func (c RedisConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Addr, validation.Required),
		validation.Field(&c.DB, validation.Min(0)),
		validation.Field(&c.DefaultTTL, validation.Min(time.Duration(0))),
	)
}

// redisBackend stores msgpack-encoded values in redis. Unlike the in-memory
// backend it can genuinely be unavailable, which the policy engine tolerates
// on reads and treats as fatal on writes.
//
// Decoded values come back in msgpack's generic representation (maps and
// slices of any), not the concrete Go types that were stored. Operations
// shared through redis should cache representation-stable values.
type redisBackend struct {
	client     *redis.Client
	prefix     string
	defaultTTL time.Duration
}

// NewRedisBackend validates the configuration and builds a backend over a
// redis client. The connection is established lazily on first use.
func NewRedisBackend(cfg RedisConfig) (*redisBackend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &redisBackend{
		client:     client,
		prefix:     cfg.KeyPrefix,
		defaultTTL: cfg.DefaultTTL,
	}, nil
}

// fullKey applies the configured prefix and, when conf is a string, the
// per-consumer namespace forwarded unchanged by the engine.
func (b *redisBackend) fullKey(conf any, key string) string {
	k := key
	if ns, ok := conf.(string); ok && ns != "" {
		k = ns + ":" + k
	}
	if b.prefix != "" {
		k = b.prefix + ":" + k
	}
	return k
}

// Get reports the stored value for key. A redis.Nil reply is a plain miss;
// any other error marks the backend unavailable for this read. An entry that
// fails to decode is reported as unavailable rather than returned corrupted.
func (b *redisBackend) Get(ctx context.Context, conf any, key string) (any, bool, error) {
	data, err := b.client.Get(ctx, b.fullKey(conf, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var value any
	if err := msgpack.Unmarshal(data, &value); err != nil {
		return nil, false, fmt.Errorf("decode cached value: %w", err)
	}
	return value, true, nil
}

// Put stores the msgpack encoding of value under key, honoring the "ttl"
// options entry when present.
func (b *redisBackend) Put(ctx context.Context, conf any, key string, value any, opts map[string]any) error {
	data, err := msgpack.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode value: %w", err)
	}

	ttl := b.defaultTTL
	if opts != nil {
		if d, ok := opts["ttl"].(time.Duration); ok {
			ttl = d
		}
	}

	return b.client.Set(ctx, b.fullKey(conf, key), data, ttl).Err()
}

// Delete removes the entry for key. Deleting an absent key is a no-op.
func (b *redisBackend) Delete(ctx context.Context, conf any, key string) error {
	return b.client.Del(ctx, b.fullKey(conf, key)).Err()
}

// Close releases the underlying connection pool.
func (b *redisBackend) Close() error {
	return b.client.Close()
}
