package cacheinfra

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/viccon/sturdyc"
)

// Config holds the configuration for the sturdyc-backed in-memory backend.
type Config struct {
	// Capacity defines the maximum number of entries that the cache can store.
	// Must be greater than 0.
	Capacity int

	// NumShards determines the number of cache shards for concurrent access.
	// Higher values improve concurrency but increase memory overhead.
	// Must be greater than 0.
	NumShards int

	// TTL is the default time-to-live for cached entries.
	// Must be greater than 0.
	TTL time.Duration

	// EvictionPercentage specifies what percentage of entries to evict
	// when the cache reaches its capacity. Must be between 1-100.
	EvictionPercentage int

	// EarlyRefresh configures early refresh behavior for cached entries.
	// If nil, early refresh is disabled.
	EarlyRefresh *EarlyRefreshConfig

	// MissingRecordStorage enables storage for missing record flags.
	MissingRecordStorage bool

	// EvictionInterval sets how often the cache checks for expired entries.
	// Zero value uses the default interval.
	EvictionInterval time.Duration
}

// EarlyRefreshConfig configures early refresh behavior. Early refresh
// prevents cache stampedes by refreshing entries before they expire when
// they're frequently accessed.
type EarlyRefreshConfig struct {
	// MinAsyncRefreshTime is the minimum time after which an async refresh can occur
	MinAsyncRefreshTime time.Duration

	// MaxAsyncRefreshTime is the maximum time after which an async refresh can occur
	MaxAsyncRefreshTime time.Duration

	// SyncRefreshTime is when a refresh becomes synchronous instead of async
	SyncRefreshTime time.Duration

	// RetryBaseDelay is the base delay for retry attempts when early refresh fails
	RetryBaseDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults for most use cases.
func DefaultConfig() Config {
	return Config{
		Capacity:           10000,
		NumShards:          256,
		TTL:                5 * time.Minute,
		EvictionPercentage: 10,
		EarlyRefresh: &EarlyRefreshConfig{
			MinAsyncRefreshTime: 10 * time.Second,
			MaxAsyncRefreshTime: 20 * time.Second,
			SyncRefreshTime:     30 * time.Second,
			RetryBaseDelay:      100 * time.Millisecond,
		},
		MissingRecordStorage: true,
		EvictionInterval:     0,
	}
}

// ToSturdycOptions converts the Config to a sturdyc.Option slice. Capacity,
// NumShards, TTL, and EvictionPercentage are passed directly to sturdyc.New
// and are not part of the options.
func (c Config) ToSturdycOptions() []sturdyc.Option {
	var options []sturdyc.Option

	if c.EarlyRefresh != nil {
		options = append(options, sturdyc.WithEarlyRefreshes(
			c.EarlyRefresh.MinAsyncRefreshTime,
			c.EarlyRefresh.MaxAsyncRefreshTime,
			c.EarlyRefresh.SyncRefreshTime,
			c.EarlyRefresh.RetryBaseDelay,
		))
	}

	if c.MissingRecordStorage {
		options = append(options, sturdyc.WithMissingRecordStorage())
	}

	if c.EvictionInterval > 0 {
		options = append(options, sturdyc.WithEvictionInterval(c.EvictionInterval))
	}

	return options
}

// Validate checks if the configuration values are valid.
func (c Config) Validate() error {
	if err := validation.ValidateStruct(&c,
		validation.Field(&c.Capacity, validation.Required, validation.Min(1)),
		validation.Field(&c.NumShards, validation.Required, validation.Min(1)),
		validation.Field(&c.TTL, validation.Required, validation.Min(time.Nanosecond)),
		validation.Field(&c.EvictionPercentage, validation.Required, validation.Min(1), validation.Max(100)),
	); err != nil {
		return err
	}

	if c.EarlyRefresh != nil {
		return validation.ValidateStruct(c.EarlyRefresh,
			validation.Field(&c.EarlyRefresh.MinAsyncRefreshTime, validation.Min(time.Duration(0))),
			validation.Field(&c.EarlyRefresh.MaxAsyncRefreshTime, validation.Min(time.Duration(0))),
			validation.Field(&c.EarlyRefresh.SyncRefreshTime, validation.Min(time.Duration(0))),
			validation.Field(&c.EarlyRefresh.RetryBaseDelay, validation.Min(time.Duration(0))),
		)
	}

	return nil
}

// sturdycBackend adapts a sturdyc client to the policy engine's backend
// contract.
type sturdycBackend struct {
	client *sturdyc.Client[any]
}

// NewSturdycBackend validates the configuration and builds the in-memory
// backend over a sturdyc client.
//
// Version compatibility note: this implementation assumes the sturdyc v1.x
// API. Monitor sturdyc version upgrades for potential option mapping changes.
func NewSturdycBackend(cfg Config) (*sturdycBackend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := sturdyc.New[any](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
		cfg.ToSturdycOptions()...,
	)

	return &sturdycBackend{client: client}, nil
}

// Get reports the stored value for key. An in-process cache is never
// unavailable, so the error result is always nil.
func (b *sturdycBackend) Get(ctx context.Context, conf any, key string) (any, bool, error) {
	value, ok := b.client.Get(key)
	return value, ok, nil
}

// Put stores value under key. The per-operation options bag is ignored here:
// sturdyc entry lifetime is the client-wide TTL.
func (b *sturdycBackend) Put(ctx context.Context, conf any, key string, value any, opts map[string]any) error {
	b.client.Set(key, value)
	return nil
}

// Delete removes the entry for key. Deleting an absent key is a no-op.
func (b *sturdycBackend) Delete(ctx context.Context, conf any, key string) error {
	b.client.Delete(key)
	return nil
}

// Size returns the number of entries currently stored.
func (b *sturdycBackend) Size() int {
	return b.client.Size()
}
