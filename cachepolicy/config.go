package cachepolicy

import (
	"time"

	"github.com/goliatone/go-cache-policy/internal/cacheinfra"
)

// Config exposes the in-memory backend configuration for consumers of the
// cachepolicy package.
type Config struct {
	Capacity             int
	NumShards            int
	TTL                  time.Duration
	EvictionPercentage   int
	EarlyRefresh         *EarlyRefreshConfig
	MissingRecordStorage bool
	EvictionInterval     time.Duration
}

// EarlyRefreshConfig mirrors the underlying sturdyc early refresh options.
type EarlyRefreshConfig struct {
	MinAsyncRefreshTime time.Duration
	MaxAsyncRefreshTime time.Duration
	SyncRefreshTime     time.Duration
	RetryBaseDelay      time.Duration
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() Config {
	return convertFromInternal(cacheinfra.DefaultConfig())
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	return c.toInternal().Validate()
}

// NewMemoryBackend constructs the in-process backend over sturdyc using the
// provided configuration.
func NewMemoryBackend(cfg Config) (Backend, error) {
	return cacheinfra.NewSturdycBackend(cfg.toInternal())
}

// RedisConfig exposes the redis backend configuration.
type RedisConfig struct {
	Addr       string
	Username   string
	Password   string
	DB         int
	KeyPrefix  string
	DefaultTTL time.Duration
}

// Validate checks whether the configuration values are valid.
func (c RedisConfig) Validate() error {
	return c.toInternal().Validate()
}

// NewRedisBackend constructs a shared backend over a redis server. Values are
// msgpack-encoded on the wire; the backend honors the "ttl" entry of an
// operation's options and falls back to DefaultTTL.
func NewRedisBackend(cfg RedisConfig) (Backend, error) {
	return cacheinfra.NewRedisBackend(cfg.toInternal())
}

func (c Config) toInternal() cacheinfra.Config {
	var early *cacheinfra.EarlyRefreshConfig
	if c.EarlyRefresh != nil {
		early = &cacheinfra.EarlyRefreshConfig{
			MinAsyncRefreshTime: c.EarlyRefresh.MinAsyncRefreshTime,
			MaxAsyncRefreshTime: c.EarlyRefresh.MaxAsyncRefreshTime,
			SyncRefreshTime:     c.EarlyRefresh.SyncRefreshTime,
			RetryBaseDelay:      c.EarlyRefresh.RetryBaseDelay,
		}
	}

	return cacheinfra.Config{
		Capacity:             c.Capacity,
		NumShards:            c.NumShards,
		TTL:                  c.TTL,
		EvictionPercentage:   c.EvictionPercentage,
		EarlyRefresh:         early,
		MissingRecordStorage: c.MissingRecordStorage,
		EvictionInterval:     c.EvictionInterval,
	}
}

func (c RedisConfig) toInternal() cacheinfra.RedisConfig {
	return cacheinfra.RedisConfig{
		Addr:       c.Addr,
		Username:   c.Username,
		Password:   c.Password,
		DB:         c.DB,
		KeyPrefix:  c.KeyPrefix,
		DefaultTTL: c.DefaultTTL,
	}
}

func convertFromInternal(cfg cacheinfra.Config) Config {
	var early *EarlyRefreshConfig
	if cfg.EarlyRefresh != nil {
		early = &EarlyRefreshConfig{
			MinAsyncRefreshTime: cfg.EarlyRefresh.MinAsyncRefreshTime,
			MaxAsyncRefreshTime: cfg.EarlyRefresh.MaxAsyncRefreshTime,
			SyncRefreshTime:     cfg.EarlyRefresh.SyncRefreshTime,
			RetryBaseDelay:      cfg.EarlyRefresh.RetryBaseDelay,
		}
	}

	return Config{
		Capacity:             cfg.Capacity,
		NumShards:            cfg.NumShards,
		TTL:                  cfg.TTL,
		EvictionPercentage:   cfg.EvictionPercentage,
		EarlyRefresh:         early,
		MissingRecordStorage: cfg.MissingRecordStorage,
		EvictionInterval:     cfg.EvictionInterval,
	}
}
