package cache

import (
	"time"

	"github.com/goliatone/go-finance-cache/internal/cacheinfra"
	"go.uber.org/zap"
)

// Config exposes query cache configuration options for consumers of the cache package.
type Config struct {
	Capacity           int
	NumShards          int
	TTL                time.Duration
	EvictionPercentage int
	EvictionInterval   time.Duration
	RefetchTimeout     time.Duration
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() Config {
	return convertFromInternal(cacheinfra.DefaultConfig())
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	return c.toInternal().Validate()
}

// NewQueryCache constructs the default sturdyc backed query cache.
func NewQueryCache(cfg Config, logger *zap.Logger) (QueryCache, error) {
	store, err := cacheinfra.NewStore(cfg.toInternal(), cacheinfra.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return &queryCache{store: store, keys: newRegistry()}, nil
}

func (c Config) toInternal() cacheinfra.Config {
	return cacheinfra.Config{
		Capacity:           c.Capacity,
		NumShards:          c.NumShards,
		TTL:                c.TTL,
		EvictionPercentage: c.EvictionPercentage,
		EvictionInterval:   c.EvictionInterval,
		RefetchTimeout:     c.RefetchTimeout,
	}
}

func convertFromInternal(cfg cacheinfra.Config) Config {
	return Config{
		Capacity:           cfg.Capacity,
		NumShards:          cfg.NumShards,
		TTL:                cfg.TTL,
		EvictionPercentage: cfg.EvictionPercentage,
		EvictionInterval:   cfg.EvictionInterval,
		RefetchTimeout:     cfg.RefetchTimeout,
	}
}
