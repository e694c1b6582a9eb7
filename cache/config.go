package cache

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/liaisonhq/liaison/internal/cacheinfra"
)

// Config exposes cache tuning for consumers of the cache package. AbsoluteTTL
// caps an entry's total lifetime; SlidingTTL is the idle window a read
// extends, never past the absolute cap.
type Config struct {
	Capacity           int
	NumShards          int
	AbsoluteTTL        time.Duration
	SlidingTTL         time.Duration
	EvictionPercentage int
	EvictionInterval   time.Duration
}

// DefaultConfig mirrors the deployment defaults: 30 minute absolute and
// 5 minute sliding expiry.
func DefaultConfig() Config {
	return convertFromInternal(cacheinfra.DefaultConfig())
}

// Validate checks whether the configuration values are usable.
func (c Config) Validate() error {
	return c.toInternal().Validate()
}

// NewInProcessService constructs the default process-local cache backend.
func NewInProcessService(cfg Config) (CacheService, error) {
	return cacheinfra.NewSturdycService(cfg.toInternal())
}

// NewRedisService constructs a shared cache backend over an existing redis
// client, for deployments that want cache coherence across processes.
func NewRedisService(client *redis.Client, cfg Config) (CacheService, error) {
	return cacheinfra.NewRedisService(client, cfg.toInternal())
}

func (c Config) toInternal() cacheinfra.Config {
	return cacheinfra.Config{
		Capacity:           c.Capacity,
		NumShards:          c.NumShards,
		AbsoluteTTL:        c.AbsoluteTTL,
		SlidingTTL:         c.SlidingTTL,
		EvictionPercentage: c.EvictionPercentage,
		EvictionInterval:   c.EvictionInterval,
	}
}

func convertFromInternal(cfg cacheinfra.Config) Config {
	return Config{
		Capacity:           cfg.Capacity,
		NumShards:          cfg.NumShards,
		AbsoluteTTL:        cfg.AbsoluteTTL,
		SlidingTTL:         cfg.SlidingTTL,
		EvictionPercentage: cfg.EvictionPercentage,
		EvictionInterval:   cfg.EvictionInterval,
	}
}
