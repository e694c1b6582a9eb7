package cacheinfra

import "time"

// Config holds tuning shared by every cache backend.
type Config struct {
	// Capacity is the maximum number of entries an in-process backend holds.
	Capacity int

	// NumShards controls concurrency in the in-process backend.
	NumShards int

	// AbsoluteTTL caps an entry's total lifetime regardless of reads.
	AbsoluteTTL time.Duration

	// SlidingTTL is the idle window a read extends. Zero disables sliding
	// behavior; entries then live for AbsoluteTTL flat.
	SlidingTTL time.Duration

	// EvictionPercentage is how much of the in-process cache to evict when
	// capacity is reached, 1-100.
	EvictionPercentage int

	// EvictionInterval sets how often expired entries are swept. Zero uses
	// the backend default.
	EvictionInterval time.Duration
}

// DefaultConfig matches the deployment defaults: 30 minute absolute expiry
// with a 5 minute sliding window.
func DefaultConfig() Config {
	return Config{
		Capacity:           10000,
		NumShards:          64,
		AbsoluteTTL:        30 * time.Minute,
		SlidingTTL:         5 * time.Minute,
		EvictionPercentage: 10,
	}
}

// Validate checks the configuration values.
func (c Config) Validate() error {
	if c.Capacity <= 0 {
		return &ConfigError{Field: "Capacity", Message: "must be greater than 0"}
	}
	if c.NumShards <= 0 {
		return &ConfigError{Field: "NumShards", Message: "must be greater than 0"}
	}
	if c.AbsoluteTTL <= 0 {
		return &ConfigError{Field: "AbsoluteTTL", Message: "must be greater than 0"}
	}
	if c.SlidingTTL < 0 {
		return &ConfigError{Field: "SlidingTTL", Message: "must be non-negative"}
	}
	if c.SlidingTTL > c.AbsoluteTTL {
		return &ConfigError{Field: "SlidingTTL", Message: "must not exceed AbsoluteTTL"}
	}
	if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
		return &ConfigError{Field: "EvictionPercentage", Message: "must be between 1 and 100"}
	}
	return nil
}

// entryTTL is the backend-level lifetime for one entry: the sliding window
// when sliding is enabled, the absolute cap otherwise.
func (c Config) entryTTL() time.Duration {
	if c.SlidingTTL > 0 {
		return c.SlidingTTL
	}
	return c.AbsoluteTTL
}

// ConfigError reports an invalid configuration field.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "cache config error in field " + e.Field + ": " + e.Message
}
