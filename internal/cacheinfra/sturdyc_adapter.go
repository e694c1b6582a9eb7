package cacheinfra

import (
	"context"
	"time"

	"github.com/viccon/sturdyc"
)

// entry wraps a cached value with its absolute deadline. The sturdyc client's
// own TTL models the sliding window: every Set refreshes it, and reads re-set
// the entry to keep it alive until the deadline passes.
type entry struct {
	value    any
	deadline time.Time
}

type sturdycService struct {
	client *sturdyc.Client[entry]
	cfg    Config
	now    func() time.Time
}

// NewSturdycService creates the in-process cache backend.
func NewSturdycService(cfg Config) (*sturdycService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var options []sturdyc.Option
	if cfg.EvictionInterval > 0 {
		options = append(options, sturdyc.WithEvictionInterval(cfg.EvictionInterval))
	}

	client := sturdyc.New[entry](
		cfg.Capacity,
		cfg.NumShards,
		cfg.entryTTL(),
		cfg.EvictionPercentage,
		options...,
	)

	return &sturdycService{client: client, cfg: cfg, now: time.Now}, nil
}

// Get returns the cached value when present and not past its absolute
// deadline. A hit re-sets the entry, extending the sliding window.
func (s *sturdycService) Get(ctx context.Context, key string) (any, bool) {
	e, ok := s.client.Get(key)
	if !ok {
		return nil, false
	}
	if s.now().After(e.deadline) {
		s.client.Delete(key)
		return nil, false
	}
	if s.cfg.SlidingTTL > 0 {
		s.client.Set(key, e)
	}
	return e.value, true
}

// Set stores the value with a fresh absolute deadline.
func (s *sturdycService) Set(ctx context.Context, key string, value any) error {
	s.client.Set(key, entry{value: value, deadline: s.now().Add(s.cfg.AbsoluteTTL)})
	return nil
}

// Delete removes the entry so subsequent reads fetch fresh data.
func (s *sturdycService) Delete(ctx context.Context, key string) error {
	s.client.Delete(key)
	return nil
}
