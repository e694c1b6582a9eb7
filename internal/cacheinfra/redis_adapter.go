package cacheinfra

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

// envelope is the wire form of a redis cache entry. The payload stays
// msgpack-encoded until a typed caller decodes it; the deadline carries the
// absolute cap since redis EXPIRE only models the sliding window.
type envelope struct {
	Deadline int64  `msgpack:"d"`
	Payload  []byte `msgpack:"p"`
}

// EncodeEnvelope packs a value and its absolute deadline for storage.
func EncodeEnvelope(value any, deadline time.Time) ([]byte, error) {
	payload, err := msgpack.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode cache value: %w", err)
	}
	data, err := msgpack.Marshal(envelope{Deadline: deadline.UnixNano(), Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("encode cache envelope: %w", err)
	}
	return data, nil
}

// DecodeEnvelope unpacks a stored entry, returning the raw payload and its
// absolute deadline.
func DecodeEnvelope(data []byte) ([]byte, time.Time, error) {
	var env envelope
	if err := msgpack.Unmarshal(data, &env); err != nil {
		return nil, time.Time{}, fmt.Errorf("decode cache envelope: %w", err)
	}
	return env.Payload, time.Unix(0, env.Deadline), nil
}

type redisService struct {
	client *redis.Client
	cfg    Config
	now    func() time.Time
}

// NewRedisService creates a shared cache backend over the given client.
// Capacity and shard settings do not apply; redis manages its own memory.
func NewRedisService(client *redis.Client, cfg Config) (*redisService, error) {
	if cfg.AbsoluteTTL <= 0 {
		return nil, &ConfigError{Field: "AbsoluteTTL", Message: "must be greater than 0"}
	}
	if cfg.SlidingTTL < 0 || cfg.SlidingTTL > cfg.AbsoluteTTL {
		return nil, &ConfigError{Field: "SlidingTTL", Message: "must be within [0, AbsoluteTTL]"}
	}
	return &redisService{client: client, cfg: cfg, now: time.Now}, nil
}

// Get returns the raw msgpack payload for the key when present and within its
// absolute deadline, extending the sliding window on the way out.
func (s *redisService) Get(ctx context.Context, key string) (any, bool) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	payload, deadline, err := DecodeEnvelope(data)
	if err != nil || s.now().After(deadline) {
		s.client.Del(ctx, key)
		return nil, false
	}
	if s.cfg.SlidingTTL > 0 {
		s.client.Expire(ctx, key, s.cfg.SlidingTTL)
	}
	return payload, true
}

// Set stores the value under the sliding window, embedding the absolute cap.
func (s *redisService) Set(ctx context.Context, key string, value any) error {
	data, err := EncodeEnvelope(value, s.now().Add(s.cfg.AbsoluteTTL))
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, s.cfg.entryTTL()).Err()
}

// Delete removes the key. A missing key is not an error.
func (s *redisService) Delete(ctx context.Context, key string) error {
	err := s.client.Del(ctx, key).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}
