package cache

import (
	"context"

	"github.com/vmihailenco/msgpack/v5"
)

// CacheService is the cache boundary the data service composes against:
// get-if-present, set with the deployment's expiration policy, and
// remove-by-key. No wildcard removal is assumed; invalidation tracks exact
// keys through a Keyring.
type CacheService interface {
	Get(ctx context.Context, key string) (any, bool)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
}

// Value coerces a cached entry into T. In-process backends hand back live
// values, remote backends hand back msgpack payloads; both paths land here.
func Value[T any](v any) (T, bool) {
	if t, ok := v.(T); ok {
		return t, true
	}
	if raw, ok := v.([]byte); ok {
		var t T
		if err := msgpack.Unmarshal(raw, &t); err == nil {
			return t, true
		}
	}
	var zero T
	return zero, false
}

// Get is the typed read-side helper over a CacheService.
func Get[T any](ctx context.Context, svc CacheService, key string) (T, bool) {
	v, ok := svc.Get(ctx, key)
	if !ok {
		var zero T
		return zero, false
	}
	return Value[T](v)
}
