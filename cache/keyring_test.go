package cache

import (
	"context"
	"testing"
	"time"
)

func testCache(t *testing.T) CacheService {
	t.Helper()
	cfg := DefaultConfig()
	cfg.AbsoluteTTL = time.Minute
	cfg.SlidingTTL = 0
	svc, err := NewInProcessService(cfg)
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	return svc
}

func TestKeyringInvalidatePrefix(t *testing.T) {
	ctx := context.Background()
	svc := testCache(t)
	ring := NewKeyring()

	keys := []string{
		"persona::all::anon",
		"persona::paged::anon::1",
		"encounter::all::anon",
	}
	for _, key := range keys {
		if err := svc.Set(ctx, key, "value"); err != nil {
			t.Fatalf("set %s: %v", key, err)
		}
		ring.Track(key)
	}

	if err := ring.InvalidatePrefix(ctx, svc, "persona::all"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if _, ok := svc.Get(ctx, "persona::all::anon"); ok {
		t.Error("prefixed key should be gone")
	}
	if _, ok := svc.Get(ctx, "persona::paged::anon::1"); !ok {
		t.Error("non-matching key should survive")
	}
	if _, ok := svc.Get(ctx, "encounter::all::anon"); !ok {
		t.Error("other namespace should survive")
	}
	if ring.Len() != 2 {
		t.Errorf("ring.Len() = %d, want 2", ring.Len())
	}
}

func TestKeyringTrackIsIdempotent(t *testing.T) {
	ring := NewKeyring()
	ring.Track("persona::all::anon")
	ring.Track("persona::all::anon")
	if ring.Len() != 1 {
		t.Errorf("ring.Len() = %d, want 1", ring.Len())
	}
}
