package cache

import (
	"context"
	"strings"

	"github.com/puzpuzpuz/xsync/v3"
)

// Keyring tracks the exact cache keys a component has set so they can be
// invalidated later. The cache boundary offers no enumeration or wildcard
// removal, so this registry is the only source of truth for group
// invalidation.
type Keyring struct {
	keys *xsync.MapOf[string, struct{}]
}

// NewKeyring returns an empty registry.
func NewKeyring() *Keyring {
	return &Keyring{keys: xsync.NewMapOf[string, struct{}]()}
}

// Track registers a key that was (or is about to be) set.
func (r *Keyring) Track(key string) {
	r.keys.Store(key, struct{}{})
}

// InvalidatePrefix deletes every tracked key with the given prefix from the
// cache and forgets it. Individual delete failures do not stop the sweep; the
// last failure is reported.
func (r *Keyring) InvalidatePrefix(ctx context.Context, svc CacheService, prefix string) error {
	var toDelete []string
	r.keys.Range(func(key string, _ struct{}) bool {
		if strings.HasPrefix(key, prefix) {
			toDelete = append(toDelete, key)
		}
		return true
	})

	var lastErr error
	for _, key := range toDelete {
		if err := svc.Delete(ctx, key); err != nil {
			lastErr = err
		}
		r.keys.Delete(key)
	}
	return lastErr
}

// Len reports how many keys are currently tracked.
func (r *Keyring) Len() int {
	return r.keys.Size()
}
