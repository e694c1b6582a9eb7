// Package cache defines the caching boundary for the data-service framework.
//
// The surface is small: CacheService exposes get-if-present,
// set, and remove-by-key; KeySerializer turns (namespace, method, args) into
// deterministic keys; Keyring records exactly which keys were set so writes
// can invalidate listings without assuming wildcard removal support in the
// backend.
//
// Two backends live in internal/cacheinfra: an in-process sturdyc adapter and
// a redis adapter for deployments that share a cache across processes. Both
// honor the same expiration policy, an absolute lifetime cap combined with a
// sliding idle window that reads extend.
package cache
