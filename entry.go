package cachekit

import (
	"time"

	"github.com/dmitrymomot/cachekit/internal/recency"
)

// entry is a single cached value. The key, value, and timing fields are
// immutable after the entry is published to the index, so lock-free readers
// never observe a half-updated pair; replacing a key's value always installs
// a fresh entry. The handle and dead fields belong to the recency list side
// and are guarded by the cache mutex.
type entry[K comparable, V any] struct {
	key       K
	value     V
	createdAt time.Time
	expiresAt int64 // UnixNano deadline; 0 means the entry never expires

	// Guarded by Cache.mu.
	handle recency.Handle
	dead   bool
}

// expiredAt reports whether the entry's deadline has passed at the given
// UnixNano instant.
func (e *entry[K, V]) expiredAt(now int64) bool {
	return e.expiresAt != 0 && now >= e.expiresAt
}
