package cachekit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
	"golang.org/x/sync/singleflight"

	"github.com/dmitrymomot/cachekit/internal/recency"
)

// Cache is a concurrency-safe, bounded, TTL-aware LRU cache.
//
// Lookups go through a lock-free index, so Get calls on unrelated keys never
// contend with each other. A single mutex serializes every change to the
// recency ordering (inserts, reorders, removals, evictions); the index is
// only mutated while that mutex is held, which keeps the two structures
// consistent without a second lock.
//
// Ownership model: Cache owns entry lifetime end to end and owns its
// background reaper goroutine. Call Close to stop the reaper.
type Cache[K comparable, V any] struct {
	capacity int

	index *xsync.MapOf[K, *entry[K, V]]

	// mu guards order, every entry's handle/dead fields, and all index
	// mutations. Index loads are lock-free.
	mu    sync.Mutex
	order *recency.List[K]

	// onEvict, when set, runs outside mu after an entry is evicted or
	// expired (not after Remove or Clear).
	onEvict func(K, V)

	defaultTTL time.Duration
	logger     *slog.Logger

	hits, misses, evictions, expirations, sweepFailures atomic.Int64

	// Reaper lifecycle.
	reaperInterval time.Duration
	cancel         context.CancelFunc
	wg             sync.WaitGroup
	closeOnce      sync.Once

	group singleflight.Group
}

// New creates a cache that holds at most capacity entries and starts the
// background expiration reaper (unless disabled via WithReaperInterval).
func New[K comparable, V any](capacity int, opts ...Option) (*Cache[K, V], error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}

	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}

	c := &Cache[K, V]{
		capacity:       capacity,
		index:          xsync.NewMapOf[K, *entry[K, V]](),
		order:          recency.New[K](capacity),
		defaultTTL:     s.defaultTTL,
		logger:         s.logger,
		reaperInterval: s.reaperInterval,
	}

	if c.reaperInterval > 0 {
		ctx, cancel := context.WithCancel(context.Background())
		c.cancel = cancel
		c.wg.Add(1)
		go c.reapLoop(ctx)
	}

	return c, nil
}

// NewFromConfig creates a cache from an environment-derived Config.
// Explicit options take precedence over Config fields.
func NewFromConfig[K comparable, V any](cfg Config, opts ...Option) (*Cache[K, V], error) {
	base := []Option{
		WithReaperInterval(cfg.ReaperInterval),
		WithDefaultTTL(cfg.DefaultTTL),
	}
	return New[K, V](cfg.Capacity, append(base, opts...)...)
}

// Get returns the value stored for key and marks it as most recently used.
// Expired entries are treated as absent and removed on access, so a stale
// value is never returned even before the reaper's next sweep.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	var zero V

	e, ok := c.index.Load(key)
	if !ok {
		c.misses.Add(1)
		return zero, false
	}

	if e.expiredAt(time.Now().UnixNano()) {
		if c.detach(e) {
			c.expirations.Add(1)
			c.fireEvict(e)
		}
		c.misses.Add(1)
		return zero, false
	}

	// Optimistic read: the value was taken without the mutex. The reorder
	// needs the exclusive section, and the dead flag re-validates that a
	// concurrent writer has not detached the entry in between; if it has,
	// the hit still linearizes before that removal.
	c.mu.Lock()
	if !e.dead {
		c.order.MoveToFront(e.handle)
	}
	c.mu.Unlock()

	c.hits.Add(1)
	return e.value, true
}

// Put inserts or replaces the value for key. A ttl < 0 is rejected with
// ErrInvalidTTL; ttl == 0 falls back to the configured default TTL (no
// expiration unless WithDefaultTTL was set). The zero value of K is rejected
// with ErrInvalidKey. Capacity is enforced before Put returns: the least
// recently used entries are evicted until the cache fits.
func (c *Cache[K, V]) Put(key K, value V, ttl time.Duration) error {
	var zeroKey K
	if key == zeroKey {
		return ErrInvalidKey
	}
	if ttl < 0 {
		return fmt.Errorf("%w: got %s", ErrInvalidTTL, ttl)
	}
	if ttl == 0 {
		ttl = c.defaultTTL
	}

	now := time.Now()
	e := &entry[K, V]{
		key:       key,
		value:     value,
		createdAt: now,
	}
	if ttl > 0 {
		e.expiresAt = now.Add(ttl).UnixNano()
	}

	var evicted []*entry[K, V]

	c.mu.Lock()
	if old, ok := c.index.Load(key); ok && !old.dead {
		// Replace: detach the previous entry first. Counts as neither
		// hit nor miss.
		old.dead = true
		c.order.Remove(old.handle)
	}
	e.handle = c.order.PushFront(key)
	c.index.Store(key, e)

	for c.order.Len() > c.capacity {
		victimKey, ok := c.order.RemoveTail()
		if !ok {
			break
		}
		victim, ok := c.index.Load(victimKey)
		if !ok {
			continue
		}
		victim.dead = true
		c.index.Delete(victimKey)
		c.evictions.Add(1)
		evicted = append(evicted, victim)
	}
	cb := c.onEvict
	c.mu.Unlock()

	if cb != nil {
		for _, v := range evicted {
			cb(v.key, v.value)
		}
	}
	return nil
}

// Remove deletes key from the cache and returns the value it held.
// Removing an absent key is a no-op. Statistics are not affected, except
// that removing an entry whose deadline has already passed reports absent
// and counts as an expiration.
func (c *Cache[K, V]) Remove(key K) (V, bool) {
	var zero V

	e, ok := c.index.Load(key)
	if !ok {
		return zero, false
	}

	expired := e.expiredAt(time.Now().UnixNano())
	if !c.detach(e) {
		return zero, false
	}
	if expired {
		c.expirations.Add(1)
		return zero, false
	}
	return e.value, true
}

// Len returns the number of live entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Keys returns the live keys in most- to least-recently-used order.
func (c *Cache[K, V]) Keys() []K {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Keys()
}

// Clear removes every entry. Counters keep their values; eviction callbacks
// do not run.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.index.Range(func(key K, e *entry[K, V]) bool {
		e.dead = true
		c.index.Delete(key)
		return true
	})
	c.order.Reset()
}

// SetEvictCallback registers fn to run after an entry is removed by capacity
// eviction or expiration. fn is invoked outside the cache's internal lock,
// so it may call back into the cache. Pass nil to unregister.
func (c *Cache[K, V]) SetEvictCallback(fn func(key K, value V)) {
	c.mu.Lock()
	c.onEvict = fn
	c.mu.Unlock()
}

// Close stops the background reaper and waits for an in-flight sweep to
// finish. The cache remains usable afterward; only automatic expiration
// sweeps stop. Close is safe to call multiple times.
func (c *Cache[K, V]) Close() error {
	c.closeOnce.Do(func() {
		if c.cancel != nil {
			c.cancel()
			c.wg.Wait()
		}
	})
	return nil
}

// detach unlinks e from both the index and the recency list if it is still
// the live entry for its key. Reports whether this call performed the
// removal; exactly one caller wins when several race on the same entry.
func (c *Cache[K, V]) detach(e *entry[K, V]) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e.dead {
		return false
	}
	e.dead = true
	c.order.Remove(e.handle)
	c.index.Delete(e.key)
	return true
}

// fireEvict runs the eviction callback for e outside the mutex.
func (c *Cache[K, V]) fireEvict(e *entry[K, V]) {
	c.mu.Lock()
	cb := c.onEvict
	c.mu.Unlock()

	if cb != nil {
		cb(e.key, e.value)
	}
}
