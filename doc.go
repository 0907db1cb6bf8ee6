// Package cachekit provides a thread-safe, bounded, TTL-aware LRU cache.
// It offers a generic, in-process cache suitable for web applications,
// data processing pipelines, and microservices.
//
// # Features
//
//   - Thread-safe operations with a lock-free lookup path
//   - Generic type parameters for compile-time type safety
//   - LRU (Least Recently Used) eviction with a hard capacity bound
//   - Per-entry TTL with lazy expiration on access
//   - Background reaper that reclaims expired entries nobody reads
//   - Hit/miss/eviction/expiration statistics
//   - Optional eviction callbacks for resource cleanup
//   - Cache stampede suppression via Load
//
// # Usage
//
// Create a cache with a capacity and use Put/Get/Remove:
//
//	import "github.com/dmitrymomot/cachekit"
//
//	c, err := cachekit.New[string, *User](1000)
//	if err != nil {
//		return err
//	}
//	defer c.Close()
//
//	// Store values; the third argument is the per-entry TTL
//	// (0 means the configured default policy, never by default).
//	_ = c.Put("user:123", &User{ID: 123, Name: "John"}, 5*time.Minute)
//
//	// Retrieve values (marks the entry as most recently used)
//	if user, found := c.Get("user:123"); found {
//		fmt.Printf("Found user: %s\n", user.Name)
//	}
//
//	// Remove values
//	if user, found := c.Remove("user:123"); found {
//		fmt.Printf("Removed user: %s\n", user.Name)
//	}
//
// # Expiration
//
// Every entry may carry an absolute deadline. An entry past its deadline is
// never returned by Get, even if the background reaper has not swept it yet;
// Get removes it on access and counts a miss plus an expiration. The reaper
// runs on a fixed interval (configurable via WithReaperInterval, 60s by
// default) and removes expired entries independent of access patterns, so
// memory used by keys nobody reads again is still reclaimed. Close stops
// the reaper; the cache itself keeps working afterward.
//
// # Eviction
//
// When a Put would exceed capacity, the least recently used entries are
// removed synchronously before Put returns, so the size bound holds at the
// end of every call. Use SetEvictCallback to clean up resources held by
// evicted or expired values:
//
//	connCache, _ := cachekit.New[string, *Connection](50)
//	connCache.SetEvictCallback(func(key string, conn *Connection) {
//		conn.Close()
//	})
//
// # Get-or-Fetch
//
// Load backfills a missing key with a single flight of the fetch function,
// no matter how many goroutines ask for it concurrently:
//
//	user, err := c.Load("user:123", time.Minute, func() (*User, error) {
//		return fetchUserFromDB(123)
//	})
//
// # Configuration
//
// Construction parameters can come from functional options or from the
// environment (CACHE_CAPACITY, CACHE_REAPER_INTERVAL, CACHE_DEFAULT_TTL):
//
//	cfg, err := cachekit.LoadConfig()
//	if err != nil {
//		return err
//	}
//	c, err := cachekit.NewFromConfig[string, []byte](cfg)
//
// # Concurrency
//
// All operations are safe for concurrent use without external locking.
// Value lookups go through a lock-free index and never contend with reads
// of unrelated keys; only recency reordering and structural changes enter
// the cache's single exclusive section. Under contention the LRU order of
// two concurrent hits is best effort, but eviction always removes the
// entry at the tail of the recency order.
//
// # Performance Characteristics
//
//   - Get: O(1), lock-free lookup plus a short exclusive reorder
//   - Put: O(1) amortized, plus O(1) per evicted entry
//   - Remove: O(1)
//   - Memory: O(capacity)
package cachekit
