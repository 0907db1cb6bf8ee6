package cachekit_test

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_ConcurrentInsertBound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping race condition test in short mode")
	}

	t.Parallel()

	const (
		capacity   = 128
		goroutines = 8
	)

	c := newCache[string, int](t, capacity)

	var wg sync.WaitGroup
	wg.Add(goroutines)

	// Each goroutine inserts 2x capacity unique keys.
	for g := 0; g < goroutines; g++ {
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 2*capacity; i++ {
				key := fmt.Sprintf("g%d-k%d", g, i)
				if err := c.Put(key, i, 0); err != nil {
					t.Error(err)
					return
				}
			}
		}(g)
	}
	wg.Wait()

	assert.Equal(t, capacity, c.Len(),
		"capacity must hold exactly once the churn settles")

	// Every surviving key must still be readable, and the recency order
	// must contain no duplicates.
	keys := c.Keys()
	require.Len(t, keys, capacity)
	seen := make(map[string]bool, capacity)
	for _, k := range keys {
		assert.False(t, seen[k], "key %s listed twice", k)
		seen[k] = true
	}

	stats := c.Stats()
	assert.Equal(t, int64(goroutines*2*capacity-capacity), stats.Evictions)
}

func TestCache_ConcurrentMixedOperations(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping race condition test in short mode")
	}

	t.Parallel()

	const (
		capacity   = 64
		goroutines = 16
		iterations = 500
	)

	c := newCache[int, int](t, capacity)

	var wg sync.WaitGroup
	wg.Add(goroutines)

	var gets atomic.Int64

	for g := 0; g < goroutines; g++ {
		go func(g int) {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				key := i%100 + 1
				switch (g + i) % 4 {
				case 0, 1:
					if v, ok := c.Get(key); ok {
						// A hit on key k always observes the value
						// written for k.
						assert.Equal(t, key, v)
					}
					gets.Add(1)
				case 2:
					_ = c.Put(key, key, 0)
				case 3:
					c.Remove(key)
				}
			}
		}(g)
	}
	wg.Wait()

	stats := c.Stats()
	assert.Equal(t, gets.Load(), stats.Hits+stats.Misses,
		"every get is either a hit or a miss")
	assert.LessOrEqual(t, stats.Size, capacity)
	assert.Equal(t, c.Len(), stats.Size)
}

func TestCache_ConcurrentReadersObserveConsistentValues(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping race condition test in short mode")
	}

	t.Parallel()

	const readers = 8

	c := newCache[string, int](t, 16)
	require.NoError(t, c.Put("k", 1, 0))

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(readers + 1)

	// One writer replaces the value in a tight loop.
	go func() {
		defer wg.Done()
		for i := 2; ; i++ {
			select {
			case <-done:
				return
			default:
				_ = c.Put("k", i, 0)
			}
		}
	}()

	// Readers must always see some complete value, never a zero from a
	// half-published entry.
	for r := 0; r < readers; r++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
					if v, ok := c.Get("k"); ok {
						assert.Positive(t, v)
					}
				}
			}
		}()
	}

	time.Sleep(100 * time.Millisecond)
	close(done)
	wg.Wait()
}

func TestCache_ConcurrentExpirationCountsOnce(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping race condition test in short mode")
	}

	t.Parallel()

	const goroutines = 16

	c := newCache[string, int](t, 16)
	require.NoError(t, c.Put("k", 1, 5*time.Millisecond))

	time.Sleep(15 * time.Millisecond)

	// Many goroutines race on the same expired entry; exactly one of them
	// performs the removal.
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func() {
			defer wg.Done()
			_, ok := c.Get("k")
			assert.False(t, ok)
		}()
	}
	wg.Wait()

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Expirations)
	assert.Equal(t, int64(goroutines), stats.Misses)
}
