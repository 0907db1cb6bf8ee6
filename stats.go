package cachekit

// Stats is a point-in-time snapshot of cache counters for observability
// and monitoring.
type Stats struct {
	Size          int     // Current number of live entries
	Capacity      int     // Configured maximum number of entries
	Hits          int64   // Get calls that returned a value
	Misses        int64   // Get calls that returned absent (including expired)
	Evictions     int64   // Entries removed by capacity pressure
	Expirations   int64   // Entries removed because their deadline passed
	SweepFailures int64   // Reaper sweeps that failed and were retried later
	HitRate       float64 // Hits / (Hits + Misses), 0 when there were no gets
}

// Stats returns current cache statistics. It is safe to call at any time.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	size := c.order.Len()
	c.mu.Unlock()

	hits := c.hits.Load()
	misses := c.misses.Load()

	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return Stats{
		Size:          size,
		Capacity:      c.capacity,
		Hits:          hits,
		Misses:        misses,
		Evictions:     c.evictions.Load(),
		Expirations:   c.expirations.Load(),
		SweepFailures: c.sweepFailures.Load(),
		HitRate:       hitRate,
	}
}
