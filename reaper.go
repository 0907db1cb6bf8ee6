package cachekit

import (
	"context"
	"log/slog"
	"time"
)

// reapLoop periodically sweeps expired entries until the context is
// cancelled. It exists alongside the lazy expiration check in Get so that
// memory held by entries nobody reads again is still reclaimed.
func (c *Cache[K, V]) reapLoop(ctx context.Context) {
	defer c.wg.Done()

	c.logger.InfoContext(ctx, "cache reaper started",
		slog.Duration("interval", c.reaperInterval))

	ticker := time.NewTicker(c.reaperInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.logger.InfoContext(context.Background(), "cache reaper stopped")
			return
		case <-ticker.C:
			c.sweep(ctx)
		}
	}
}

// sweep removes every entry whose deadline has passed. A failure is logged
// and counted; the next scheduled sweep still runs, and callers of
// Get/Put never see it.
func (c *Cache[K, V]) sweep(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			c.sweepFailures.Add(1)
			c.logger.ErrorContext(ctx, "cache sweep failed",
				slog.Any("panic", r))
		}
	}()

	now := time.Now().UnixNano()

	// Collect candidates lock-free, then detach each one under the mutex
	// with re-validation, so the sweep never holds the lock across the
	// whole scan.
	var candidates []*entry[K, V]
	c.index.Range(func(_ K, e *entry[K, V]) bool {
		if e.expiredAt(now) {
			candidates = append(candidates, e)
		}
		return true
	})
	if len(candidates) == 0 {
		return
	}

	removed := 0
	for _, e := range candidates {
		if c.detach(e) {
			c.expirations.Add(1)
			c.fireEvict(e)
			removed++
		}
	}

	if removed > 0 {
		c.logger.DebugContext(ctx, "cache sweep removed expired entries",
			slog.Int("removed", removed))
	}
}
