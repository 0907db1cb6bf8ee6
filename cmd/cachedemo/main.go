// Command cachedemo exercises the cache against a session-store workload:
// LRU eviction under capacity pressure, per-entry TTL, the background
// reaper, and the statistics snapshot.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/cachekit"
)

type session struct {
	UserID    uuid.UUID
	CreatedAt time.Time
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	cfg, err := cachekit.LoadConfig()
	if err != nil {
		log.Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	// Keep the demo snappy regardless of environment defaults.
	if cfg.Capacity > 3 {
		cfg.Capacity = 3
	}
	if cfg.ReaperInterval > 200*time.Millisecond {
		cfg.ReaperInterval = 200 * time.Millisecond
	}

	sessions, err := cachekit.NewFromConfig[string, session](cfg,
		cachekit.WithLogger(log))
	if err != nil {
		log.Error("create cache", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := sessions.Close(); err != nil {
			log.Error("close cache", slog.Any("error", err))
		}
	}()

	sessions.SetEvictCallback(func(token string, s session) {
		log.Info("session dropped",
			slog.String("token", token),
			slog.String("user_id", s.UserID.String()))
	})

	log.Info("cachedemo starting",
		slog.Int("capacity", cfg.Capacity),
		slog.Duration("reaper_interval", cfg.ReaperInterval))

	// Fill the cache to capacity with long-lived sessions.
	tokens := make([]string, 0, cfg.Capacity)
	for i := 0; i < cfg.Capacity; i++ {
		token := uuid.NewString()
		tokens = append(tokens, token)
		if err := sessions.Put(token, session{
			UserID:    uuid.New(),
			CreatedAt: time.Now(),
		}, time.Hour); err != nil {
			log.Error("put session", slog.Any("error", err))
			os.Exit(1)
		}
	}

	// Touch the oldest session so the next insert evicts a different one.
	if _, ok := sessions.Get(tokens[0]); ok {
		log.Info("touched oldest session", slog.String("token", tokens[0]))
	}
	if err := sessions.Put(uuid.NewString(), session{
		UserID:    uuid.New(),
		CreatedAt: time.Now(),
	}, time.Hour); err != nil {
		log.Error("put session", slog.Any("error", err))
		os.Exit(1)
	}
	log.Info("tokens after eviction (MRU first)",
		slog.Any("tokens", sessions.Keys()))

	// A short-lived session that nobody reads again; the reaper reclaims it.
	if err := sessions.Put(uuid.NewString(), session{
		UserID:    uuid.New(),
		CreatedAt: time.Now(),
	}, 300*time.Millisecond); err != nil {
		log.Error("put session", slog.Any("error", err))
		os.Exit(1)
	}

	select {
	case <-time.After(2 * cfg.ReaperInterval + 500*time.Millisecond):
	case <-ctx.Done():
		log.Info("interrupted")
	}

	stats := sessions.Stats()
	log.Info("final stats",
		slog.Int("size", stats.Size),
		slog.Int("capacity", stats.Capacity),
		slog.Int64("hits", stats.Hits),
		slog.Int64("misses", stats.Misses),
		slog.Int64("evictions", stats.Evictions),
		slog.Int64("expirations", stats.Expirations),
		slog.Float64("hit_rate", stats.HitRate))
}
