package cachekit

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds cache construction parameters loadable from the environment.
type Config struct {
	// Capacity is the maximum number of live entries.
	Capacity int `env:"CACHE_CAPACITY" envDefault:"1024"`

	// ReaperInterval is how often the background sweep removes expired
	// entries. Zero or negative disables the reaper; lazy expiration on
	// Get still applies.
	ReaperInterval time.Duration `env:"CACHE_REAPER_INTERVAL" envDefault:"60s"`

	// DefaultTTL is applied when Put is called with a zero ttl.
	// Zero means such entries never expire.
	DefaultTTL time.Duration `env:"CACHE_DEFAULT_TTL" envDefault:"0"`
}

// LoadConfig reads Config from environment variables, loading a .env file
// first when one is present.
func LoadConfig() (Config, error) {
	_ = godotenv.Load() // Missing .env file is not an error.

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse cache config: %w", err)
	}
	return cfg, nil
}

// settings collects the option-configurable parts of a Cache.
type settings struct {
	reaperInterval time.Duration
	defaultTTL     time.Duration
	logger         *slog.Logger
}

func defaultSettings() settings {
	return settings{
		reaperInterval: time.Minute,
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Option is a functional option for configuring the cache.
type Option func(*settings)

// WithReaperInterval sets how often the background sweep runs.
// Set to 0 to disable automatic expiration sweeps.
func WithReaperInterval(interval time.Duration) Option {
	return func(s *settings) {
		s.reaperInterval = interval
	}
}

// WithDefaultTTL sets the time-to-live applied when Put receives a zero ttl.
// Set to 0 (the default) to make such entries live until evicted.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(s *settings) {
		if ttl > 0 {
			s.defaultTTL = ttl
		}
	}
}

// WithLogger sets the logger for reaper lifecycle and sweep events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}
