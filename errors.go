package cachekit

import "errors"

// Package-level error definitions for cache operations.
var (
	ErrInvalidCapacity = errors.New("cache capacity must be positive")
	ErrInvalidKey      = errors.New("cache key must not be the zero value")
	ErrInvalidTTL      = errors.New("cache ttl must not be negative")
)
