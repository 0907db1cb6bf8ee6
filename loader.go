package cachekit

import (
	"fmt"
	"time"
)

// Load returns the cached value for key. On a miss it calls fetch, stores
// the result with the given ttl, and returns it. Concurrent Load calls for
// the same key execute fetch only once (cache stampede suppression); the
// other callers receive the winner's result. If fetch returns an error, the
// value is not cached and the error is returned to every waiting caller.
func (c *Cache[K, V]) Load(key K, ttl time.Duration, fetch func() (V, error)) (V, error) {
	if value, ok := c.Get(key); ok {
		return value, nil
	}

	value, err, _ := c.group.Do(fmt.Sprint(key), func() (any, error) {
		// Re-check: another flight may have populated the key while this
		// caller was waiting to enter the group.
		if value, ok := c.Get(key); ok {
			return value, nil
		}
		value, err := fetch()
		if err != nil {
			return nil, err
		}
		if err := c.Put(key, value, ttl); err != nil {
			return nil, err
		}
		return value, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return value.(V), nil
}
