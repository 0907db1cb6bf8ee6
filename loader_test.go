package cachekit_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FetchesOnceAndCaches(t *testing.T) {
	t.Parallel()

	c := newCache[string, string](t, 10)

	var calls atomic.Int64
	fetch := func() (string, error) {
		calls.Add(1)
		return "value", nil
	}

	v, err := c.Load("k", 0, fetch)
	require.NoError(t, err)
	assert.Equal(t, "value", v)

	v, err = c.Load("k", 0, fetch)
	require.NoError(t, err)
	assert.Equal(t, "value", v)

	assert.Equal(t, int64(1), calls.Load(), "second Load must hit the cache")
}

func TestLoad_ErrorsAreNotCached(t *testing.T) {
	t.Parallel()

	c := newCache[string, string](t, 10)

	sentinel := errors.New("upstream down")
	var calls atomic.Int64

	_, err := c.Load("k", 0, func() (string, error) {
		calls.Add(1)
		return "", sentinel
	})
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 0, c.Len())

	// A later Load retries the fetch.
	v, err := c.Load("k", 0, func() (string, error) {
		calls.Add(1)
		return "recovered", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "recovered", v)
	assert.Equal(t, int64(2), calls.Load())
}

func TestLoad_SuppressesStampede(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping race condition test in short mode")
	}

	t.Parallel()

	const goroutines = 32

	c := newCache[string, int](t, 10)

	var calls atomic.Int64
	release := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(goroutines)

	for g := 0; g < goroutines; g++ {
		go func() {
			defer wg.Done()
			v, err := c.Load("hot", 0, func() (int, error) {
				calls.Add(1)
				<-release // Hold the flight open so the others pile up.
				return 42, nil
			})
			assert.NoError(t, err)
			assert.Equal(t, 42, v)
		}()
	}

	// Give the goroutines time to reach the flight, then let it finish.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int64(1), calls.Load(),
		"concurrent loads of one key must share a single fetch")
}

func TestLoad_RespectsTTL(t *testing.T) {
	t.Parallel()

	c := newCache[string, int](t, 10)

	var calls atomic.Int64
	fetch := func() (int, error) {
		return int(calls.Add(1)), nil
	}

	v, err := c.Load("k", 10*time.Millisecond, fetch)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	time.Sleep(20 * time.Millisecond)

	v, err = c.Load("k", 10*time.Millisecond, fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, v, "expired value must be refetched")
}

func TestLoad_InvalidKeySurfacesError(t *testing.T) {
	t.Parallel()

	c := newCache[string, int](t, 10)

	_, err := c.Load("", 0, func() (int, error) { return 1, nil })
	assert.Error(t, err)
}
