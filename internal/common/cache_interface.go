package common

import "time"

// CacheInterface defines the contract for cache implementations.
// Values are stored JSON-encoded so the memory and Redis backends behave
// the same way for callers.
type CacheInterface interface {
	// Set stores a value in cache with the given key and duration
	Set(key string, value interface{}, duration time.Duration)

	// Get decodes the cached value for key into dest.
	// Returns false on a miss or when the stored value does not decode.
	Get(key string, dest interface{}) bool

	// Delete removes a value from cache by key
	Delete(key string)

	// Close closes any underlying connections (for Redis, etc.)
	Close() error
}

// GetOrLoad returns the cached value for key or calls loader and caches
// its result. Loader errors are returned and nothing is cached. The bool
// reports whether the value came from cache.
func GetOrLoad[T any](c CacheInterface, key string, duration time.Duration, loader func() (T, error)) (T, bool, error) {
	var cached T
	if c != nil && c.Get(key, &cached) {
		return cached, true, nil
	}

	val, err := loader()
	if err != nil {
		var zero T
		return zero, false, err
	}

	if c != nil && duration > 0 {
		c.Set(key, val, duration)
	}
	return val, false, nil
}
