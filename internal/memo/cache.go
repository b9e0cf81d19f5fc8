package memo

import (
	"context"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// keySeparator joins key parts without colliding with argument content.
const keySeparator = "\x1f"

// Key builds a normalized cache key from the parts of a tool invocation.
// Parts are trimmed; the caller is responsible for any case folding that is
// semantically safe for its arguments.
func Key(parts ...string) string {
	trimmed := make([]string, len(parts))
	for i, p := range parts {
		trimmed[i] = strings.TrimSpace(p)
	}
	return strings.Join(trimmed, keySeparator)
}

// FillFunc computes the full result for a key on cache miss.
type FillFunc[V any] func(ctx context.Context) (V, error)

// Cache is a bounded, LRU-evicting memo cache for one tool. It is safe for
// concurrent use; concurrent lookups for the same key are collapsed into a
// single in-flight execution.
type Cache[V any] struct {
	name  string
	lru   *lru.Cache[string, V]
	group singleflight.Group
}

// NewCache creates a cache holding at most size entries. A size below one is
// clamped to one.
func NewCache[V any](name string, size int) *Cache[V] {
	if size < 1 {
		size = 1
	}
	// lru.New only fails for a non-positive size, which is clamped above.
	inner, _ := lru.New[string, V](size)
	return &Cache[V]{name: name, lru: inner}
}

// Name returns the cache name used for registry and log attribution.
func (c *Cache[V]) Name() string {
	return c.name
}

// GetOrFill returns the cached value for key, computing and storing it via
// fill on first access. Errors from fill are returned to the caller and leave
// the cache unchanged.
func (c *Cache[V]) GetOrFill(ctx context.Context, key string, fill FillFunc[V]) (V, error) {
	if v, ok := c.lru.Get(key); ok {
		return v, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		// A racing caller may have populated the entry while this one was
		// waiting on the flight group.
		if v, ok := c.lru.Get(key); ok {
			return v, nil
		}

		v, err := fill(ctx)
		if err != nil {
			return nil, err
		}

		c.lru.Add(key, v)

		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}

	return v.(V), nil
}

// Get returns the cached value for key without computing anything.
func (c *Cache[V]) Get(key string) (V, bool) {
	return c.lru.Get(key)
}

// Len returns the current number of cached entries.
func (c *Cache[V]) Len() int {
	return c.lru.Len()
}

// Clear removes all entries unconditionally.
func (c *Cache[V]) Clear() {
	c.lru.Purge()
}

// Clearer returns the zero-argument clear operation for registry use.
func (c *Cache[V]) Clearer() Clearer {
	return c.Clear
}
