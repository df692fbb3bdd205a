// Package cache provides a read-through TTL cache for slow reference
// data (the meeting sheet and the roster).
//
// Values are replaced wholesale on refresh, never mutated in place, so
// concurrent readers always see a complete snapshot.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/salesdeck/pulse/pkg/metrics"
)

// DefaultTTL bounds staleness of cached reference data.
const DefaultTTL = 5 * time.Minute

// Loader produces a fresh value on cache miss.
type Loader[T any] func(ctx context.Context) (T, error)

// ReadThrough caches a single value with get-or-refresh semantics.
type ReadThrough[T any] struct {
	inner *ttlcache.Cache[string, T]
	ttl   time.Duration
	load  Loader[T]

	// refreshMu collapses concurrent misses into one load.
	refreshMu sync.Mutex
}

const singletonKey = "value"

// NewReadThrough creates a cache around load. A non-positive ttl falls
// back to DefaultTTL.
func NewReadThrough[T any](ttl time.Duration, load Loader[T]) *ReadThrough[T] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	inner := ttlcache.New[string, T](
		ttlcache.WithTTL[string, T](ttl),
		ttlcache.WithDisableTouchOnHit[string, T](),
	)
	return &ReadThrough[T]{
		inner: inner,
		ttl:   ttl,
		load:  load,
	}
}

// Get returns the cached value, refreshing it via the loader when
// missing or expired. A failed refresh leaves the cache empty and
// returns the loader's error.
func (c *ReadThrough[T]) Get(ctx context.Context) (T, error) {
	if item := c.inner.Get(singletonKey); item != nil {
		metrics.RecordCacheHit()
		return item.Value(), nil
	}

	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	// A concurrent caller may have refreshed while we waited.
	if item := c.inner.Get(singletonKey); item != nil {
		metrics.RecordCacheHit()
		return item.Value(), nil
	}

	value, err := c.load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	c.inner.Set(singletonKey, value, c.ttl)
	metrics.RecordCacheRefresh()
	return value, nil
}

// Invalidate drops the cached value, forcing a reload on the next Get.
func (c *ReadThrough[T]) Invalidate() {
	c.inner.Delete(singletonKey)
}
