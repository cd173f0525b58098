package cache

import (
	"context"
	"sort"
	"sync"
	"time"

	"market-sentiment/internal/metrics"
)

// Cache is a string-keyed store whose entries expire after a fixed TTL.
type Cache[V any] struct {
	name string
	ttl  time.Duration
	now  func() time.Time

	mu     sync.RWMutex
	data   map[string]entry[V]
	hits   int64
	misses int64
}

type entry[V any] struct {
	value  V
	stored time.Time
}

// Stats is a point-in-time view of a cache.
type Stats struct {
	Name    string        `json:"name"`
	Entries int           `json:"entries"`
	Hits    int64         `json:"hits"`
	Misses  int64         `json:"misses"`
	TTL     time.Duration `json:"ttl"`
}

func New[V any](name string, ttl time.Duration) *Cache[V] {
	return NewWithClock[V](name, ttl, time.Now)
}

func NewWithClock[V any](name string, ttl time.Duration, now func() time.Time) *Cache[V] {
	return &Cache[V]{
		name: name,
		ttl:  ttl,
		now:  now,
		data: make(map[string]entry[V]),
	}
}

// Get returns the value for key if it has not expired.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.data[key]
	if !ok || c.expired(e) {
		c.misses++
		metrics.CacheLookups.WithLabelValues(c.name, "miss").Inc()
		var zero V
		return zero, false
	}
	c.hits++
	metrics.CacheLookups.WithLabelValues(c.name, "hit").Inc()
	return e.value, true
}

func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = entry[V]{value: value, stored: c.now()}
}

func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
}

func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]entry[V])
}

// Keys lists the unexpired keys in sorted order.
func (c *Cache[V]) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.data))
	for k, e := range c.data {
		if !c.expired(e) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func (c *Cache[V]) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{
		Name:    c.name,
		Entries: len(c.data),
		Hits:    c.hits,
		Misses:  c.misses,
		TTL:     c.ttl,
	}
}

// Cleanup drops expired entries and reports how many were removed.
func (c *Cache[V]) Cleanup() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for k, e := range c.data {
		if c.expired(e) {
			delete(c.data, k)
			removed++
		}
	}
	return removed
}

// RunCleanup calls Cleanup every interval until ctx is done.
func (c *Cache[V]) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Cleanup()
		}
	}
}

func (c *Cache[V]) expired(e entry[V]) bool {
	return c.now().Sub(e.stored) > c.ttl
}
