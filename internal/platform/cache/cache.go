// Package cache provides bounded in-memory read caches that are kept fresh by
// listening to the event bus instead of being invalidated by hand.
package cache

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/casira/connect/internal/platform/eventbus"
	"github.com/casira/connect/internal/platform/events"
	"github.com/casira/connect/internal/platform/logger"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache is a named LRU cache keyed by string.
type Cache[V any] struct {
	name   string
	lru    *lru.Cache[string, V]
	logger logger.Logger

	hits   atomic.Uint64
	misses atomic.Uint64

	// fillMu orders GetOrLoad stores against invalidations; generation
	// changes on every Remove, RemovePattern and Purge.
	fillMu     sync.Mutex
	generation uint64
}

// Stats reports cache usage counters.
type Stats struct {
	Name   string `json:"name"`
	Size   int    `json:"size"`
	Hits   uint64 `json:"hits"`
	Misses uint64 `json:"misses"`
}

// New creates a cache holding at most size entries.
func New[V any](name string, size int, log logger.Logger) (*Cache[V], error) {
	l, err := lru.New[string, V](size)
	if err != nil {
		return nil, fmt.Errorf("cache %s: %w", name, err)
	}
	return &Cache[V]{name: name, lru: l, logger: log}, nil
}

// Get returns the cached value for key.
func (c *Cache[V]) Get(key string) (V, bool) {
	v, ok := c.lru.Get(key)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return v, ok
}

// Add stores value under key, evicting the least recently used entry if full.
func (c *Cache[V]) Add(key string, value V) {
	c.lru.Add(key, value)
}

// GetOrLoad returns the cached value for key or calls load on a miss. The
// loaded value is stored only if no invalidation ran while load was in
// flight, so a read that raced a write never re-caches the old value.
func (c *Cache[V]) GetOrLoad(key string, load func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	c.fillMu.Lock()
	started := c.generation
	c.fillMu.Unlock()

	v, err := load()
	if err != nil {
		return v, err
	}

	c.fillMu.Lock()
	if c.generation == started {
		c.lru.Add(key, v)
	}
	c.fillMu.Unlock()
	return v, nil
}

// invalidate runs drop with concurrent GetOrLoad stores held off.
func (c *Cache[V]) invalidate(drop func()) {
	c.fillMu.Lock()
	defer c.fillMu.Unlock()
	c.generation++
	drop()
}

// Remove drops key and reports whether it was present.
func (c *Cache[V]) Remove(key string) bool {
	var removed bool
	c.invalidate(func() { removed = c.lru.Remove(key) })
	return removed
}

// RemovePattern drops every key matched by pattern ("*" is a wildcard,
// matching is unanchored) and returns how many were removed.
func (c *Cache[V]) RemovePattern(pattern string) int {
	removed := 0
	c.invalidate(func() {
		for _, key := range c.lru.Keys() {
			if eventbus.MatchPattern(pattern, key) && c.lru.Remove(key) {
				removed++
			}
		}
	})
	return removed
}

// Purge empties the cache.
func (c *Cache[V]) Purge() {
	c.invalidate(c.lru.Purge)
}

// Len returns the number of cached entries.
func (c *Cache[V]) Len() int {
	return c.lru.Len()
}

// Stats returns the current counters.
func (c *Cache[V]) Stats() Stats {
	return Stats{
		Name:   c.name,
		Size:   c.lru.Len(),
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
	}
}

// KeyFunc picks the key an event invalidates. Returning false purges the
// whole cache.
type KeyFunc func(event eventbus.Event) (string, bool)

// InvalidateOn drops the entry named by keyFor whenever a topic matching
// topicPattern is emitted.
func (c *Cache[V]) InvalidateOn(bus *eventbus.Bus, topicPattern string, keyFor KeyFunc) eventbus.Unsubscribe {
	return bus.OnPattern(topicPattern, func(ctx context.Context, event eventbus.Event) error {
		key, ok := keyFor(event)
		if !ok {
			c.Purge()
			c.logger.Debug(ctx, "cache purged", "cache", c.name, "topic", event.Topic)
			return nil
		}
		if c.Remove(key) {
			c.logger.Debug(ctx, "cache entry invalidated", "cache", c.name, "key", key, "topic", event.Topic)
		}
		return nil
	})
}

// ListenForInvalidation subscribes the cache to explicit cache.invalidate
// requests. An event without a pattern purges everything.
func (c *Cache[V]) ListenForInvalidation(bus *eventbus.Bus) eventbus.Unsubscribe {
	return bus.On(events.CacheInvalidateTopic, func(ctx context.Context, event eventbus.Event) error {
		payload, _ := event.Payload.(events.CacheInvalidateEvent)
		if payload.Pattern == "" {
			c.Purge()
			c.logger.Info(ctx, "cache cleared on request", "cache", c.name, "source", event.Source)
			return nil
		}
		removed := c.RemovePattern(payload.Pattern)
		c.logger.Info(ctx, "cache entries invalidated on request",
			"cache", c.name,
			"pattern", payload.Pattern,
			"removed", removed,
		)
		return nil
	}, eventbus.WithReceiver(c))
}
