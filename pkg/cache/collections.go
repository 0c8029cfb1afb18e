// Package cache holds per-collection read caches. Invalidation is
// coarse-grained: a write clears every source variant of its collection
// synchronously before the write call returns, which gives read-after-write
// consistency within the process at collection granularity.
package cache

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/stores"
)

type entry struct {
	rows      []stores.RawRecord
	expiresAt time.Time
}

// Collections caches fetched collections keyed by collection and source.
// Cached slices are logically shared across callers: consumers must clone a
// record before attaching anything to it.
type Collections struct {
	mu      sync.RWMutex
	entries map[string]*entry
	ttl     time.Duration
	hits    atomic.Int64
	misses  atomic.Int64
}

func New(ttl time.Duration) *Collections {
	return &Collections{
		entries: make(map[string]*entry),
		ttl:     ttl,
	}
}

func key(collection models.Collection, source string) string {
	return fmt.Sprintf("%s:%s", collection, source)
}

// Get returns the cached rows for a collection/source pair, if fresh.
func (c *Collections) Get(collection models.Collection, source string) ([]stores.RawRecord, bool) {
	k := key(collection, source)

	c.mu.RLock()
	e, exists := c.entries[k]
	c.mu.RUnlock()

	if exists && time.Now().Before(e.expiresAt) {
		c.hits.Add(1)
		return e.rows, true
	}

	if exists {
		c.mu.Lock()
		// a concurrent Put may have replaced the expired entry already
		if cur, ok := c.entries[k]; ok && cur == e {
			delete(c.entries, k)
		}
		c.mu.Unlock()
	}

	c.misses.Add(1)
	return nil, false
}

// Put stores the rows for a collection/source pair.
func (c *Collections) Put(collection models.Collection, source string, rows []stores.RawRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key(collection, source)] = &entry{
		rows:      rows,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// Invalidate drops every source variant of a collection.
func (c *Collections) Invalidate(collection models.Collection) {
	prefix := string(collection) + ":"
	c.mu.Lock()
	for k := range c.entries {
		if len(k) > len(prefix) && k[:len(prefix)] == prefix {
			delete(c.entries, k)
		}
	}
	c.mu.Unlock()
}

// Clear removes all entries.
func (c *Collections) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*entry)
	c.mu.Unlock()
}

// Stats returns cache statistics.
type Stats struct {
	Size   int
	Hits   int64
	Misses int64
}

func (c *Collections) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{
		Size:   len(c.entries),
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
	}
}
