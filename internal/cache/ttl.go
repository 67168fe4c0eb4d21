// Package cache holds normalized ledgers between loads so repeated requests
// within the freshness window do not refetch the sheet.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// DefaultTTL is how long a fetched ledger stays fresh.
const DefaultTTL = 60 * time.Second

// DefaultMaxEntries bounds the number of distinct sources kept.
const DefaultMaxEntries = 32

// Entry is a cached value together with the time it was fetched.
type Entry[T any] struct {
	Key       string
	Value     T
	FetchedAt time.Time
}

// Age returns how old the entry is at now.
func (e Entry[T]) Age(now time.Time) time.Duration {
	return now.Sub(e.FetchedAt)
}

// TTLCache is a size-bounded cache whose entries expire a fixed duration
// after they were stored. The least recently used entry is evicted first.
type TTLCache[T any] struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	items      map[string]*list.Element
	lru        *list.List
	now        func() time.Time
}

// NewTTLCache creates a cache. A non-positive maxEntries means
// DefaultMaxEntries; a non-positive ttl makes every entry expire immediately.
func NewTTLCache[T any](ttl time.Duration, maxEntries int) *TTLCache[T] {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &TTLCache[T]{
		ttl:        ttl,
		maxEntries: maxEntries,
		items:      make(map[string]*list.Element),
		lru:        list.New(),
		now:        time.Now,
	}
}

// WithClock replaces the time source, for tests.
func (c *TTLCache[T]) WithClock(now func() time.Time) *TTLCache[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
	return c
}

// TTL returns the freshness window.
func (c *TTLCache[T]) TTL() time.Duration {
	return c.ttl
}

// Expired reports whether e is stale at now.
func (c *TTLCache[T]) Expired(e Entry[T], now time.Time) bool {
	return e.Age(now) >= c.ttl
}

// Get returns the fresh entry for key. A stale entry is dropped and reported
// as a miss.
func (c *TTLCache[T]) Get(key string) (Entry[T], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return Entry[T]{}, false
	}

	entry := elem.Value.(*Entry[T])
	if c.Expired(*entry, c.now()) {
		c.removeElement(elem)
		return Entry[T]{}, false
	}

	c.lru.MoveToFront(elem)
	return *entry, true
}

// Set stores value under key, stamped with the current time.
func (c *TTLCache[T]) Set(key string, value T) Entry[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := &Entry[T]{Key: key, Value: value, FetchedAt: c.now()}

	if elem, ok := c.items[key]; ok {
		elem.Value = entry
		c.lru.MoveToFront(elem)
		return *entry
	}

	c.items[key] = c.lru.PushFront(entry)

	if c.lru.Len() > c.maxEntries {
		if oldest := c.lru.Back(); oldest != nil {
			c.removeElement(oldest)
		}
	}
	return *entry
}

// Invalidate removes key and reports whether it was present.
func (c *TTLCache[T]) Invalidate(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if ok {
		c.removeElement(elem)
	}
	return ok
}

// Clear removes every entry and returns how many were dropped.
func (c *TTLCache[T]) Clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.items)
	c.items = make(map[string]*list.Element)
	c.lru.Init()
	return n
}

// CleanExpired removes all stale entries and returns the count removed.
func (c *TTLCache[T]) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	var stale []*list.Element
	for elem := c.lru.Front(); elem != nil; elem = elem.Next() {
		if c.Expired(*elem.Value.(*Entry[T]), now) {
			stale = append(stale, elem)
		}
	}
	for _, elem := range stale {
		c.removeElement(elem)
	}
	return len(stale)
}

// Size returns the number of stored entries, fresh or not.
func (c *TTLCache[T]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *TTLCache[T]) removeElement(elem *list.Element) {
	entry := elem.Value.(*Entry[T])
	delete(c.items, entry.Key)
	c.lru.Remove(elem)
}
