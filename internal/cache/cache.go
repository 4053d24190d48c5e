// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cache

import "sync"

// Cache is a thread-safe LRU cache with an optional capacity. When the
// capacity is exceeded the least recently used entry is evicted.
//
// Cache must not be copied after creation.
type Cache[K comparable, V any] struct {
	mu       sync.Mutex
	entries  map[K]*lruNode[K, V]
	order    lruList[K, V]
	capacity int
	onEvict  func(K, V)

	hits   uint64
	misses uint64
}

// New creates a cache holding at most capacity entries. A capacity of 0
// means unlimited. onEvict may be nil.
func New[K comparable, V any](capacity int, onEvict func(K, V)) *Cache[K, V] {
	return &Cache[K, V]{
		entries:  make(map[K]*lruNode[K, V]),
		capacity: capacity,
		onEvict:  onEvict,
	}
}

// Get returns the value for key and marks it most recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	node, ok := c.entries[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	c.hits++
	c.order.moveToFront(node)
	return node.value, true
}

// Set stores value under key, evicting the previous value for key and,
// when over capacity, the least recently used entry.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	evicted := c.setLocked(key, value)
	c.mu.Unlock()
	c.evict(evicted)
}

// GetOrCreate returns the cached value for key or calls create and caches
// its result. create runs under the cache lock; a failed create caches
// nothing.
func (c *Cache[K, V]) GetOrCreate(key K, create func() (V, error)) (V, error) {
	c.mu.Lock()
	if node, ok := c.entries[key]; ok {
		c.hits++
		c.order.moveToFront(node)
		c.mu.Unlock()
		return node.value, nil
	}
	c.misses++
	value, err := create()
	if err != nil {
		c.mu.Unlock()
		var zero V
		return zero, err
	}
	evicted := c.setLocked(key, value)
	c.mu.Unlock()
	c.evict(evicted)
	return value, nil
}

func (c *Cache[K, V]) setLocked(key K, value V) []*lruNode[K, V] {
	var evicted []*lruNode[K, V]
	if old, ok := c.entries[key]; ok {
		c.order.unlink(old)
		evicted = append(evicted, old)
	}
	c.entries[key] = c.order.pushFront(key, value)
	for c.capacity > 0 && c.order.len > c.capacity {
		oldest := c.order.removeOldest()
		delete(c.entries, oldest.key)
		evicted = append(evicted, oldest)
	}
	return evicted
}

// evict runs the callback outside the lock.
func (c *Cache[K, V]) evict(nodes []*lruNode[K, V]) {
	if c.onEvict == nil {
		return
	}
	for _, n := range nodes {
		c.onEvict(n.key, n.value)
	}
}

// Delete removes key and reports whether it was present.
func (c *Cache[K, V]) Delete(key K) bool {
	c.mu.Lock()
	node, ok := c.entries[key]
	if ok {
		c.order.unlink(node)
		delete(c.entries, key)
	}
	c.mu.Unlock()
	if ok {
		c.evict([]*lruNode[K, V]{node})
	}
	return ok
}

// Clear removes every entry.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	var nodes []*lruNode[K, V]
	for n := c.order.head; n != nil; n = n.next {
		nodes = append(nodes, n)
	}
	c.entries = make(map[K]*lruNode[K, V])
	c.order = lruList[K, V]{}
	c.mu.Unlock()
	c.evict(nodes)
}

// Len returns the number of entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Capacity returns the entry limit, or 0 for unlimited.
func (c *Cache[K, V]) Capacity() int { return c.capacity }

// Stats contains cache statistics.
type Stats struct {
	Len      int
	Capacity int
	Hits     uint64
	Misses   uint64
}

// Stats returns a snapshot of the statistics.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Len: len(c.entries), Capacity: c.capacity, Hits: c.hits, Misses: c.misses}
}
