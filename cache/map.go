package cache

import (
	"sync"
)

// Map provides a type-safe in-memory key-value store safe for concurrent use.
type Map[K comparable, V any] struct {
	data map[K]V
	sync.RWMutex
}

// NewMap creates a new map instance
func NewMap[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{
		data: make(map[K]V),
	}
}

// Get retrieves a value by key, with existence check
func (c *Map[K, V]) Get(key K) (V, bool) {
	c.RLock()
	defer c.RUnlock()
	v, ok := c.data[key]
	return v, ok
}

// Update replaces the value under key with fn(current, exists) atomically.
func (c *Map[K, V]) Update(key K, fn func(current V, ok bool) V) V {
	c.Lock()
	defer c.Unlock()
	current, ok := c.data[key]
	next := fn(current, ok)
	c.data[key] = next
	return next
}
