package cache

import (
	"sync"

	"github.com/rickgao/voldash/internal/model"
)

// Cache is a get/put memoization table.
type Cache[K comparable, V any] interface {
	Get(key K) (V, bool)
	Put(key K, value V)
}

// TagCache holds one batch per filter tag.
type TagCache = Cache[model.Tag, *model.Batch]

// Map is an unbounded, mutex-guarded Cache.
type Map[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]V
}

// NewMap creates an empty Map.
func NewMap[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{entries: make(map[K]V)}
}

// NewTagCache creates an empty in-memory tag cache.
func NewTagCache() *Map[model.Tag, *model.Batch] {
	return NewMap[model.Tag, *model.Batch]()
}

// Get returns the value stored for key.
func (m *Map[K, V]) Get(key K) (V, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.entries[key]
	return v, ok
}

// Put stores value under key, replacing any previous value.
func (m *Map[K, V]) Put(key K, value V) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = value
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Keys returns a snapshot of the stored keys in no particular order.
func (m *Map[K, V]) Keys() []K {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]K, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	return keys
}
