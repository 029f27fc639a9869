package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache is the in-process layer. It serves repeat analyses within
// one session without touching disk.
type MemoryCache struct {
	store *gocache.Cache
}

// NewMemoryCache creates a memory cache with the given default TTL and
// expired-entry sweep interval
func NewMemoryCache(defaultTTL, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{store: gocache.New(defaultTTL, cleanupInterval)}
}

// Get returns the payload stored under key, if present and unexpired
func (m *MemoryCache) Get(key string) ([]byte, bool) {
	val, ok := m.store.Get(key)
	if !ok {
		return nil, false
	}
	data, ok := val.([]byte)
	return data, ok
}

// Set stores the payload under key. A zero TTL uses the cache default.
func (m *MemoryCache) Set(key string, value []byte, ttl time.Duration) error {
	m.store.Set(key, value, ttl)
	return nil
}

// Delete removes key from the cache
func (m *MemoryCache) Delete(key string) error {
	m.store.Delete(key)
	return nil
}

// Clear drops every entry
func (m *MemoryCache) Clear() error {
	m.store.Flush()
	return nil
}
