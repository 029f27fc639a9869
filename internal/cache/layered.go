package cache

import "time"

// LayeredCache stacks the memory layer over the disk layer. Reads try
// memory first; a disk hit is promoted back so the next read in the same
// session stays in process.
type LayeredCache struct {
	memory *MemoryCache
	disk   *DiskCache
}

// NewLayeredCache creates the standard two-layer cache
func NewLayeredCache(memoryTTL time.Duration, diskDir string, diskTTL time.Duration) *LayeredCache {
	return &LayeredCache{
		memory: NewMemoryCache(memoryTTL, 10*time.Minute),
		disk:   NewDiskCache(diskDir, diskTTL),
	}
}

// Get reads through the layers, promoting disk hits to memory
func (c *LayeredCache) Get(key string) ([]byte, bool) {
	if val, ok := c.memory.Get(key); ok {
		return val, true
	}

	val, ok := c.disk.Get(key)
	if !ok {
		return nil, false
	}
	_ = c.memory.Set(key, val, 0)
	return val, true
}

// Set writes through to both layers. The disk write is authoritative; a
// memory failure alone does not fail the call.
func (c *LayeredCache) Set(key string, value []byte, ttl time.Duration) error {
	_ = c.memory.Set(key, value, ttl)
	return c.disk.Set(key, value, ttl)
}

// Delete removes key from both layers
func (c *LayeredCache) Delete(key string) error {
	_ = c.memory.Delete(key)
	return c.disk.Delete(key)
}

// Clear drops both layers
func (c *LayeredCache) Clear() error {
	_ = c.memory.Clear()
	return c.disk.Clear()
}
