// Package cache stores OCR acquisition results so re-analyzing the same
// prescription image skips the engine cascade entirely.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// ImageKey generates a cache key from the raw image bytes
func ImageKey(image []byte) string {
	hash := sha256.Sum256(image)
	return "rxscan:v1:" + hex.EncodeToString(hash[:])
}
