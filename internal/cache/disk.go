package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DiskCache persists OCR results across process restarts. Prescription
// images are often re-submitted while a clinician iterates on patient
// data, and a disk hit skips the whole engine cascade.
type DiskCache struct {
	dir        string
	defaultTTL time.Duration
}

// diskRecord is the on-disk envelope around a cached payload. Expiry is
// stored with the payload so a restarted process can honor it.
type diskRecord struct {
	Payload []byte    `json:"payload"`
	Expires time.Time `json:"expires"`
}

// NewDiskCache creates a disk cache rooted at dir
func NewDiskCache(dir string, defaultTTL time.Duration) *DiskCache {
	return &DiskCache{dir: dir, defaultTTL: defaultTTL}
}

// Get returns the payload stored under key. Expired records are removed
// on read.
func (d *DiskCache) Get(key string) ([]byte, bool) {
	raw, err := os.ReadFile(d.recordPath(key))
	if err != nil {
		return nil, false
	}

	var rec diskRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, false
	}
	if time.Now().After(rec.Expires) {
		_ = os.Remove(d.recordPath(key))
		return nil, false
	}

	return rec.Payload, true
}

// Set stores the payload under key. A zero TTL uses the cache default.
func (d *DiskCache) Set(key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = d.defaultTTL
	}

	raw, err := json.Marshal(diskRecord{
		Payload: value,
		Expires: time.Now().Add(ttl),
	})
	if err != nil {
		return fmt.Errorf("marshal cache record: %w", err)
	}

	if err := os.MkdirAll(d.dir, 0755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	if err := os.WriteFile(d.recordPath(key), raw, 0644); err != nil {
		return fmt.Errorf("write cache record: %w", err)
	}
	return nil
}

// Delete removes the record for key
func (d *DiskCache) Delete(key string) error {
	return os.Remove(d.recordPath(key))
}

// Clear removes the whole cache directory
func (d *DiskCache) Clear() error {
	return os.RemoveAll(d.dir)
}

func (d *DiskCache) recordPath(key string) string {
	return filepath.Join(d.dir, key+".cache")
}
