package cache

import (
	"strings"
	"testing"
	"time"
)

func TestImageKey(t *testing.T) {
	a := ImageKey([]byte("image-bytes"))
	b := ImageKey([]byte("image-bytes"))
	c := ImageKey([]byte("different-bytes"))

	if a != b {
		t.Error("expected identical content to produce identical keys")
	}
	if a == c {
		t.Error("expected different content to produce different keys")
	}
	if !strings.HasPrefix(a, "rxscan:v1:") {
		t.Errorf("expected versioned key prefix, got %q", a)
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, found := c.Get("missing"); found {
		t.Error("expected miss for unknown key")
	}

	if err := c.Set("key", []byte("value"), time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	val, found := c.Get("key")
	if !found {
		t.Fatal("expected hit after set")
	}
	if string(val) != "value" {
		t.Errorf("expected value, got %q", val)
	}

	if err := c.Delete("key"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, found := c.Get("key"); found {
		t.Error("expected miss after delete")
	}
}

func TestDiskCache(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)

	if err := c.Set("ocr-result", []byte(`{"text":"Aspirin 100mg"}`), time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	val, found := c.Get("ocr-result")
	if !found {
		t.Fatal("expected hit after set")
	}
	if !strings.Contains(string(val), "Aspirin") {
		t.Errorf("expected stored payload, got %q", val)
	}
}

func TestDiskCacheExpiry(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)

	if err := c.Set("stale", []byte("old"), -time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, found := c.Get("stale"); found {
		t.Error("expected expired entry to miss")
	}
}

func TestLayeredCachePromotion(t *testing.T) {
	c := NewLayeredCache(time.Minute, t.TempDir(), time.Minute)

	if err := c.Set("key", []byte("value"), time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Drop the memory layer; the next Get should fall through to disk and
	// promote the entry back
	if err := c.memory.Clear(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	val, found := c.Get("key")
	if !found {
		t.Fatal("expected disk fallback hit")
	}
	if string(val) != "value" {
		t.Errorf("expected value, got %q", val)
	}

	if _, found := c.memory.Get("key"); !found {
		t.Error("expected promotion back to memory layer")
	}
}
