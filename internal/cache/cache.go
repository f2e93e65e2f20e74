// Package cache stores search results and fetched pages across the
// iterations of a run and, on disk, across runs.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ppiankov/evidentia/internal/model"
)

const keyPrefix = "evidentia:v1:"

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a cache key in a namespace ("search", "fetch") from its parts
func Key(namespace string, parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return keyPrefix + namespace + "-" + hex.EncodeToString(hash[:])
}

// GetJSON decodes a cached JSON value into out. An entry that no longer
// decodes into out is evicted and reported as a miss.
func GetJSON(c Cache, key string, out any) bool {
	data, ok := c.Get(key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		_ = c.Delete(key)
		return false
	}
	return true
}

// SetJSON encodes and stores a value. A zero ttl uses each layer's default.
func SetJSON(c Cache, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value: %w", err)
	}
	return c.Set(key, data, ttl)
}

// New builds the cache described by cfg: memory plus disk when a directory
// is set, memory only otherwise, nothing when disabled
func New(cfg model.CacheConfig) Cache {
	if !cfg.Enabled {
		return Nop{}
	}
	if cfg.Dir == "" {
		return NewMemoryCache(cfg.MemoryTTL, 10*time.Minute)
	}
	return NewLayered(
		NewMemoryCache(cfg.MemoryTTL, 10*time.Minute),
		NewDiskCache(cfg.Dir, cfg.DiskTTL),
	)
}

// Nop is a cache that stores nothing
type Nop struct{}

// Get always misses
func (Nop) Get(string) ([]byte, bool) { return nil, false }

// Set discards the value
func (Nop) Set(string, []byte, time.Duration) error { return nil }

// Delete does nothing
func (Nop) Delete(string) error { return nil }

// Clear does nothing
func (Nop) Clear() error { return nil }
