package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DiskCache persists entries across runs as one JSON file per key, grouped
// in a subdirectory per namespace (search/, fetch/)
type DiskCache struct {
	dir string
	ttl time.Duration
}

// NewDiskCache creates a disk cache rooted at dir
func NewDiskCache(dir string, ttl time.Duration) *DiskCache {
	return &DiskCache{
		dir: dir,
		ttl: ttl,
	}
}

type diskEntry struct {
	Key       string    `json:"key"`
	StoredAt  time.Time `json:"stored_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Data      []byte    `json:"data"`
}

// Get returns a live entry. Expired, corrupt or foreign entries are removed
// and reported as misses.
func (c *DiskCache) Get(key string) ([]byte, bool) {
	path := c.path(key)

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var entry diskEntry
	if err := json.Unmarshal(raw, &entry); err != nil || entry.Key != key {
		_ = os.Remove(path)
		return nil, false
	}
	if time.Now().After(entry.ExpiresAt) {
		_ = os.Remove(path)
		return nil, false
	}

	return entry.Data, true
}

// Set writes an entry through a temporary file and a rename, so a reader in
// a concurrent run never sees a partial entry. A zero ttl uses the cache TTL.
func (c *DiskCache) Set(key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.ttl
	}
	now := time.Now()

	raw, err := json.Marshal(diskEntry{
		Key:       key,
		StoredAt:  now,
		ExpiresAt: now.Add(ttl),
		Data:      value,
	})
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}

	path := c.path(key)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create cache file: %w", err)
	}
	_, werr := tmp.Write(raw)
	cerr := tmp.Close()
	if err := errors.Join(werr, cerr); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write cache file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("rename cache file: %w", err)
	}
	return nil
}

// Delete removes one entry; a missing entry is not an error
func (c *DiskCache) Delete(key string) error {
	if err := os.Remove(c.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Clear removes every namespace
func (c *DiskCache) Clear() error {
	return os.RemoveAll(c.dir)
}

// path maps "evidentia:v1:fetch-<hash>" to <dir>/fetch/<hash>.json. Keys
// outside the Key format land in <dir>/misc.
func (c *DiskCache) path(key string) string {
	namespace, name := "misc", key
	if rest, ok := strings.CutPrefix(key, keyPrefix); ok {
		if ns, hash, found := strings.Cut(rest, "-"); found && ns != "" && hash != "" {
			namespace, name = ns, hash
		}
	}
	name = strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(name)
	return filepath.Join(c.dir, namespace, name+".json")
}
