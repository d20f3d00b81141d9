// Package cache provides the persistent embedding cache. Vectors are keyed
// by the md5 hash of their exact source text and flushed to a flat JSON file
// on every write, so repeated reconciliation passes never re-embed the same
// description.
package cache

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"os"
	"sync"
)

// EmbeddingCache is a write-through, file-backed map from content hash to
// embedding vector. A missing or corrupt file is treated as an empty cache.
type EmbeddingCache struct {
	mu   sync.RWMutex
	path string

	entries map[string][]float32
}

// Key returns the deterministic cache key for a text: the hex md5 digest of
// its exact bytes. Whitespace and case are preserved on purpose.
func Key(text string) string {
	sum := md5.Sum([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Load opens the cache at path, reading the persisted file if present.
// Corruption is never fatal; the cache starts empty instead.
func Load(path string) *EmbeddingCache {
	c := &EmbeddingCache{
		path:    path,
		entries: make(map[string][]float32),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("failed to read embedding cache, starting empty", "path", path, "error", err)
		}
		return c
	}

	if err := json.Unmarshal(data, &c.entries); err != nil {
		slog.Warn("embedding cache file corrupted, starting empty", "path", path, "error", err)
		c.entries = make(map[string][]float32)
		return c
	}

	slog.Info("loaded embedding cache", "path", path, "entries", len(c.entries))
	return c
}

// Get returns the cached vector for a text, if any.
func (c *EmbeddingCache) Get(text string) ([]float32, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	vector, ok := c.entries[Key(text)]
	return vector, ok
}

// Put stores a vector and immediately persists the whole cache. A flush
// failure loses durability, not the in-memory entry, so it is only logged.
func (c *EmbeddingCache) Put(text string, vector []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[Key(text)] = vector
	c.flushLocked()
}

// PutAll stores multiple vectors keyed by text with a single flush.
func (c *EmbeddingCache) PutAll(vectors map[string][]float32) {
	if len(vectors) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for text, vector := range vectors {
		c.entries[Key(text)] = vector
	}
	c.flushLocked()
}

// Size returns the number of cached vectors.
func (c *EmbeddingCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Flush persists the cache to disk.
func (c *EmbeddingCache) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flush()
}

// flushLocked persists and logs instead of returning the error.
// Must be called with the lock held.
func (c *EmbeddingCache) flushLocked() {
	if err := c.flush(); err != nil {
		slog.Warn("failed to persist embedding cache", "path", c.path, "error", err)
	}
}

func (c *EmbeddingCache) flush() error {
	data, err := json.Marshal(c.entries)
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, data, 0600)
}
