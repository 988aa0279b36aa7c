// Package assets handles model bundle retrieval and caching.
package assets

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/Faultbox/spacescene/internal/logger"
)

// Source retrieves raw files by slash-separated path.
// Missing files are reported with an error wrapping fs.ErrNotExist.
type Source interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// ModelPath returns the bundle path for a model: models/<id>/scene.<format>.
func ModelPath(modelID, format string) string {
	return path.Join("models", modelID, "scene."+format)
}

// Manager resolves files against its sources and caches the bytes.
type Manager struct {
	sources []Source
	cache   *Cache
	mu      sync.RWMutex

	// Concurrent loads of one path share a single fetch.
	inflight singleflight.Group
}

// NewManager creates a manager over the given sources.
// Sources are searched in reverse order (last added = highest priority).
func NewManager(sources ...Source) *Manager {
	return &Manager{
		sources: sources,
		cache:   NewCache(),
	}
}

// AddSource adds a source with the highest priority.
func (m *Manager) AddSource(src Source) {
	m.mu.Lock()
	m.sources = append(m.sources, src)
	m.mu.Unlock()
}

// Load loads a file, consulting the cache first.
func (m *Manager) Load(ctx context.Context, name string) ([]byte, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	if data, ok := m.cache.Get(name); ok {
		return data, nil
	}

	v, err, _ := m.inflight.Do(name, func() (any, error) {
		return m.fetch(ctx, name)
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// fetch walks the sources from highest priority and caches the first hit.
func (m *Manager) fetch(ctx context.Context, name string) ([]byte, error) {
	m.mu.RLock()
	sources := m.sources
	m.mu.RUnlock()

	var lastErr error
	for i := len(sources) - 1; i >= 0; i-- {
		data, err := sources[i].Fetch(ctx, name)
		if err == nil {
			m.cache.Set(name, data)
			logger.Debug("asset fetched", zap.String("path", name), zap.Int("bytes", len(data)))
			return data, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}

	if lastErr == nil {
		lastErr = &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return nil, fmt.Errorf("asset %s: %w", name, lastErr)
}

// Close drops every source and clears the cache.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sources = nil
	m.cache.Clear()
}

// Stats returns cache statistics.
func (m *Manager) Stats() (hits, misses int) {
	return m.cache.Stats()
}

// Cache is a simple in-memory cache for loaded assets.
type Cache struct {
	data map[string][]byte
	mu   sync.RWMutex

	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
