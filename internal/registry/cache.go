package registry

import (
	"path/filepath"
	"sync"
)

// Cache memoizes loaded registries by directory. Two paths naming the same
// directory (relative vs absolute, or through a symlink) share one entry, so
// repeated lookups within a process reuse the parsed registry.
type Cache struct {
	mu         sync.Mutex
	registries map[string]*Registry
}

// NewCache returns an empty registry cache.
func NewCache() *Cache {
	return &Cache{registries: make(map[string]*Registry)}
}

// Load returns the cached registry for dir, loading and caching it on first
// use. Failed loads are not cached, so a fixed registry is picked up on the
// next call.
func (c *Cache) Load(dir string) (*Registry, error) {
	key := canonicalDir(dir)

	c.mu.Lock()
	defer c.mu.Unlock()
	if reg, ok := c.registries[key]; ok {
		return reg, nil
	}
	reg, err := Load(dir)
	if err != nil {
		return nil, err
	}
	c.registries[key] = reg
	return reg, nil
}

// Invalidate drops every cached registry.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.registries = make(map[string]*Registry)
}

// canonicalDir resolves dir to a stable cache key: absolute, with symlinks
// resolved when the path exists.
func canonicalDir(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return dir
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}
