package template

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Cache loads templates from a directory and memoizes the parsed
// Descriptor per template name. The cache is owned by the caller and
// passed explicitly; population is lazy and lock-guarded so concurrent
// loads of the same template parse it once. Entries are invalidated only
// by Reload, never implicitly.
type Cache struct {
	dir string

	mu      sync.Mutex
	entries map[string]*Descriptor
}

// NewCache returns a Cache reading templates from dir.
func NewCache(dir string) *Cache {
	return &Cache{dir: dir, entries: make(map[string]*Descriptor)}
}

// Load returns the cached Descriptor for name, reading and parsing the
// template file on first use. Template names are plain file names
// relative to the cache directory (e.g. "task-completion.md").
func (c *Cache) Load(name string) (*Descriptor, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if d, ok := c.entries[name]; ok {
		return d, nil
	}
	return c.loadLocked(name)
}

// Reload discards any cached entry for name and reads it fresh.
func (c *Cache) Reload(name string) (*Descriptor, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, name)
	return c.loadLocked(name)
}

func (c *Cache) loadLocked(name string) (*Descriptor, error) {
	data, err := os.ReadFile(filepath.Join(c.dir, name))
	if err != nil {
		return nil, fmt.Errorf("read template %q: %w", name, err)
	}
	d := Parse(name, string(data))
	c.entries[name] = d
	return d, nil
}
