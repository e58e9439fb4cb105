package dataset

import (
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Cache memoizes the enriched table for one source path. The table is
// rebuilt when the file's size or modification time changes, or after
// Invalidate. Failed loads are not cached.
type Cache struct {
	path string
	opt  Options
	load func(string, Options) (*Table, error)

	mu    sync.Mutex
	table *Table
	stamp fileStamp
}

type fileStamp struct {
	size    int64
	modTime time.Time
}

// NewCache returns a cache that loads path with opt on first use.
func NewCache(path string, opt Options) *Cache {
	return &Cache{path: path, opt: opt, load: Load}
}

// Path returns the source path the cache is keyed by.
func (c *Cache) Path() string { return c.path }

// Get returns the cached table, loading or reloading it if needed.
func (c *Cache) Get() (*Table, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, statErr := stampOf(c.path)
	if c.table != nil && statErr == nil && st == c.stamp {
		return c.table, nil
	}
	if c.table != nil {
		log.Info().Str("path", c.path).Msg("source changed; reloading dataset")
	}
	t, err := c.load(c.path, c.opt)
	if err != nil {
		c.table = nil
		return nil, err
	}
	c.table = t
	c.stamp = st
	return t, nil
}

// Invalidate drops the cached table so the next Get reloads it.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.table = nil
	c.stamp = fileStamp{}
}

func stampOf(path string) (fileStamp, error) {
	info, err := os.Stat(path)
	if err != nil {
		return fileStamp{}, err
	}
	return fileStamp{size: info.Size(), modTime: info.ModTime()}, nil
}
