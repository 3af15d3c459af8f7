package texture

import (
	"image"
	"image/color"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache is a concurrency-safe texture cache. Failed loads are remembered so
// a missing texture is reported once; concurrent misses on one path share a
// single load.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*cacheEntry
	group singleflight.Group
	index *Index
	log   *slog.Logger
}

type cacheEntry struct {
	img  *image.NRGBA
	tint color.NRGBA
}

// NewCache creates a texture cache backed by the given index.
func NewCache(index *Index, log *slog.Logger) *Cache {
	if log == nil {
		log = slog.Default()
	}
	return &Cache{
		items: make(map[string]*cacheEntry),
		index: index,
		log:   log,
	}
}

// Resolve loads and caches a texture by name. Returns nil if not found or
// not decodable.
func (c *Cache) Resolve(texName string) *image.NRGBA {
	if e := c.entry(texName); e != nil {
		return e.img
	}
	return nil
}

// Tint returns the average colour of a texture, or false when it is unavailable.
func (c *Cache) Tint(texName string) (color.NRGBA, bool) {
	e := c.entry(texName)
	if e == nil || e.img == nil {
		return color.NRGBA{}, false
	}
	return e.tint, true
}

func (c *Cache) entry(texName string) *cacheEntry {
	if c == nil || c.index == nil || texName == "" {
		return nil
	}
	path, ok := c.index.ResolvePath(texName)
	if !ok {
		return nil
	}

	c.mu.RLock()
	if e, exists := c.items[path]; exists {
		c.mu.RUnlock()
		return e
	}
	c.mu.RUnlock()

	v, _, _ := c.group.Do(path, func() (interface{}, error) {
		e := &cacheEntry{}
		img, err := Load(path)
		if err != nil {
			c.log.Warn("skipping texture", "texture", texName, "error", err)
		} else {
			e.img = img
			e.tint = AverageColor(img)
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		if existing, exists := c.items[path]; exists {
			return existing, nil
		}
		c.items[path] = e
		return e, nil
	})
	return v.(*cacheEntry)
}
