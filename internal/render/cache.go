package render

import (
	"container/list"
	"sync"
)

// renderCache is an LRU cache of rendered block output keyed by block
// value and width. Unchanged blocks in a streaming session hit the cache
// on every repaint, so only the growing tail pays for markdown rendering.
type renderCache struct {
	mu      sync.Mutex
	maxSize int
	entries map[string]*list.Element
	lru     *list.List
}

type cacheEntry struct {
	key      string
	rendered string
}

func newRenderCache(maxSize int) *renderCache {
	if maxSize <= 0 {
		maxSize = 256
	}
	return &renderCache{
		maxSize: maxSize,
		entries: make(map[string]*list.Element),
		lru:     list.New(),
	}
}

// get returns the cached render for key, moving it to the front of the
// LRU list on a hit.
func (c *renderCache) get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		c.lru.MoveToFront(elem)
		return elem.Value.(*cacheEntry).rendered, true
	}
	return "", false
}

// put stores a rendered block, evicting the least recently used entry at
// capacity.
func (c *renderCache) put(key, rendered string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		c.lru.MoveToFront(elem)
		elem.Value.(*cacheEntry).rendered = rendered
		return
	}

	if c.lru.Len() >= c.maxSize {
		oldest := c.lru.Back()
		if oldest != nil {
			entry := oldest.Value.(*cacheEntry)
			delete(c.entries, entry.key)
			c.lru.Remove(oldest)
		}
	}

	elem := c.lru.PushFront(&cacheEntry{key: key, rendered: rendered})
	c.entries[key] = elem
}

// invalidateAll drops every entry. Called on width changes, when all
// cached renders are wrong.
func (c *renderCache) invalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*list.Element)
	c.lru.Init()
}

func (c *renderCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
