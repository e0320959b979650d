// Package cache provides a small bounded LRU for rendered message blocks.
// Styling a bubble with lipgloss is pure but not free; re-rendering every
// message on each frame wastes time once threads grow past a few pages.
// Bounding the cache keeps memory flat no matter how far back the admin
// scrolls.
package cache

import "container/list"

// Cache is a bounded string LRU. Not safe for concurrent use; the TUI event
// loop is single-threaded.
type Cache struct {
	capacity int
	order    *list.List // front = most recent
	entries  map[string]*list.Element
}

type entry struct {
	key   string
	value string
}

// New creates a cache holding at most capacity entries. Capacity below one
// is raised to one.
func New(capacity int) *Cache {
	if capacity < 1 {
		capacity = 1
	}
	return &Cache{
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[string]*list.Element, capacity),
	}
}

// Get returns the cached value and marks it most recently used.
func (c *Cache) Get(key string) (string, bool) {
	el, ok := c.entries[key]
	if !ok {
		return "", false
	}
	c.order.MoveToFront(el)
	return el.Value.(*entry).value, true
}

// Put stores a value, evicting the least recently used entry when full.
func (c *Cache) Put(key, value string) {
	if el, ok := c.entries[key]; ok {
		el.Value.(*entry).value = value
		c.order.MoveToFront(el)
		return
	}

	if c.order.Len() >= c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*entry).key)
		}
	}

	c.entries[key] = c.order.PushFront(&entry{key: key, value: value})
}

// Len returns the number of cached entries.
func (c *Cache) Len() int { return c.order.Len() }

// Clear drops all entries, e.g. when the theme or the pane width changes and
// every rendered block is stale at once.
func (c *Cache) Clear() {
	c.order.Init()
	c.entries = make(map[string]*list.Element, c.capacity)
}
