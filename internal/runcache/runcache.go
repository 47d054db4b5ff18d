// Package runcache provides a memoization cache scoped to one top-level
// invocation. History and registry queries are expensive, so repeated
// lookups within a run are answered from here. The cache must never
// outlive the run that owns it: a stale entry would silently re-answer
// "needs build" questions after a build already happened.
package runcache

import "sync"

type Cache struct {
	mu      sync.Mutex
	entries map[string]any
}

func New() *Cache {
	return &Cache{entries: make(map[string]any)}
}

// Clear drops all entries. Called at the start of every top-level run.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]any)
}

// Len reports the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

func (c *Cache) set(key string, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = v
}

// Memo returns the cached value for key, calling fill on a miss.
// Errors are not cached; a failing query aborts the run anyway.
func Memo[T any](c *Cache, key string, fill func() (T, error)) (T, error) {
	if c != nil {
		if v, ok := c.get(key); ok {
			return v.(T), nil
		}
	}

	v, err := fill()
	if err != nil {
		return v, err
	}
	if c != nil {
		c.set(key, v)
	}
	return v, nil
}
