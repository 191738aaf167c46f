package bibleapi

import (
	"sync"
	"time"
)

// memoryCache is a small TTL cache for list responses. Single map behind a
// mutex; entries are whole decoded values keyed by request path.
type memoryCache struct {
	mu    sync.Mutex
	ttl   time.Duration
	items map[string]cacheItem
}

type cacheItem struct {
	value   interface{}
	expires time.Time
}

func newMemoryCache(ttl time.Duration) *memoryCache {
	return &memoryCache{
		ttl:   ttl,
		items: make(map[string]cacheItem),
	}
}

func (c *memoryCache) get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(item.expires) {
		delete(c.items, key)
		return nil, false
	}
	return item.value, true
}

func (c *memoryCache) set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = cacheItem{value: value, expires: time.Now().Add(c.ttl)}
}

func (c *memoryCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]cacheItem)
}
