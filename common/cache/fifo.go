package cache

import (
	"crypto/md5"
	"encoding/hex"
	"sync"
)

// Hash returns the cache key for a source URL.
func Hash(url string) string {
	sum := md5.Sum([]byte(url))
	return hex.EncodeToString(sum[:])
}

// FIFO 固定容量的图片字节缓存，键为源 URL 的 MD5
// Eviction follows insertion order only; a Get never refreshes a key and
// overwriting an existing key keeps its original position.
type FIFO struct {
	mu       sync.Mutex
	capacity int
	entries  map[string][]byte
	order    []string
}

func NewFIFO(capacity int) *FIFO {
	if capacity <= 0 {
		capacity = 1
	}
	return &FIFO{
		capacity: capacity,
		entries:  make(map[string][]byte, capacity),
	}
}

func (c *FIFO) Get(url string) ([]byte, bool) {
	key := Hash(url)
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.entries[key]
	return data, ok
}

func (c *FIFO) Set(url string, data []byte) {
	key := Hash(url)
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; ok {
		c.entries[key] = data
		return
	}
	if len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[key] = data
	c.order = append(c.order, key)
}

// Stats reports current usage for the status endpoint.
func (c *FIFO) Stats() (size int, capacity int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.order), c.capacity
}
