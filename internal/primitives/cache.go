package primitives

import "spaceship-designer/internal/mesh"

// DefaultCacheSize is the capacity used when a cache is created with size <= 0.
const DefaultCacheSize = 100

// CacheStats is a snapshot of cache effectiveness.
type CacheStats struct {
	Hits      uint64 `json:"hits" yaml:"hits"`
	Misses    uint64 `json:"misses" yaml:"misses"`
	Evictions uint64 `json:"evictions" yaml:"evictions"`
	Size      int    `json:"size" yaml:"size"`
}

// HitRatio returns hits / (hits + misses), or 0 before the first lookup.
func (s CacheStats) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Cache is a bounded LRU map from primitive key to mesh. The most recently used entry
// sits at head; the tail is evicted when a Put would exceed capacity.
// Cache is not safe for concurrent use; Factory serializes access to it.
type Cache struct {
	capacity int
	items    map[string]*node
	head     *node
	tail     *node
	stats    CacheStats
}

type node struct {
	key  string
	mesh *mesh.Mesh
	prev *node
	next *node
}

// NewCache returns an empty cache holding at most capacity entries.
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCacheSize
	}
	return &Cache{
		capacity: capacity,
		items:    make(map[string]*node),
	}
}

// Capacity returns the maximum number of entries.
func (c *Cache) Capacity() int {
	return c.capacity
}

// Get returns the stored mesh for key and marks it most recently used.
// The returned mesh is the cached instance; callers that mutate must Clone.
func (c *Cache) Get(key string) (*mesh.Mesh, bool) {
	n, ok := c.items[key]
	if !ok {
		c.stats.Misses++
		return nil, false
	}
	c.stats.Hits++
	c.moveToHead(n)
	return n.mesh, true
}

// Put stores m under key, evicting the least recently used entry if the cache is full.
func (c *Cache) Put(key string, m *mesh.Mesh) {
	if n, ok := c.items[key]; ok {
		n.mesh = m
		c.moveToHead(n)
		return
	}
	if len(c.items) >= c.capacity {
		c.evictTail()
	}
	n := &node{key: key, mesh: m}
	c.items[key] = n
	c.addToHead(n)
}

// Len returns the number of stored entries.
func (c *Cache) Len() int {
	return len(c.items)
}

// Clear drops all entries. Hit/miss counters are kept.
func (c *Cache) Clear() {
	c.items = make(map[string]*node)
	c.head = nil
	c.tail = nil
}

// Stats returns a snapshot of the counters and current size.
func (c *Cache) Stats() CacheStats {
	s := c.stats
	s.Size = len(c.items)
	return s
}

// Keys returns keys from most to least recently used.
func (c *Cache) Keys() []string {
	keys := make([]string, 0, len(c.items))
	for n := c.head; n != nil; n = n.next {
		keys = append(keys, n.key)
	}
	return keys
}

func (c *Cache) addToHead(n *node) {
	n.prev = nil
	n.next = c.head
	if c.head != nil {
		c.head.prev = n
	}
	c.head = n
	if c.tail == nil {
		c.tail = n
	}
}

func (c *Cache) removeNode(n *node) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		c.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		c.tail = n.prev
	}
	n.prev, n.next = nil, nil
}

func (c *Cache) moveToHead(n *node) {
	if c.head == n {
		return
	}
	c.removeNode(n)
	c.addToHead(n)
}

func (c *Cache) evictTail() {
	if c.tail == nil {
		return
	}
	n := c.tail
	c.removeNode(n)
	delete(c.items, n.key)
	c.stats.Evictions++
}
