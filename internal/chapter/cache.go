package chapter

// DefaultCacheSize bounds how many chapters stay resident around the one
// being read.
const DefaultCacheSize = 5

// Cache is a fixed-capacity LRU map from chapter index to processed Data.
// Recency is an explicit index list, most recent first. Not safe for
// concurrent use; the queue serializes access.
type Cache struct {
	capacity int
	entries  map[int]*Data
	recency  []int
}

// NewCache creates a cache holding at most capacity chapters. Non-positive
// capacities fall back to DefaultCacheSize.
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCacheSize
	}
	return &Cache{
		capacity: capacity,
		entries:  make(map[int]*Data, capacity),
	}
}

// Get returns the cached data for a chapter and marks it most recently
// used.
func (c *Cache) Get(index int) (*Data, bool) {
	d, ok := c.entries[index]
	if ok {
		c.touch(index)
	}
	return d, ok
}

// Put stores a chapter's data, evicting the least recently used entry when
// full.
func (c *Cache) Put(index int, d *Data) {
	if _, ok := c.entries[index]; !ok && len(c.entries) >= c.capacity {
		lru := c.recency[len(c.recency)-1]
		c.recency = c.recency[:len(c.recency)-1]
		delete(c.entries, lru)
	}
	c.entries[index] = d
	c.touch(index)
}

// Len returns the number of resident chapters.
func (c *Cache) Len() int { return len(c.entries) }

// Clear drops every entry, for chapter-list reloads.
func (c *Cache) Clear() {
	c.entries = make(map[int]*Data, c.capacity)
	c.recency = c.recency[:0]
}

func (c *Cache) touch(index int) {
	for i, v := range c.recency {
		if v == index {
			c.recency = append(c.recency[:i], c.recency[i+1:]...)
			break
		}
	}
	c.recency = append([]int{index}, c.recency...)
}
