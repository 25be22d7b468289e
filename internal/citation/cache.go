package citation

import (
	"container/list"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"
)

// DefaultCacheCapacity is used when NewCache is given a non-positive capacity.
const DefaultCacheCapacity = 128

// Key identifies one facade: the source it belongs to plus fingerprints of
// the document and citation list it was built from.
type Key struct {
	Source    string
	Document  string
	Citations string
}

func (k Key) String() string {
	return k.Source + "\x00" + k.Document + "\x00" + k.Citations
}

// Cache memoizes facades with explicit invalidation. Each source carries a
// generation counter; Invalidate bumps it so builds already in flight for
// the old generation are never stored. The generation table holds at most
// generationLimit sources; past that it is folded into a new epoch.
type Cache struct {
	capacity int

	mu          sync.Mutex
	entries     map[Key]*list.Element
	order       *list.List // front is most recently used
	generations map[string]uint64
	epoch       uint64 // bumped by Reset

	group singleflight.Group
}

type cacheEntry struct {
	key    Key
	facade *Facade
}

// generationLimit bounds the per-source generation table relative to the
// cache capacity.
func (c *Cache) generationLimit() int { return 4 * c.capacity }

// NewCache creates a cache holding at most capacity facades.
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &Cache{
		capacity:    capacity,
		entries:     make(map[Key]*list.Element),
		order:       list.New(),
		generations: make(map[string]uint64),
	}
}

// Get returns the cached facade for key, calling build on a miss. Concurrent
// misses on the same key share one build. Build errors are returned and not
// cached.
func (c *Cache) Get(key Key, build func() (*Facade, error)) (*Facade, error) {
	c.mu.Lock()
	if el, ok := c.entries[key]; ok {
		c.order.MoveToFront(el)
		f := el.Value.(*cacheEntry).facade
		c.mu.Unlock()
		return f, nil
	}
	gen, epoch := c.generations[key.Source], c.epoch
	c.mu.Unlock()

	flight := key.String() + "\x00" + strconv.FormatUint(epoch, 10) + "." + strconv.FormatUint(gen, 10)
	v, err, _ := c.group.Do(flight, func() (any, error) {
		f, err := build()
		if err != nil {
			return nil, err
		}
		return c.store(key, epoch, gen, f), nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Facade), nil
}

// store inserts f unless the source was invalidated since gen was read, and
// returns the facade callers should use. An entry stored by an earlier
// flight wins over f.
func (c *Cache) store(key Key, epoch, gen uint64, f *Facade) *Facade {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.epoch != epoch || c.generations[key.Source] != gen {
		return f
	}
	if el, ok := c.entries[key]; ok {
		c.order.MoveToFront(el)
		return el.Value.(*cacheEntry).facade
	}
	for c.order.Len() >= c.capacity {
		c.removeElement(c.order.Back())
	}
	c.entries[key] = c.order.PushFront(&cacheEntry{key: key, facade: f})
	return f
}

// Invalidate drops every facade built for source and returns how many were
// removed.
func (c *Cache) Invalidate(source string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, known := c.generations[source]; !known && len(c.generations) >= c.generationLimit() {
		// A new epoch rejects every in-flight build, so the table can restart.
		c.epoch++
		c.generations = make(map[string]uint64)
	} else {
		c.generations[source]++
	}
	removed := 0
	for key, el := range c.entries {
		if key.Source == source {
			c.removeElement(el)
			removed++
		}
	}
	return removed
}

// Reset drops every facade.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.epoch++
	c.entries = make(map[Key]*list.Element)
	c.generations = make(map[string]uint64)
	c.order.Init()
}

// Len returns the number of cached facades.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Must be called with mu held.
func (c *Cache) removeElement(el *list.Element) {
	if el == nil {
		return
	}
	c.order.Remove(el)
	delete(c.entries, el.Value.(*cacheEntry).key)
}
