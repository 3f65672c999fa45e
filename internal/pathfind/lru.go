package pathfind

import (
	"container/list"
	"sync"

	"github.com/threerealms/mapserver/internal/model"
)

type cacheKey struct {
	start, goal Cell
	realm       model.Realm
}

// lru is a fixed-capacity, thread-safe cache of recently computed paths.
type lru struct {
	mu       sync.Mutex
	capacity int
	ll       *list.List
	items    map[cacheKey]*list.Element
}

type lruEntry struct {
	key  cacheKey
	path []model.Waypoint
}

func newLRU(capacity int) *lru {
	if capacity <= 0 {
		capacity = 1
	}
	return &lru{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[cacheKey]*list.Element, capacity),
	}
}

func (c *lru) get(key cacheKey) ([]model.Waypoint, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return nil, false
	}
	c.ll.MoveToFront(el)
	return el.Value.(*lruEntry).path, true
}

func (c *lru) put(key cacheKey, path []model.Waypoint) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		el.Value.(*lruEntry).path = path
		c.ll.MoveToFront(el)
		return
	}

	el := c.ll.PushFront(&lruEntry{key: key, path: path})
	c.items[key] = el

	if c.ll.Len() > c.capacity {
		oldest := c.ll.Back()
		if oldest != nil {
			c.ll.Remove(oldest)
			delete(c.items, oldest.Value.(*lruEntry).key)
		}
	}
}

func (c *lru) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ll.Init()
	c.items = make(map[cacheKey]*list.Element, c.capacity)
}
