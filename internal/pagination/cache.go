package pagination

import "sync"

// Invalidatable is anything holding cached pages for a query key.
type Invalidatable interface {
	Invalidate()
}

// Cache fans mutations out to the controllers caching the affected query
// keys, the way the app's write paths invalidate the feed after a post or
// a reaction.
type Cache struct {
	mu          sync.Mutex
	controllers map[string][]Invalidatable
}

// NewCache creates a new Cache
func NewCache() *Cache {
	return &Cache{controllers: make(map[string][]Invalidatable)}
}

// Register attaches a controller to a query key.
func (c *Cache) Register(queryKey string, ctrl Invalidatable) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controllers[queryKey] = append(c.controllers[queryKey], ctrl)
}

// Invalidate drops cached pages for every given query key. Unknown keys
// are ignored.
func (c *Cache) Invalidate(queryKeys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range queryKeys {
		for _, ctrl := range c.controllers[key] {
			ctrl.Invalidate()
		}
	}
}
