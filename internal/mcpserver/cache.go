package mcpserver

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/erraggy/restcodec/description"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

type cachedDescription struct {
	desc    *description.Description
	expires time.Time
}

// descriptionCache holds loaded descriptions for the session, least
// recently used first.
type descriptionCache struct {
	mu       sync.Mutex
	entries  *orderedmap.OrderedMap[string, cachedDescription]
	limit    int
	sweeping atomic.Bool
}

var descCache = newDescriptionCache(cfg.CacheMaxSize)

func newDescriptionCache(limit int) *descriptionCache {
	return &descriptionCache{
		entries: orderedmap.New[string, cachedDescription](),
		limit:   max(limit, 1),
	}
}

// load returns the description cached under key, calling parse and keeping
// its result for ttl on a miss. An empty key bypasses the cache.
func (c *descriptionCache) load(key string, ttl time.Duration, parse func() (*description.Description, error)) (*description.Description, error) {
	if key == "" {
		return parse()
	}
	if desc, ok := c.lookup(key, time.Now()); ok {
		return desc, nil
	}
	desc, err := parse()
	if err != nil {
		return nil, err
	}
	c.store(key, desc, time.Now().Add(ttl))
	return desc, nil
}

func (c *descriptionCache) lookup(key string, now time.Time) (*description.Description, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries.Get(key)
	if !ok {
		return nil, false
	}
	if now.After(entry.expires) {
		c.entries.Delete(key)
		return nil, false
	}
	_ = c.entries.MoveToBack(key)
	return entry.desc, true
}

func (c *descriptionCache) store(key string, desc *description.Description, expires time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Set(key, cachedDescription{desc: desc, expires: expires})
	_ = c.entries.MoveToBack(key)
	for c.entries.Len() > c.limit {
		c.entries.Delete(c.entries.Oldest().Key)
	}
}

// dropExpired removes every entry past its expiry at now.
func (c *descriptionCache) dropExpired(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var expired []string
	for pair := c.entries.Oldest(); pair != nil; pair = pair.Next() {
		if now.After(pair.Value.expires) {
			expired = append(expired, pair.Key)
		}
	}
	for _, key := range expired {
		c.entries.Delete(key)
	}
}

// sweepEvery drops expired entries each interval until ctx ends. Only one
// sweeper runs at a time.
func (c *descriptionCache) sweepEvery(ctx context.Context, interval time.Duration) {
	if interval <= 0 || !c.sweeping.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer c.sweeping.Store(false)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				c.dropExpired(now)
			}
		}
	}()
}

func (c *descriptionCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = orderedmap.New[string, cachedDescription]()
}

func (c *descriptionCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Len()
}

func (c *descriptionCache) keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make([]string, 0, c.entries.Len())
	for pair := c.entries.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}
