package commands

import (
	"fmt"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// cacheEntry is one memoized search result set.
type cacheEntry struct {
	results  []Command
	cachedAt time.Time
	duration time.Duration
}

// SearchCache memoizes ranked search results per query. Entries are
// purged wholesale whenever the command set changes.
type SearchCache struct {
	cache  *lru.Cache[string, cacheEntry]
	hits   int64
	misses int64
}

func NewSearchCache(maxSize int) (*SearchCache, error) {
	if maxSize <= 0 {
		maxSize = 128
	}
	cache, err := lru.New[string, cacheEntry](maxSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create LRU cache: %w", err)
	}
	return &SearchCache{cache: cache}, nil
}

func (c *SearchCache) Get(query string) ([]Command, bool) {
	entry, ok := c.cache.Get(query)
	if !ok {
		atomic.AddInt64(&c.misses, 1)
		return nil, false
	}
	atomic.AddInt64(&c.hits, 1)
	return entry.results, true
}

func (c *SearchCache) Put(query string, results []Command, took time.Duration) {
	c.cache.Add(query, cacheEntry{
		results:  results,
		cachedAt: time.Now(),
		duration: took,
	})
}

// Purge empties the cache; called when commands are added or removed.
func (c *SearchCache) Purge() {
	c.cache.Purge()
}

// Stats reports hit/miss counts since startup.
func (c *SearchCache) Stats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}
