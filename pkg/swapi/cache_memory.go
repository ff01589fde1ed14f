package swapi

import (
	"context"
	"fmt"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache is a process-lifetime in-memory cache. It has no size bound
// and no expiry; it is safe for concurrent use.
type MemoryCache struct {
	store *gocache.Cache
}

// NewMemoryCache creates an empty memory cache. Items never expire and no
// janitor goroutine is started.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		store: gocache.New(gocache.NoExpiration, 0),
	}
}

// Get retrieves an entry.
func (c *MemoryCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	value, found := c.store.Get(key)
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrCacheMiss, key)
	}

	entry, ok := value.(*CacheEntry)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCacheMiss, key)
	}

	return entry, nil
}

// Set stores an entry, replacing any previous one.
func (c *MemoryCache) Set(ctx context.Context, key string, entry *CacheEntry) error {
	c.store.Set(key, entry, gocache.NoExpiration)

	return nil
}

// Len returns the number of entries.
func (c *MemoryCache) Len(ctx context.Context) (int, error) {
	return c.store.ItemCount(), nil
}

// Close does nothing; the memory cache lives as long as the process.
func (c *MemoryCache) Close() error {
	return nil
}
