package swapi

import (
	"context"
	"encoding/json"
	"time"
)

// CacheEntry is a parsed API document keyed by its endpoint.
type CacheEntry struct {
	Data     json.RawMessage `json:"data"`
	StoredAt time.Time       `json:"stored_at"`
}

// Cache maps endpoints to previously parsed documents. Entries are never
// expired or evicted; Set is last-write-wins.
type Cache interface {
	// Get returns the entry for key, or ErrCacheMiss.
	Get(ctx context.Context, key string) (*CacheEntry, error)
	// Set stores entry under key.
	Set(ctx context.Context, key string, entry *CacheEntry) error
	// Len returns the number of cached keys.
	Len(ctx context.Context) (int, error)
	// Close releases backend resources.
	Close() error
}
