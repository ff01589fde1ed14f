package swapi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// Defaults for the NATS KV backend.
const (
	DefaultNATSBucket         = "swapi-cache"
	DefaultNATSConnectTimeout = 5 * time.Second
)

// NATSKVConfig configures the NATS JetStream key-value cache.
type NATSKVConfig struct {
	// URL of the NATS server, e.g. "nats://127.0.0.1:4222".
	URL string
	// Bucket is created on first use when it does not exist.
	Bucket string
	// ConnectTimeout bounds the initial connection.
	ConnectTimeout time.Duration
}

// NATSKVCache stores entries in a JetStream key-value bucket so several
// processes can share one cache. Keys are base64url-encoded endpoints since
// KV keys may not contain characters such as '?'.
type NATSKVCache struct {
	conn *nats.Conn
	kv   nats.KeyValue
}

// NewNATSKVCache connects to NATS and binds (or creates) the bucket.
func NewNATSKVCache(config *NATSKVConfig) (*NATSKVCache, error) {
	if config == nil || config.URL == "" {
		return nil, ErrNATSConfigRequired
	}

	bucket := config.Bucket
	if bucket == "" {
		bucket = DefaultNATSBucket
	}

	timeout := config.ConnectTimeout
	if timeout <= 0 {
		timeout = DefaultNATSConnectTimeout
	}

	conn, err := nats.Connect(config.URL, nats.Name("swapi-cache"), nats.Timeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", config.URL, err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()

		return nil, fmt.Errorf("creating JetStream context: %w", err)
	}

	kv, err := js.KeyValue(bucket)
	if errors.Is(err, nats.ErrBucketNotFound) {
		kv, err = js.CreateKeyValue(&nats.KeyValueConfig{
			Bucket:      bucket,
			Description: "SWAPI response cache",
		})
	}

	if err != nil {
		conn.Close()

		return nil, fmt.Errorf("binding KV bucket %s: %w", bucket, err)
	}

	return &NATSKVCache{conn: conn, kv: kv}, nil
}

// Get retrieves an entry.
func (c *NATSKVCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	kve, err := c.kv.Get(encodeKey(key))
	if errors.Is(err, nats.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrCacheMiss, key)
	}

	if err != nil {
		return nil, fmt.Errorf("reading %s from KV: %w", key, err)
	}

	var entry CacheEntry

	err = json.Unmarshal(kve.Value(), &entry)
	if err != nil {
		return nil, fmt.Errorf("decoding cached %s: %w", key, err)
	}

	return &entry, nil
}

// Set stores an entry, replacing any previous revision.
func (c *NATSKVCache) Set(ctx context.Context, key string, entry *CacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding cache entry for %s: %w", key, err)
	}

	_, err = c.kv.Put(encodeKey(key), data)
	if err != nil {
		return fmt.Errorf("writing %s to KV: %w", key, err)
	}

	return nil
}

// Len counts the keys in the bucket.
func (c *NATSKVCache) Len(ctx context.Context) (int, error) {
	keys, err := c.kv.Keys(nats.Context(ctx))
	if errors.Is(err, nats.ErrNoKeysFound) {
		return 0, nil
	}

	if err != nil {
		return 0, fmt.Errorf("listing KV keys: %w", err)
	}

	return len(keys), nil
}

// Close closes the NATS connection.
func (c *NATSKVCache) Close() error {
	c.conn.Close()

	return nil
}

func encodeKey(key string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(key))
}
