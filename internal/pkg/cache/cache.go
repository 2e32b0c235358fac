package cache

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Metrics tracks cache performance
type Metrics struct {
	Hits   int64
	Misses int64
	Sets   int64
}

// Cache is a TTL cache generic over the stored value type.
type Cache[T any] struct {
	mu      sync.RWMutex
	items   map[string]entry[T]
	ttl     time.Duration
	name    string // For logging/debugging
	metrics Metrics
	logger  *zap.Logger
}

type entry[T any] struct {
	value      T
	expiration int64
}

// New creates a cache with the given TTL and name.
func New[T any](ttl time.Duration, name string, logger *zap.Logger) *Cache[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Cache[T]{
		items:  make(map[string]entry[T]),
		ttl:    ttl,
		name:   name,
		logger: logger,
	}
	go c.cleanup()
	return c
}

// Set stores an item in the cache with the given key
func (c *Cache[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = entry[T]{
		value:      value,
		expiration: time.Now().Add(c.ttl).UnixNano(),
	}
	c.metrics.Sets++

	c.logger.Debug("Cache set",
		zap.String("cache", c.name),
		zap.String("key", key),
		zap.Duration("ttl", c.ttl),
	)
}

// Get retrieves an item from the cache
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, found := c.items[key]
	if !found || time.Now().UnixNano() > item.expiration {
		c.metrics.Misses++
		var zero T
		return zero, false
	}

	c.metrics.Hits++
	return item.value, true
}

// Delete removes an item from the cache
func (c *Cache[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Clear removes all items from the cache
func (c *Cache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]entry[T])
	c.logger.Info("Cache cleared", zap.String("cache", c.name))
}

// GetMetrics returns current cache metrics
func (c *Cache[T]) GetMetrics() Metrics {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.metrics
}

// Size returns the number of items in the cache
func (c *Cache[T]) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// cleanup runs periodically to remove expired items
func (c *Cache[T]) cleanup() {
	ticker := time.NewTicker(c.ttl / 2)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		now := time.Now().UnixNano()
		for key, item := range c.items {
			if now > item.expiration {
				delete(c.items, key)
			}
		}
		c.mu.Unlock()
	}
}

// KeyBuilder builds consistent cache keys from request components.
type KeyBuilder struct {
	components []any
}

// NewKeyBuilder creates a new cache key builder
func NewKeyBuilder() *KeyBuilder {
	return &KeyBuilder{components: make([]any, 0, 8)}
}

// Add adds a component to the cache key
func (b *KeyBuilder) Add(key string, value any) *KeyBuilder {
	b.components = append(b.components, map[string]any{key: value})
	return b
}

// AddProfile adds the travel preferences to the cache key.
func (b *KeyBuilder) AddProfile(profile any) *KeyBuilder {
	return b.Add("profile", profile)
}

// AddUser adds the user id to the cache key.
func (b *KeyBuilder) AddUser(userID string) *KeyBuilder {
	return b.Add("user_id", userID)
}

// Build generates the final cache key as an MD5 hash
func (b *KeyBuilder) Build() (string, error) {
	jsonBytes, err := json.Marshal(b.components)
	if err != nil {
		return "", fmt.Errorf("failed to marshal cache key components: %w", err)
	}

	hash := md5.Sum(jsonBytes)
	return hex.EncodeToString(hash[:]), nil
}

// BuildOrDefault builds the cache key, returns empty string on error
func (b *KeyBuilder) BuildOrDefault() string {
	key, err := b.Build()
	if err != nil {
		return ""
	}
	return key
}
