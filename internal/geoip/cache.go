package geoip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores successful lookups by IP.
type Cache interface {
	Get(ctx context.Context, ip string) (*Location, bool, error)
	Set(ctx context.Context, ip string, loc *Location, ttl time.Duration) error
}

type memoryEntry struct {
	loc       Location
	expiresAt time.Time
}

// MemoryCache is a process-local TTL cache.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryCache creates an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, ip string) (*Location, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[ip]
	if !ok {
		return nil, false, nil
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, ip)
		return nil, false, nil
	}
	loc := e.loc
	return &loc, true, nil
}

func (c *MemoryCache) Set(_ context.Context, ip string, loc *Location, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[ip] = memoryEntry{loc: *loc, expiresAt: c.now().Add(ttl)}
	return nil
}

// StartCleanup evicts expired lookups every interval until ctx is cancelled.
func (c *MemoryCache) StartCleanup(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.RemoveExpiredAt(c.now())
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// RemoveExpiredAt evicts every entry expired as of now and reports how many
// were removed.
func (c *MemoryCache) RemoveExpiredAt(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for ip, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, ip)
			removed++
		}
	}
	return removed
}

const cacheKeyPrefix = "geoip:"

// RedisCache shares lookups across instances.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a Redis-backed cache.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, ip string) (*Location, bool, error) {
	raw, err := c.client.Get(ctx, cacheKeyPrefix+ip).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get cached location: %w", err)
	}
	var loc Location
	if err := json.Unmarshal(raw, &loc); err != nil {
		return nil, false, fmt.Errorf("decode cached location: %w", err)
	}
	return &loc, true, nil
}

func (c *RedisCache) Set(ctx context.Context, ip string, loc *Location, ttl time.Duration) error {
	raw, err := json.Marshal(loc)
	if err != nil {
		return fmt.Errorf("encode location: %w", err)
	}
	return c.client.Set(ctx, cacheKeyPrefix+ip, raw, ttl).Err()
}
