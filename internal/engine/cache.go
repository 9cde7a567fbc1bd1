package engine

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// DetailsTTL is the lifetime of cached posting descriptions; they change far
// less often than search result pages.
const DetailsTTL = 24 * time.Hour

// providerCache holds provider responses: L1 in process memory, L2 in Redis
// when configured. nil disables caching.
var providerCache *cache

var (
	cacheHits   atomic.Int64
	cacheMisses atomic.Int64
)

type cache struct {
	mu         sync.Mutex
	entries    map[string]cacheEntry
	rdb        *redis.Client // nil = L1 only
	ttl        time.Duration
	maxEntries int
	stop       chan struct{}
}

type cacheEntry struct {
	data      []byte
	expiresAt time.Time
}

// InitCache sets up the provider cache. Call after Init().
// An empty redisURL, or an unreachable server, leaves L2 disabled.
func InitCache(redisURL string, ttl time.Duration, maxEntries int, cleanupInterval time.Duration) {
	c := &cache{
		entries:    make(map[string]cacheEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
		stop:       make(chan struct{}),
	}
	if redisURL != "" {
		c.rdb = connectRedis(redisURL)
	}

	if providerCache != nil {
		close(providerCache.stop)
	}
	providerCache = c
	slog.Info("cache: initialized",
		slog.Duration("ttl", ttl),
		slog.Bool("redis", c.rdb != nil),
		slog.Int("max_entries", maxEntries))

	if cleanupInterval <= 0 {
		cleanupInterval = 5 * time.Minute
	}
	go c.janitor(cleanupInterval)
}

func connectRedis(redisURL string) *redis.Client {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		slog.Warn("cache: invalid redis URL, L2 disabled", slog.Any("error", err))
		return nil
	}
	rdb := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Warn("cache: redis unreachable, L2 disabled", slog.Any("error", err))
		_ = rdb.Close()
		return nil
	}
	slog.Info("cache: L2 redis connected", slog.String("addr", opts.Addr))
	return rdb
}

// CacheKey hashes parts into a fixed-length key under the "jd:" namespace.
func CacheKey(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return fmt.Sprintf("jd:%x", sum[:12])
}

// CacheGet looks in L1, then L2. An L2 hit is copied into L1.
func CacheGet(ctx context.Context, key string) ([]byte, bool) {
	c := providerCache
	if c == nil {
		cacheMisses.Add(1)
		return nil, false
	}

	now := time.Now()
	c.mu.Lock()
	e, ok := c.entries[key]
	if ok && !now.Before(e.expiresAt) {
		delete(c.entries, key)
		ok = false
	}
	c.mu.Unlock()
	if ok {
		cacheHits.Add(1)
		slog.Debug("cache: L1 hit", slog.String("key", key))
		return e.data, true
	}

	if c.rdb != nil {
		data, err := c.rdb.Get(ctx, key).Bytes()
		if err == nil {
			ttl := c.ttl
			if remaining, err := c.rdb.TTL(ctx, key).Result(); err == nil && remaining > 0 {
				ttl = remaining
			}
			c.put(key, data, ttl, now)
			cacheHits.Add(1)
			slog.Debug("cache: L2 hit", slog.String("key", key))
			return data, true
		}
	}

	cacheMisses.Add(1)
	return nil, false
}

// CacheSet stores data with the default TTL.
func CacheSet(ctx context.Context, key string, data []byte) {
	if c := providerCache; c != nil {
		CacheSetFor(ctx, key, data, c.ttl)
	}
}

// CacheSetFor stores data in both tiers for ttl.
func CacheSetFor(ctx context.Context, key string, data []byte, ttl time.Duration) {
	c := providerCache
	if c == nil || ttl <= 0 {
		return
	}
	c.put(key, data, ttl, time.Now())
	if c.rdb != nil {
		if err := c.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
			slog.Debug("cache: L2 set failed", slog.Any("error", err))
		}
	}
}

// CacheStats returns the hit and miss counters.
func CacheStats() (hits, misses int64) {
	return cacheHits.Load(), cacheMisses.Load()
}

// CacheLoadJSON decodes a cached value; a corrupt entry counts as a miss.
func CacheLoadJSON[T any](ctx context.Context, key string) (T, bool) {
	var out T
	data, ok := CacheGet(ctx, key)
	if !ok {
		return out, false
	}
	if err := json.Unmarshal(data, &out); err != nil {
		var zero T
		return zero, false
	}
	return out, true
}

// CacheStoreJSON encodes v and stores it with the default TTL.
func CacheStoreJSON[T any](ctx context.Context, key string, v T) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	CacheSet(ctx, key, data)
}

func (c *cache) put(key string, data []byte, ttl time.Duration, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; !exists && c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		c.evictLocked(now)
	}
	c.entries[key] = cacheEntry{data: data, expiresAt: now.Add(ttl)}
}

// evictLocked drops expired entries, then the entries closest to expiry
// until there is room for one more.
func (c *cache) evictLocked(now time.Time) {
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
		}
	}
	for len(c.entries) >= c.maxEntries {
		var victim string
		var earliest time.Time
		for k, e := range c.entries {
			if victim == "" || e.expiresAt.Before(earliest) {
				victim, earliest = k, e.expiresAt
			}
		}
		delete(c.entries, victim)
	}
}

func (c *cache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// janitor removes expired L1 entries until the cache is replaced.
func (c *cache) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case now := <-ticker.C:
			c.mu.Lock()
			for k, e := range c.entries {
				if !now.Before(e.expiresAt) {
					delete(c.entries, k)
				}
			}
			c.mu.Unlock()
		}
	}
}
