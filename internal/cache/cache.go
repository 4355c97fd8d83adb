// internal/cache/cache.go
package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ===============================
// CACHE INTERFACE
// ===============================

// Cache is the small byte-oriented caching surface the services use.
// Values are opaque to the cache; callers own serialization.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeletePattern(ctx context.Context, pattern string) error
	Health(ctx context.Context) error
	Close() error
}

// ===============================
// CACHE CONFIGURATION
// ===============================

// Config holds cache configuration
type Config struct {
	Provider        string        `json:"provider"` // "memory", "redis"
	TTL             time.Duration `json:"ttl"`
	MaxKeys         int           `json:"max_keys"`
	CleanupInterval time.Duration `json:"cleanup_interval"`

	// Redis configuration
	RedisURL      string `json:"redis_url"`
	RedisDB       int    `json:"redis_db"`
	RedisPassword string `json:"redis_password"`
	PoolSize      int    `json:"pool_size"`
}

// DefaultConfig returns a default cache configuration
func DefaultConfig() *Config {
	return &Config{
		Provider:        "memory",
		TTL:             15 * time.Minute,
		MaxKeys:         10000,
		CleanupInterval: 5 * time.Minute,
		PoolSize:        10,
	}
}

// NewCache creates a cache instance based on configuration
func NewCache(config *Config, logger *zap.Logger) (Cache, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	switch strings.ToLower(config.Provider) {
	case "redis":
		return NewRedisCache(config, logger)
	case "memory", "":
		logger.Info("Using in-memory cache")
		return NewMemoryCache(config, logger), nil
	default:
		return nil, fmt.Errorf("unsupported cache provider: %s", config.Provider)
	}
}

// ===============================
// MEMORY CACHE IMPLEMENTATION
// ===============================

type memoryCache struct {
	mu              sync.RWMutex
	items           map[string]*cacheItem
	maxKeys         int
	cleanupInterval time.Duration
	logger          *zap.Logger
	stopCh          chan struct{}
}

type cacheItem struct {
	Value      []byte
	ExpiresAt  time.Time
	AccessedAt time.Time
}

// NewMemoryCache creates a new in-memory cache
func NewMemoryCache(config *Config, logger *zap.Logger) Cache {
	c := &memoryCache{
		items:           make(map[string]*cacheItem),
		maxKeys:         config.MaxKeys,
		cleanupInterval: config.CleanupInterval,
		logger:          logger,
		stopCh:          make(chan struct{}),
	}

	go c.cleanup()

	return c
}

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, exists := c.items[key]
	if !exists {
		return nil, false
	}

	if time.Now().After(item.ExpiresAt) {
		delete(c.items, key)
		return nil, false
	}

	item.AccessedAt = time.Now()
	return item.Value, true
}

func (c *memoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.items) >= c.maxKeys {
		c.evictLRU()
	}

	now := time.Now()
	c.items[key] = &cacheItem{
		Value:      value,
		ExpiresAt:  now.Add(ttl),
		AccessedAt: now,
	}

	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
	return nil
}

// DeletePattern removes all keys matching a pattern with a single trailing
// or leading wildcard.
func (c *memoryCache) DeletePattern(ctx context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.items {
		if matchPattern(key, pattern) {
			delete(c.items, key)
		}
	}

	return nil
}

func (c *memoryCache) Health(ctx context.Context) error {
	return nil
}

func (c *memoryCache) Close() error {
	close(c.stopCh)
	return nil
}

// cleanup runs periodic removal of expired items
func (c *memoryCache) cleanup() {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanupExpired()
		case <-c.stopCh:
			return
		}
	}
}

func (c *memoryCache) cleanupExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	expired := 0

	for key, item := range c.items {
		if now.After(item.ExpiresAt) {
			delete(c.items, key)
			expired++
		}
	}

	if expired > 0 {
		c.logger.Debug("Cleaned up expired cache items",
			zap.Int("expired_count", expired),
			zap.Int("remaining_count", len(c.items)),
		)
	}
}

// evictLRU evicts the least recently accessed item
func (c *memoryCache) evictLRU() {
	var oldestKey string
	var oldestTime time.Time

	for key, item := range c.items {
		if oldestKey == "" || item.AccessedAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = item.AccessedAt
		}
	}

	if oldestKey != "" {
		delete(c.items, oldestKey)
	}
}

// matchPattern performs simple wildcard pattern matching
func matchPattern(str, pattern string) bool {
	if pattern == "*" {
		return true
	}

	if strings.HasSuffix(pattern, "*") {
		return strings.HasPrefix(str, strings.TrimSuffix(pattern, "*"))
	}

	if strings.HasPrefix(pattern, "*") {
		return strings.HasSuffix(str, strings.TrimPrefix(pattern, "*"))
	}

	return str == pattern
}

// ===============================
// REDIS CACHE IMPLEMENTATION
// ===============================

type redisCache struct {
	client *redis.Client
	logger *zap.Logger
	config *Config
}

// NewRedisCache creates a new Redis-based cache
func NewRedisCache(config *Config, logger *zap.Logger) (Cache, error) {
	if config == nil {
		return nil, fmt.Errorf("cache config cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	var options *redis.Options
	if config.RedisURL != "" {
		var err error
		options, err = redis.ParseURL(config.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
		}
	} else {
		options = &redis.Options{
			Addr:     "localhost:6379",
			Password: config.RedisPassword,
			DB:       config.RedisDB,
		}
	}

	if config.PoolSize > 0 {
		options.PoolSize = config.PoolSize
	}

	client := redis.NewClient(options)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis cache initialized",
		zap.String("addr", options.Addr),
		zap.Int("db", options.DB),
	)

	return &redisCache{
		client: client,
		logger: logger,
		config: config,
	}, nil
}

func (r *redisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	} else if err != nil {
		r.logger.Error("Failed to get from Redis",
			zap.String("key", key),
			zap.Error(err))
		return nil, false
	}
	return val, true
}

func (r *redisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = r.config.TTL
	}
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisCache) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *redisCache) DeletePattern(ctx context.Context, pattern string) error {
	iter := r.client.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string

	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		// Delete in batches to avoid blocking Redis for too long
		if len(keys) >= 1000 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
			keys = keys[:0]
		}
	}

	if err := iter.Err(); err != nil {
		return err
	}

	if len(keys) > 0 {
		return r.client.Del(ctx, keys...).Err()
	}

	return nil
}

func (r *redisCache) Health(ctx context.Context) error {
	_, err := r.client.Ping(ctx).Result()
	return err
}

func (r *redisCache) Close() error {
	return r.client.Close()
}
