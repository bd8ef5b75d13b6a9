package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache TTLs
const (
	TTLMenuTree = 5 * time.Minute  // navigation changes rarely
	TTLPage     = 2 * time.Minute  // page body by slug
	TTLSearch   = 30 * time.Second // search results churn with edits
	TTLDefault  = 1 * time.Minute
)

// Cache key prefixes
const (
	KeyMenuTree  = "menus:tree"
	PrefixPage   = "page:"
	PrefixSearch = "search:"
)

// Service is the Redis cache interface used by the wiki services.
// All operations degrade to no-ops (or misses) when Redis is unavailable,
// so the API keeps working without a cache.
type Service interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error

	// Menu tree cache
	GetMenuTree(ctx context.Context) ([]byte, error)
	SetMenuTree(ctx context.Context, data interface{}) error
	InvalidateMenuTree(ctx context.Context) error

	// Page cache (keyed by slug)
	GetPage(ctx context.Context, slug string) ([]byte, error)
	SetPage(ctx context.Context, slug string, data interface{}) error
	InvalidatePage(ctx context.Context, slug string) error
	InvalidateAllPages(ctx context.Context) error

	// Search result cache
	InvalidateSearches(ctx context.Context) error

	IsAvailable() bool
	Ping(ctx context.Context) error
}

// redisCache is the Redis-backed implementation
type redisCache struct {
	client *redis.Client
}

// NewService creates a cache service. A nil client is allowed.
func NewService(client *redis.Client) Service {
	return &redisCache{client: client}
}

func (c *redisCache) IsAvailable() bool {
	return c.client != nil
}

func (c *redisCache) Ping(ctx context.Context) error {
	if c.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	return c.client.Ping(ctx).Err()
}

func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	if c.client == nil {
		return fmt.Errorf("redis not available")
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}

	return json.Unmarshal(data, dest)
}

func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.client == nil {
		return nil // no cache, no error
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, key, data, ttl).Err()
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// ========================================
// Menu tree cache
// ========================================

func (c *redisCache) GetMenuTree(ctx context.Context) ([]byte, error) {
	if c.client == nil {
		return nil, fmt.Errorf("redis not available")
	}
	return c.client.Get(ctx, KeyMenuTree).Bytes()
}

func (c *redisCache) SetMenuTree(ctx context.Context, data interface{}) error {
	if c.client == nil {
		return nil
	}
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, KeyMenuTree, jsonData, TTLMenuTree).Err()
}

func (c *redisCache) InvalidateMenuTree(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, KeyMenuTree).Err()
}

// ========================================
// Page cache
// ========================================

func (c *redisCache) pageKey(slug string) string {
	return PrefixPage + slug
}

func (c *redisCache) GetPage(ctx context.Context, slug string) ([]byte, error) {
	if c.client == nil {
		return nil, fmt.Errorf("redis not available")
	}
	return c.client.Get(ctx, c.pageKey(slug)).Bytes()
}

func (c *redisCache) SetPage(ctx context.Context, slug string, data interface{}) error {
	if c.client == nil {
		return nil
	}
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.pageKey(slug), jsonData, TTLPage).Err()
}

func (c *redisCache) InvalidatePage(ctx context.Context, slug string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, c.pageKey(slug)).Err()
}

func (c *redisCache) InvalidateAllPages(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.deleteByPattern(ctx, PrefixPage+"*")
}

// ========================================
// Search cache
// ========================================

func (c *redisCache) InvalidateSearches(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.deleteByPattern(ctx, PrefixSearch+"*")
}

func (c *redisCache) deleteByPattern(ctx context.Context, pattern string) error {
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
