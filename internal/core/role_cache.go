package core

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// RoleResolver looks a role id up by name at the source of truth.
// ReferenceService satisfies it.
type RoleResolver interface {
	RoleIDByName(ctx context.Context, name string) (int, error)
}

// RoleCache maps role names to ids for authorization checks. Entries expire
// after a TTL; Refresh drops every entry so a renamed role is observed on the
// next lookup.
type RoleCache interface {
	RoleID(ctx context.Context, name string) (int, error)
	Refresh(ctx context.Context) error
}

const roleKeyPrefix = "role:"

type roleEntry struct {
	id      int
	expires time.Time
}

// memoryRoleCache is the in-process RoleCache used when no Redis URL is set.
type memoryRoleCache struct {
	src RoleResolver
	ttl time.Duration
	now func() time.Time

	mu      sync.RWMutex
	entries map[string]roleEntry
}

// NewMemoryRoleCache returns an in-process RoleCache. A non-positive ttl
// disables caching and every lookup goes to src.
func NewMemoryRoleCache(src RoleResolver, ttl time.Duration) RoleCache {
	return &memoryRoleCache{
		src:     src,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]roleEntry),
	}
}

func (c *memoryRoleCache) RoleID(ctx context.Context, name string) (int, error) {
	now := c.now()
	c.mu.RLock()
	e, ok := c.entries[name]
	c.mu.RUnlock()
	if ok && now.Before(e.expires) {
		return e.id, nil
	}

	id, err := c.src.RoleIDByName(ctx, name)
	if err != nil {
		return 0, err
	}
	if c.ttl > 0 {
		c.mu.Lock()
		c.entries[name] = roleEntry{id: id, expires: now.Add(c.ttl)}
		c.mu.Unlock()
	}
	return id, nil
}

func (c *memoryRoleCache) Refresh(_ context.Context) error {
	c.mu.Lock()
	c.entries = make(map[string]roleEntry)
	c.mu.Unlock()
	return nil
}

// redisRoleCache shares role ids across server instances. Each entry is a
// "role:<name>" key with the TTL applied by Redis.
type redisRoleCache struct {
	rdb *redis.Client
	src RoleResolver
	ttl time.Duration
}

// NewRedisClient parses redisURL and verifies the server answers PING.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, Configurationf("failed to parse Redis URL: %v", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return rdb, nil
}

// NewRedisRoleCache returns a RoleCache backed by rdb.
func NewRedisRoleCache(rdb *redis.Client, src RoleResolver, ttl time.Duration) RoleCache {
	return &redisRoleCache{rdb: rdb, src: src, ttl: ttl}
}

func (c *redisRoleCache) RoleID(ctx context.Context, name string) (int, error) {
	key := roleKeyPrefix + name
	val, err := c.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		if id, convErr := strconv.Atoi(val); convErr == nil {
			return id, nil
		}
		// Unparseable value: fall through and overwrite it.
	case !errors.Is(err, redis.Nil):
		return 0, fmt.Errorf("failed to read role cache: %w", err)
	}

	id, err := c.src.RoleIDByName(ctx, name)
	if err != nil {
		return 0, err
	}
	if c.ttl > 0 {
		if err := c.rdb.Set(ctx, key, id, c.ttl).Err(); err != nil {
			return 0, fmt.Errorf("failed to write role cache: %w", err)
		}
	}
	return id, nil
}

func (c *redisRoleCache) Refresh(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := c.rdb.Scan(ctx, cursor, roleKeyPrefix+"*", 100).Result()
		if err != nil {
			return fmt.Errorf("failed to scan role cache: %w", err)
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to clear role cache: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
