package redisclient

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// SaveSession stores a session token to principal-ID mapping with a TTL.
// The scope separates customer sessions from admin sessions.
func (c *Client) SaveSession(ctx context.Context, scope, token, principalID string, ttl time.Duration) error {
	return c.rdb.Set(ctx, sessionKey(scope, token), principalID, ttl).Err()
}

// GetSession resolves a session token to its principal ID. Returns empty
// when the session is unknown or expired.
func (c *Client) GetSession(ctx context.Context, scope, token string) (string, error) {
	val, err := c.rdb.Get(ctx, sessionKey(scope, token)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

// TouchSession extends a live session's TTL
func (c *Client) TouchSession(ctx context.Context, scope, token string, ttl time.Duration) error {
	return c.rdb.Expire(ctx, sessionKey(scope, token), ttl).Err()
}

// DeleteSession revokes a session token
func (c *Client) DeleteSession(ctx context.Context, scope, token string) error {
	return c.rdb.Del(ctx, sessionKey(scope, token)).Err()
}

func sessionKey(scope, token string) string {
	return fmt.Sprintf("session:%s:%s", scope, token)
}

// CacheSet stores a serialized value under a cache key with a TTL
func (c *Client) CacheSet(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, cacheKey(key), value, ttl).Err()
}

// CacheGet retrieves a cached value. Returns nil on a miss.
func (c *Client) CacheGet(ctx context.Context, key string) ([]byte, error) {
	val, err := c.rdb.Get(ctx, cacheKey(key)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

// CacheDel drops a cached value, used for invalidation after admin writes
func (c *Client) CacheDel(ctx context.Context, keys ...string) error {
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = cacheKey(k)
	}
	return c.rdb.Del(ctx, full...).Err()
}

func cacheKey(key string) string {
	return fmt.Sprintf("cache:%s", key)
}
