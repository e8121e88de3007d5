package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oggyb/roommate-match/internal/config"
)

const defaultCountTTL = time.Hour

type RedisCache struct {
	Client *redis.Client
	TTL    time.Duration
}

// NewRedisCache initializes Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return NewFromClient(redis.NewClient(opts), cfg.Redis.MatchCountTTL)
}

// NewFromClient wraps an existing client. A non-positive ttl falls back to
// one hour.
func NewFromClient(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = defaultCountTTL
	}
	return &RedisCache{Client: client, TTL: ttl}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.Client.Close()
}

// KeyForMatchCount generates Redis key for a user's match count
func (c *RedisCache) KeyForMatchCount(userID string) string {
	return fmt.Sprintf("matches:count:%s", userID)
}

func (c *RedisCache) SetMatchCount(ctx context.Context, userID string, count int64) error {
	// Always refresh TTL when updating
	return c.Client.Set(ctx, c.KeyForMatchCount(userID), count, c.TTL).Err()
}

// GetMatchCount returns the cached count and whether it was present.
func (c *RedisCache) GetMatchCount(ctx context.Context, userID string) (int64, bool, error) {
	key := c.KeyForMatchCount(userID)
	val, err := c.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil // cache miss
	} else if err != nil {
		return 0, false, err
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt match count under %s: %w", key, err)
	}
	// refresh TTL on access
	_ = c.Client.Expire(ctx, key, c.TTL).Err()
	return n, true, nil
}

// InvalidateMatchCounts deletes the cached counts of every given user.
func (c *RedisCache) InvalidateMatchCounts(ctx context.Context, userIDs ...string) error {
	if len(userIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, c.KeyForMatchCount(id))
	}
	return c.Client.Del(ctx, keys...).Err()
}
