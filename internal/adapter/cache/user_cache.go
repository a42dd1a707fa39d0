package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	domain "user-graph-service/internal/domain/user"
	"user-graph-service/pkg/metrics"
)

// UserCache defines the interface for user profile caching operations.
type UserCache interface {
	// Get retrieves a user from cache by ID.
	// Returns nil if user is not found in cache.
	Get(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// Set stores a user in cache with the configured TTL.
	Set(ctx context.Context, user *domain.User) error

	// Delete removes users from cache by IDs. Missing keys are ignored.
	Delete(ctx context.Context, ids ...uuid.UUID) error

	// Flush removes every cached user.
	Flush(ctx context.Context) error
}

const keyPrefix = "user:"

// RedisUserCache implements UserCache using Redis as the backing store.
type RedisUserCache struct {
	client redis.Cmdable
	ttl    time.Duration
	log    *zap.Logger
}

// NewRedisUserCache creates a new Redis-backed user cache.
func NewRedisUserCache(client redis.Cmdable, ttl time.Duration, log *zap.Logger) UserCache {
	return &RedisUserCache{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

func cacheKey(id uuid.UUID) string {
	return keyPrefix + id.String()
}

// Get retrieves a user from Redis cache.
func (c *RedisUserCache) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	data, err := c.client.Get(ctx, cacheKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.RecordCacheLookup("miss")
		c.log.Debug("cache miss", zap.String("user_id", id.String()))
		return nil, nil
	}
	if err != nil {
		metrics.RecordCacheLookup("error")
		c.log.Error("failed to get from cache", zap.String("user_id", id.String()), zap.Error(err))
		return nil, err
	}

	var user domain.User
	if err := json.Unmarshal(data, &user); err != nil {
		metrics.RecordCacheLookup("error")
		c.log.Error("failed to unmarshal cached user", zap.String("user_id", id.String()), zap.Error(err))
		return nil, err
	}

	metrics.RecordCacheLookup("hit")
	c.log.Debug("cache hit", zap.String("user_id", id.String()))
	return &user, nil
}

// Set stores a user in Redis cache with TTL.
func (c *RedisUserCache) Set(ctx context.Context, user *domain.User) error {
	if user == nil {
		return fmt.Errorf("cannot cache nil user")
	}

	data, err := json.Marshal(user)
	if err != nil {
		c.log.Error("failed to marshal user for cache", zap.String("user_id", user.ID.String()), zap.Error(err))
		return err
	}

	if err := c.client.Set(ctx, cacheKey(user.ID), data, c.ttl).Err(); err != nil {
		c.log.Error("failed to set cache", zap.String("user_id", user.ID.String()), zap.Error(err))
		return err
	}

	c.log.Debug("cached user", zap.String("user_id", user.ID.String()), zap.Duration("ttl", c.ttl))
	return nil
}

// Delete removes users from Redis cache.
func (c *RedisUserCache) Delete(ctx context.Context, ids ...uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = cacheKey(id)
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.Error("failed to delete from cache", zap.Int("count", len(ids)), zap.Error(err))
		return err
	}

	c.log.Debug("deleted from cache", zap.Int("count", len(ids)))
	return nil
}

// Flush removes every key with the user prefix. SCAN is used so the server is
// never blocked by a KEYS call.
func (c *RedisUserCache) Flush(ctx context.Context) error {
	var cursor uint64
	removed := 0
	for {
		keys, next, err := c.client.Scan(ctx, cursor, keyPrefix+"*", 100).Result()
		if err != nil {
			c.log.Error("failed to scan cache keys", zap.Error(err))
			return err
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				c.log.Error("failed to flush cache keys", zap.Error(err))
				return err
			}
			removed += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}

	c.log.Info("user cache flushed", zap.Int("count", removed))
	return nil
}
