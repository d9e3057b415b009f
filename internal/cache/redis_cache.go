package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/taskvault/taskvault-api/internal/platform/logger"
)

// RedisTaskCache implements TaskCache on a Redis backend.
//
// Invalidation uses an explicit index: every SetPage records the entry's key
// in a per-owner SET, and InvalidateUser deletes the indexed keys rather
// than scanning the keyspace by prefix. The index set carries the same TTL
// as its newest entry, so it cannot outlive the data it tracks by much.
type RedisTaskCache struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisTaskCache creates a TaskCache backed by the given Redis client.
// If logger is nil, a default logger will be used.
func NewRedisTaskCache(client *redis.Client, logger *slog.Logger) *RedisTaskCache {
	if client == nil {
		// ALLOW-PANIC: constructor misuse; use NewNoopTaskCache when Redis
		// is not configured
		panic("client cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &RedisTaskCache{
		client: client,
		logger: logger.With(slog.String("component", "task_cache")),
	}
}

// Ensure RedisTaskCache implements TaskCache interface
var _ TaskCache = (*RedisTaskCache)(nil)

// GetPage implements TaskCache.GetPage
// Backend failures are logged and reported as misses; the caller falls
// through to the relational store.
func (c *RedisTaskCache) GetPage(ctx context.Context, key PageKey) ([]byte, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	payload, err := c.client.Get(ctx, key.String()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		log.Warn("cache read failed, treating as miss",
			slog.String("key", key.String()),
			slog.String("error", err.Error()))
		return nil, ErrCacheMiss
	}

	return payload, nil
}

// SetPage implements TaskCache.SetPage
// The entry and its index membership are written in one pipeline so a
// populated entry is always discoverable by InvalidateUser.
func (c *RedisTaskCache) SetPage(
	ctx context.Context,
	key PageKey,
	payload []byte,
	ttl time.Duration,
) error {
	log := logger.FromContextOrDefault(ctx, c.logger)

	keyStr := key.String()
	indexKey := key.indexKey()

	pipe := c.client.TxPipeline()
	pipe.Set(ctx, keyStr, payload, ttl)
	pipe.SAdd(ctx, indexKey, keyStr)
	pipe.Expire(ctx, indexKey, ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		log.Warn("cache write failed, entry skipped",
			slog.String("key", keyStr),
			slog.String("error", err.Error()))
	}

	return nil
}

// InvalidateUser implements TaskCache.InvalidateUser
// Deletes the user's indexed entries and the admin listing entries. Backend
// failures are logged as a bounded staleness risk (entries still expire by
// TTL) and never surfaced to the caller, so a successful store write is not
// masked by a cache problem.
func (c *RedisTaskCache) InvalidateUser(ctx context.Context, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, c.logger)

	for _, indexKey := range []string{indexKeyFor(userID.String()), indexKeyFor(adminIndexOwner)} {
		if err := c.dropIndexed(ctx, indexKey); err != nil {
			log.Warn("cache invalidation failed, stale entries expire by TTL",
				slog.String("index", indexKey),
				slog.String("user_id", userID.String()),
				slog.String("error", err.Error()))
		}
	}

	return nil
}

// dropIndexed deletes every key recorded in the index set, then the index
// itself.
func (c *RedisTaskCache) dropIndexed(ctx context.Context, indexKey string) error {
	keys, err := c.client.SMembers(ctx, indexKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}

	keys = append(keys, indexKey)
	return c.client.Del(ctx, keys...).Err()
}
