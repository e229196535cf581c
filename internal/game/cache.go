package game

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/thesrcielos/ZombieDefense/internal/apperrors"
)

const leaderboardKeyPrefix = "leaderboard:"

type LeaderboardCache interface {
	Get(ctx context.Context, limit int) ([]LeaderboardEntry, bool, error)
	Set(ctx context.Context, limit int, entries []LeaderboardEntry) error
	Invalidate(ctx context.Context) error
}

// cacheStore is the subset of the redis client the cache uses.
type cacheStore interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisLeaderboardCache stores each page size under its own key with its own
// TTL, so no page outlives the TTL from the moment it was written.
type RedisLeaderboardCache struct {
	db  cacheStore
	ttl time.Duration
}

func NewLeaderboardCache(db *redis.Client, ttl time.Duration) *RedisLeaderboardCache {
	return &RedisLeaderboardCache{db: db, ttl: ttl}
}

func leaderboardKey(limit int) string {
	return fmt.Sprintf("%s%d", leaderboardKeyPrefix, limit)
}

// leaderboardKeys names every page that can be cached; limits are capped at
// MaxLeaderboardLimit before reaching the cache.
func leaderboardKeys() []string {
	keys := make([]string, 0, MaxLeaderboardLimit)
	for limit := 1; limit <= MaxLeaderboardLimit; limit++ {
		keys = append(keys, leaderboardKey(limit))
	}
	return keys
}

func (c *RedisLeaderboardCache) Get(ctx context.Context, limit int) ([]LeaderboardEntry, bool, error) {
	val, err := c.db.Get(ctx, leaderboardKey(limit)).Result()
	if err == redis.Nil {
		return nil, false, nil
	} else if err != nil {
		return nil, false, apperrors.Internal("Error getting cached leaderboard", err)
	}

	var entries []LeaderboardEntry
	if err := json.Unmarshal([]byte(val), &entries); err != nil {
		return nil, false, apperrors.Internal("Error unmarshalling leaderboard", err)
	}
	return entries, true, nil
}

func (c *RedisLeaderboardCache) Set(ctx context.Context, limit int, entries []LeaderboardEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return apperrors.Internal("Error serializing leaderboard", err)
	}
	if err := c.db.Set(ctx, leaderboardKey(limit), data, c.ttl).Err(); err != nil {
		return apperrors.Internal("Error caching leaderboard", err)
	}
	return nil
}

func (c *RedisLeaderboardCache) Invalidate(ctx context.Context) error {
	if err := c.db.Del(ctx, leaderboardKeys()...).Err(); err != nil {
		return apperrors.Internal("Error invalidating leaderboard", err)
	}
	return nil
}

type noopCache struct{}

func (noopCache) Get(context.Context, int) ([]LeaderboardEntry, bool, error) { return nil, false, nil }
func (noopCache) Set(context.Context, int, []LeaderboardEntry) error       { return nil }
func (noopCache) Invalidate(context.Context) error                         { return nil }
