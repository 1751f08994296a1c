package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/actuallystonmai/cf-recommender/internal/domain"
	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const defaultTTL = 10 * time.Minute

// Key identifies one cached recommendation list. Version is the snapshot
// version the list was computed from, so a reload orphans older entries.
type Key struct {
	Version int64
	UserID  int64
	Limit   int
	K       int
	Metric  domain.Metric
}

type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Cache{client: client, ttl: ttl}
}

func buildKey(k Key) string {
	return fmt.Sprintf("rec:user:%d:v:%d:limit:%d:k:%d:metric:%s", k.UserID, k.Version, k.Limit, k.K, k.Metric)
}

func userPattern(userID int64) string {
	return fmt.Sprintf("rec:user:%d:*", userID)
}

// Get recommendations from cache
func (c *Cache) Get(ctx context.Context, k Key) ([]domain.Recommendation, bool, error) {
	key := buildKey(k)
	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, fmt.Errorf("failed to get recommendations from cache: %w", err)
	}

	var recs []domain.Recommendation
	if err := json.Unmarshal(val, &recs); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal recommendations %s: %w", key, err)
	}

	return recs, true, nil
}

// Store recommendations in cache
func (c *Cache) Set(ctx context.Context, k Key, recs []domain.Recommendation) error {
	val, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendations: %w", err)
	}

	if err := c.client.Set(ctx, buildKey(k), val, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set recommendations in cache: %w", err)
	}

	return nil
}

// Clear user cache: used when a user's ratings change
func (c *Cache) ClearUserCache(ctx context.Context, userID int64) error {
	iter := c.client.Scan(ctx, 0, userPattern(userID), 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("cache delete %s: %w", iter.Val(), err)
		}
	}
	return iter.Err()
}

// Ping connectivity
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
