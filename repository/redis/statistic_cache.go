package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/repository"
)

type statisticCache struct {
	client *redislib.Client
	prefix string
	ttl    time.Duration
}

// NewStatisticCache stores global statistic deliveries in Redis, one key per calendar day.
func NewStatisticCache(client *redislib.Client, ttl time.Duration) repository.StatisticCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &statisticCache{
		client: client,
		prefix: keyPrefix + "statistics:",
		ttl:    ttl,
	}
}

// Get returns nil, nil on a cache miss.
func (c *statisticCache) Get(ctx context.Context, today domain.Date) ([]domain.UserStatistic, error) {
	raw, err := c.client.Get(ctx, c.key(today)).Bytes()
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("read statistic cache: %w", err)
	}
	var stats []domain.UserStatistic
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, fmt.Errorf("decode statistic cache: %w", err)
	}
	return stats, nil
}

func (c *statisticCache) Set(ctx context.Context, today domain.Date, stats []domain.UserStatistic) error {
	payload, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(today), payload, c.ttl).Err()
}

func (c *statisticCache) Invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, c.prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *statisticCache) key(today domain.Date) string {
	return c.prefix + today.String()
}
