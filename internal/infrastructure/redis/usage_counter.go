package redisinfra

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// UsageCounter counts served jobs in Redis. Keys expire on their own; the
// TTL is set with NX semantics so only the first increment in a window
// establishes the expiry.
type UsageCounter struct {
	rdb *redis.Client
}

func NewUsageCounter(rdb *redis.Client) *UsageCounter {
	return &UsageCounter{rdb: rdb}
}

func (c *UsageCounter) Peek(ctx context.Context, key string) (int, error) {
	n, err := c.rdb.Get(ctx, key).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("get usage %s: %w", key, err)
	}
	return n, nil
}

func (c *UsageCounter) Add(ctx context.Context, key string, by int, ttl time.Duration) error {
	if by <= 0 {
		return fmt.Errorf("add usage %s: non-positive increment %d", key, by)
	}

	pipe := c.rdb.TxPipeline()
	pipe.IncrBy(ctx, key, int64(by))
	pipe.ExpireNX(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("incr usage %s: %w", key, err)
	}
	return nil
}
