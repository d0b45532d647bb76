package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "ratelimit:find-bug"

// RedisLimiter shares counters between replicas through Redis.
type RedisLimiter struct {
	rdb   *redis.Client
	limit int
	now   func() time.Time
}

func NewRedisLimiter(rdb *redis.Client, limit int) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, limit: limit, now: time.Now}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := windowKey(redisKeyPrefix, key, l.now())

	var incr *redis.IntCmd
	_, err := l.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		pipe.Expire(ctx, k, Window)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("rate limit counter %s: %w", k, err)
	}

	return incr.Val() <= int64(l.limit), nil
}
