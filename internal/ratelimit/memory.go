package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	memoryKeyPrefix = "ratelimit"
	// distinct clients tracked at once; the least recently seen are evicted first
	memoryMaxClients = 10000
)

// MemoryLimiter keeps counters in process. Used when no Redis is configured.
type MemoryLimiter struct {
	mu       sync.Mutex
	counters *expirable.LRU[string, int]
	limit    int
	now      func() time.Time
}

func NewMemoryLimiter(limit int) *MemoryLimiter {
	return &MemoryLimiter{
		counters: expirable.NewLRU[string, int](memoryMaxClients, nil, Window),
		limit:    limit,
		now:      time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	k := windowKey(memoryKeyPrefix, key, l.now())

	l.mu.Lock()
	defer l.mu.Unlock()

	count, _ := l.counters.Get(k)
	count++
	l.counters.Add(k, count)

	return count <= l.limit, nil
}
