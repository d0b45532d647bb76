// Package ratelimit caps how often a single client may call the analysis
// endpoint. Counters are kept per fixed one-minute window.
package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// Window is the length of one counting period.
const Window = time.Minute

// Limiter decides whether the client identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// windowKey names the counter for key during the window containing now.
func windowKey(prefix, key string, now time.Time) string {
	return fmt.Sprintf("%s:%s:%d", prefix, key, now.Unix()/int64(Window/time.Second))
}
