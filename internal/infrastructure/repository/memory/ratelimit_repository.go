package memory

import (
	"context"
	"sync"
	"time"

	"github.com/gridrivals/gridrivals/internal/domain/ratelimit"
)

type RateLimitRepository struct {
	mu       sync.Mutex
	counters map[string]ratelimit.Counter
	now      func() time.Time
}

func NewRateLimitRepository() *RateLimitRepository {
	return &RateLimitRepository{
		counters: make(map[string]ratelimit.Counter),
		now:      time.Now,
	}
}

// Take reads, resets, and increments the counter inside one critical
// section. Concurrent callers racing on the same key cannot both take
// the last slot of a window.
func (r *RateLimitRepository) Take(_ context.Context, key string, limit int, window time.Duration) (ratelimit.Decision, error) {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	counter, ok := r.counters[key]
	if !ok || !now.Before(counter.WindowResetAt) {
		counter = ratelimit.Counter{
			Key:           key,
			Count:         0,
			WindowResetAt: now.Add(window),
		}
	}

	if counter.Count >= limit {
		return ratelimit.Decision{
			Allowed:    false,
			Remaining:  0,
			RetryAfter: counter.WindowResetAt.Sub(now),
		}, nil
	}

	counter.Count++
	r.counters[key] = counter

	return ratelimit.Decision{
		Allowed:   true,
		Remaining: limit - counter.Count,
	}, nil
}
