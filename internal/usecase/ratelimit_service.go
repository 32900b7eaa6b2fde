package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/gridrivals/gridrivals/internal/domain/ratelimit"
)

// UnknownClientID is the shared bucket for callers whose identity could not be
// resolved. All such callers share one window; degraded but safe.
const UnknownClientID = "unknown"

// RateLimiter gates sensitive operations with a fixed-window counter per
// (operation, client identity). The atomic take lives in the repository.
type RateLimiter struct {
	repo ratelimit.Repository
}

func NewRateLimiter(repo ratelimit.Repository) *RateLimiter {
	return &RateLimiter{repo: repo}
}

// Check consumes one attempt and fails with RateLimitedError when the window
// is exhausted.
func (l *RateLimiter) Check(ctx context.Context, operation, clientID string, limit int, window time.Duration) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.RateLimiter.Check")
	defer span.End()

	if clientID == "" {
		clientID = UnknownClientID
	}

	decision, err := l.repo.Take(ctx, operation+":"+clientID, limit, window)
	if err != nil {
		return fmt.Errorf("take rate limit counter: %w", err)
	}
	if !decision.Allowed {
		return &RateLimitedError{RetryAfter: decision.RetryAfter}
	}

	return nil
}
