package ratelimit

import (
	"context"
	"time"
)

type Repository interface {
	// Take runs the whole read-check-write as one indivisible unit: initialize
	// or reset the counter when the window elapsed, otherwise increment up to
	// limit. Two concurrent takes on the same key must never both observe the
	// same count.
	Take(ctx context.Context, key string, limit int, window time.Duration) (Decision, error)
}
