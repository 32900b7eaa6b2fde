package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/gridrivals/gridrivals/internal/domain/ratelimit"
)

type rateLimitCounterTableModel struct {
	Key           string    `db:"key"`
	Count         int       `db:"count"`
	WindowResetAt time.Time `db:"window_reset_at"`
}

type RateLimitRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewRateLimitRepository(db *sqlx.DB) *RateLimitRepository {
	return &RateLimitRepository{db: db, now: time.Now}
}

// Single-statement check-and-increment. The conditional upsert only lands when
// the window lapsed or the counter still has room; a denied attempt matches no
// row and falls through to the read below.
const takeQuery = `
INSERT INTO rate_limit_counters (key, count, window_reset_at)
VALUES ($1, 1, $2)
ON CONFLICT (key) DO UPDATE SET
    count = CASE
        WHEN rate_limit_counters.window_reset_at <= $3 THEN 1
        ELSE rate_limit_counters.count + 1
    END,
    window_reset_at = CASE
        WHEN rate_limit_counters.window_reset_at <= $3 THEN $2
        ELSE rate_limit_counters.window_reset_at
    END
WHERE rate_limit_counters.window_reset_at <= $3
   OR rate_limit_counters.count < $4
RETURNING count, window_reset_at`

func (r *RateLimitRepository) Take(ctx context.Context, key string, limit int, window time.Duration) (ratelimit.Decision, error) {
	now := r.now().UTC()
	resetAt := now.Add(window)

	var row rateLimitCounterTableModel
	err := r.db.QueryRowxContext(ctx, takeQuery, key, resetAt, now, limit).
		Scan(&row.Count, &row.WindowResetAt)
	if err == nil {
		return ratelimit.Decision{
			Allowed:   true,
			Remaining: limit - row.Count,
		}, nil
	}
	if !isNotFound(err) {
		return ratelimit.Decision{}, fmt.Errorf("take rate limit counter %s: %w", key, err)
	}

	var current rateLimitCounterTableModel
	if err := r.db.GetContext(ctx, &current,
		"SELECT key, count, window_reset_at FROM rate_limit_counters WHERE key = $1", key); err != nil {
		return ratelimit.Decision{}, fmt.Errorf("read denied rate limit counter %s: %w", key, err)
	}

	retryAfter := current.WindowResetAt.Sub(now)
	if retryAfter < 0 {
		retryAfter = 0
	}

	return ratelimit.Decision{
		Allowed:    false,
		Remaining:  0,
		RetryAfter: retryAfter,
	}, nil
}
