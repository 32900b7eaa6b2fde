package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gridrivals/gridrivals/internal/infrastructure/repository/memory"
)

func TestRateLimiterCheck(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	limiter := NewRateLimiter(memory.NewRateLimitRepository())

	for i := 0; i < 2; i++ {
		if err := limiter.Check(ctx, "send", "alice", 2, time.Minute); err != nil {
			t.Fatalf("check %d: %v", i, err)
		}
	}

	err := limiter.Check(ctx, "send", "alice", 2, time.Minute)
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("err = %v, want ErrRateLimited", err)
	}

	var limited *RateLimitedError
	if !errors.As(err, &limited) {
		t.Fatalf("err = %T, want *RateLimitedError", err)
	}
	if limited.RetryAfter <= 0 {
		t.Fatalf("retry after = %v, want positive", limited.RetryAfter)
	}

	// Other identities and other operations have independent windows.
	if err := limiter.Check(ctx, "send", "bob", 2, time.Minute); err != nil {
		t.Fatalf("other identity: %v", err)
	}
	if err := limiter.Check(ctx, "verify", "alice", 2, time.Minute); err != nil {
		t.Fatalf("other operation: %v", err)
	}
}

func TestRateLimiterUnknownClientsShareOneBucket(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	limiter := NewRateLimiter(memory.NewRateLimitRepository())

	if err := limiter.Check(ctx, "send", "", 1, time.Minute); err != nil {
		t.Fatalf("first unresolved caller: %v", err)
	}
	if err := limiter.Check(ctx, "send", UnknownClientID, 1, time.Minute); err == nil {
		t.Fatal("second unresolved caller must land in the same exhausted bucket")
	}
}
