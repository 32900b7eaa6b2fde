package memory

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestRateLimitRepositoryTake(t *testing.T) {
	t.Parallel()

	repo := NewRateLimitRepository()
	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	current := base
	repo.now = func() time.Time { return current }

	ctx := context.Background()

	for i := 0; i < 3; i++ {
		decision, err := repo.Take(ctx, "send:alice", 3, time.Minute)
		if err != nil {
			t.Fatalf("take %d: %v", i, err)
		}
		if !decision.Allowed {
			t.Fatalf("take %d: expected allowed", i)
		}
		if decision.Remaining != 2-i {
			t.Fatalf("take %d: remaining = %d, want %d", i, decision.Remaining, 2-i)
		}
	}

	decision, err := repo.Take(ctx, "send:alice", 3, time.Minute)
	if err != nil {
		t.Fatalf("take over limit: %v", err)
	}
	if decision.Allowed {
		t.Fatal("expected denial past the limit")
	}
	if decision.RetryAfter != time.Minute {
		t.Fatalf("retry after = %v, want %v", decision.RetryAfter, time.Minute)
	}

	// A different key has its own counter.
	decision, err = repo.Take(ctx, "send:bob", 3, time.Minute)
	if err != nil {
		t.Fatalf("take other key: %v", err)
	}
	if !decision.Allowed {
		t.Fatal("expected other key to be allowed")
	}

	// Once the window lapses, the counter resets rather than decays.
	current = base.Add(time.Minute)
	decision, err = repo.Take(ctx, "send:alice", 3, time.Minute)
	if err != nil {
		t.Fatalf("take after reset: %v", err)
	}
	if !decision.Allowed || decision.Remaining != 2 {
		t.Fatalf("after reset: allowed=%v remaining=%d, want allowed with 2 remaining", decision.Allowed, decision.Remaining)
	}
}

func TestRateLimitRepositoryTakeConcurrent(t *testing.T) {
	t.Parallel()

	repo := NewRateLimitRepository()
	ctx := context.Background()

	const (
		callers = 32
		limit   = 10
	)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			decision, err := repo.Take(ctx, "verify:shared", limit, time.Minute)
			if err != nil {
				t.Errorf("take: %v", err)
				return
			}
			if decision.Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowed != limit {
		t.Fatalf("allowed %d callers, want exactly %d", allowed, limit)
	}
}
