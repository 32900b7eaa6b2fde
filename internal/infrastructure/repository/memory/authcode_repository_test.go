package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gridrivals/gridrivals/internal/domain/authcode"
)

func TestAuthCodeRepositoryConsumeMatching(t *testing.T) {
	t.Parallel()

	repo := NewAuthCodeRepository()
	ctx := context.Background()
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	code := authcode.Code{
		Email:     "alice@example.com",
		Code:      "482913",
		IssuedAt:  now,
		ExpiresAt: now.Add(10 * time.Minute),
	}
	if err := repo.Upsert(ctx, code); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	ok, err := repo.ConsumeMatching(ctx, "alice@example.com", "000000")
	if err != nil {
		t.Fatalf("consume mismatch: %v", err)
	}
	if ok {
		t.Fatal("mismatched code must not consume")
	}

	// The mismatch above must leave the code in place.
	if _, found, _ := repo.Get(ctx, "alice@example.com"); !found {
		t.Fatal("code vanished after mismatched consume")
	}

	ok, err = repo.ConsumeMatching(ctx, "alice@example.com", "482913")
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	if !ok {
		t.Fatal("matching code must consume")
	}

	ok, err = repo.ConsumeMatching(ctx, "alice@example.com", "482913")
	if err != nil {
		t.Fatalf("second consume: %v", err)
	}
	if ok {
		t.Fatal("consumed code must not consume twice")
	}
}

func TestAuthCodeRepositoryConsumeMatchingConcurrent(t *testing.T) {
	t.Parallel()

	repo := NewAuthCodeRepository()
	ctx := context.Background()
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	if err := repo.Upsert(ctx, authcode.Code{
		Email:     "bob@example.com",
		Code:      "551177",
		IssuedAt:  now,
		ExpiresAt: now.Add(10 * time.Minute),
	}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	const callers = 16

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			ok, err := repo.ConsumeMatching(ctx, "bob@example.com", "551177")
			if err != nil {
				t.Errorf("consume: %v", err)
				return
			}
			if ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Fatalf("%d callers consumed the code, want exactly 1", wins)
	}
}
