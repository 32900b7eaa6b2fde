package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gridrivals/gridrivals/internal/domain/invite"
)

func TestInviteRepositoryReserve(t *testing.T) {
	t.Parallel()

	repo := NewInviteRepository()
	ctx := context.Background()
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	if err := repo.Create(ctx, invite.Code{Code: "RACE2026", Status: invite.StatusActive, CreatedAt: now}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(ctx, invite.Code{Code: "RACE2026", Status: invite.StatusActive, CreatedAt: now}); err != invite.ErrCodeExists {
		t.Fatalf("duplicate create: err = %v, want %v", err, invite.ErrCodeExists)
	}

	outcome, err := repo.Reserve(ctx, "RACE2026", now)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if outcome != invite.ReserveOK {
		t.Fatalf("outcome = %v, want %v", outcome, invite.ReserveOK)
	}

	stored, ok, err := repo.Get(ctx, "RACE2026")
	if err != nil || !ok {
		t.Fatalf("get after reserve: ok=%v err=%v", ok, err)
	}
	if stored.Status != invite.StatusReserved {
		t.Fatalf("status = %q, want %q", stored.Status, invite.StatusReserved)
	}
	if stored.ReservedAt == nil || !stored.ReservedAt.Equal(now) {
		t.Fatalf("reservedAt = %v, want %v", stored.ReservedAt, now)
	}

	outcome, err = repo.Reserve(ctx, "RACE2026", now)
	if err != nil {
		t.Fatalf("second reserve: %v", err)
	}
	if outcome != invite.ReserveAlreadyUsed {
		t.Fatalf("second outcome = %v, want %v", outcome, invite.ReserveAlreadyUsed)
	}

	outcome, err = repo.Reserve(ctx, "NOPE", now)
	if err != nil {
		t.Fatalf("missing reserve: %v", err)
	}
	if outcome != invite.ReserveNotFound {
		t.Fatalf("missing outcome = %v, want %v", outcome, invite.ReserveNotFound)
	}
}

func TestInviteRepositoryReserveConcurrent(t *testing.T) {
	t.Parallel()

	repo := NewInviteRepository()
	ctx := context.Background()
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	if err := repo.Create(ctx, invite.Code{Code: "ONESHOT", Status: invite.StatusActive, CreatedAt: now}); err != nil {
		t.Fatalf("create: %v", err)
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

			outcome, err := repo.Reserve(ctx, "ONESHOT", now)
			if err != nil {
				t.Errorf("reserve: %v", err)
				return
			}
			if outcome == invite.ReserveOK {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Fatalf("%d callers reserved the code, want exactly 1", wins)
	}
}
