package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gridrivals/gridrivals/internal/domain/invite"
	"github.com/gridrivals/gridrivals/internal/infrastructure/repository/memory"
)

func newInviteService(repo invite.Repository) *InviteService {
	limiter := NewRateLimiter(memory.NewRateLimitRepository())
	return NewInviteService(repo, limiter, 10, 10*time.Minute)
}

func TestInviteValidate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := memory.NewInviteRepository()
	svc := newInviteService(repo)

	if err := repo.Create(ctx, invite.Code{Code: "RACE2026", Status: invite.StatusActive}); err != nil {
		t.Fatalf("seed code: %v", err)
	}

	// Input is case-folded and trimmed before lookup.
	if err := svc.Validate(ctx, "  race2026 ", "client-a"); err != nil {
		t.Fatalf("validate: %v", err)
	}

	if err := svc.Validate(ctx, "RACE2026", "client-b"); !errors.Is(err, ErrAlreadyUsed) {
		t.Fatalf("second validate err = %v, want ErrAlreadyUsed", err)
	}
	if err := svc.Validate(ctx, "MISSING1", "client-a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown code err = %v, want ErrNotFound", err)
	}
	if err := svc.Validate(ctx, "   ", "client-a"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("blank code err = %v, want ErrInvalidInput", err)
	}
}

func TestInviteValidateRateLimited(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := memory.NewInviteRepository()
	limiter := NewRateLimiter(memory.NewRateLimitRepository())
	svc := NewInviteService(repo, limiter, 2, time.Minute)

	for i := 0; i < 2; i++ {
		if err := svc.Validate(ctx, "NOPE", "client-a"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("attempt %d err = %v, want ErrNotFound", i, err)
		}
	}

	// The third attempt is refused before the ledger is consulted.
	if err := svc.Validate(ctx, "NOPE", "client-a"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("limited err = %v, want ErrRateLimited", err)
	}
}

func TestInviteValidateConcurrentSingleWinner(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := memory.NewInviteRepository()
	svc := newInviteService(repo)

	if err := repo.Create(ctx, invite.Code{Code: "ONESHOT1", Status: invite.StatusActive}); err != nil {
		t.Fatalf("seed code: %v", err)
	}

	const callers = 8

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < callers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()

			err := svc.Validate(ctx, "ONESHOT1", "client-"+string(rune('a'+i)))
			switch {
			case err == nil:
				mu.Lock()
				wins++
				mu.Unlock()
			case errors.Is(err, ErrAlreadyUsed):
			default:
				t.Errorf("unexpected err: %v", err)
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Fatalf("%d winners, want exactly 1", wins)
	}
}

func TestInviteGenerate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := memory.NewInviteRepository()
	svc := newInviteService(repo)

	codes, err := svc.Generate(ctx, 5)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(codes) != 5 {
		t.Fatalf("generated %d codes, want 5", len(codes))
	}

	seen := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		if len(code) != inviteCodeLength {
			t.Fatalf("code %q has length %d, want %d", code, len(code), inviteCodeLength)
		}
		if _, dup := seen[code]; dup {
			t.Fatalf("duplicate code %q", code)
		}
		seen[code] = struct{}{}

		stored, found, err := repo.Get(ctx, code)
		if err != nil || !found {
			t.Fatalf("code %q not persisted: found=%v err=%v", code, found, err)
		}
		if stored.Status != invite.StatusActive {
			t.Fatalf("code %q status = %q, want %q", code, stored.Status, invite.StatusActive)
		}
	}

	if _, err := svc.Generate(ctx, 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("count 0 err = %v, want ErrInvalidInput", err)
	}
	if _, err := svc.Generate(ctx, inviteGenerateMaxCount+1); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("oversized count err = %v, want ErrInvalidInput", err)
	}
}
