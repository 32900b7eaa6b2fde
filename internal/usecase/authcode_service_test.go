package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gridrivals/gridrivals/internal/infrastructure/repository/memory"
	"github.com/gridrivals/gridrivals/internal/platform/logging"
)

type stubMailer struct {
	mu    sync.Mutex
	sent  []string
	bodys []string
	err   error
}

func (m *stubMailer) Send(_ context.Context, to, _ string, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, to)
	m.bodys = append(m.bodys, body)

	return nil
}

func newAuthCodeFixture(mailer Mailer) (*AuthCodeService, *memory.AuthCodeRepository, *time.Time) {
	repo := memory.NewAuthCodeRepository()
	limiter := NewRateLimiter(memory.NewRateLimitRepository())
	svc := NewAuthCodeService(repo, limiter, mailer, logging.NewNop(), 5, 10*time.Minute)

	current := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return current }
	svc.newCode = func() (string, error) { return "482913", nil }

	return svc, repo, &current
}

func TestAuthCodeIssueAndVerify(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mailer := &stubMailer{}
	svc, repo, _ := newAuthCodeFixture(mailer)

	// The address is normalized before storage and delivery.
	if err := svc.Issue(ctx, "  Alice@Example.COM ", "client-a"); err != nil {
		t.Fatalf("issue: %v", err)
	}
	if len(mailer.sent) != 1 || mailer.sent[0] != "alice@example.com" {
		t.Fatalf("mailer sent to %v, want [alice@example.com]", mailer.sent)
	}

	stored, found, err := repo.Get(ctx, "alice@example.com")
	if err != nil || !found {
		t.Fatalf("stored code missing: found=%v err=%v", found, err)
	}
	if stored.Code != "482913" {
		t.Fatalf("stored code = %q, want 482913", stored.Code)
	}

	result, err := svc.Verify(ctx, "ALICE@example.com", " 482913 ")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !result.Valid {
		t.Fatalf("verify result = %+v, want valid", result)
	}

	// Single use: a correct second submission finds nothing.
	result, err = svc.Verify(ctx, "alice@example.com", "482913")
	if err != nil {
		t.Fatalf("second verify: %v", err)
	}
	if result.Valid || result.Reason != VerifyReasonNotFound {
		t.Fatalf("second verify = %+v, want invalid/not_found", result)
	}
}

func TestAuthCodeVerifyOutcomes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, repo, current := newAuthCodeFixture(&stubMailer{})

	if _, err := svc.Verify(ctx, "nobody@example.com", "000000"); err != nil {
		t.Fatalf("verify unknown email: %v", err)
	}
	result, _ := svc.Verify(ctx, "nobody@example.com", "000000")
	if result.Valid || result.Reason != VerifyReasonNotFound {
		t.Fatalf("unknown email = %+v, want not_found", result)
	}

	if err := svc.Issue(ctx, "bob@example.com", "client-a"); err != nil {
		t.Fatalf("issue: %v", err)
	}

	result, err := svc.Verify(ctx, "bob@example.com", "111111")
	if err != nil {
		t.Fatalf("verify mismatch: %v", err)
	}
	if result.Valid || result.Reason != VerifyReasonMismatch {
		t.Fatalf("mismatch = %+v, want mismatch", result)
	}

	// A mismatch must not burn the stored code.
	if _, found, _ := repo.Get(ctx, "bob@example.com"); !found {
		t.Fatal("code consumed by mismatched submission")
	}

	*current = current.Add(11 * time.Minute)
	result, err = svc.Verify(ctx, "bob@example.com", "482913")
	if err != nil {
		t.Fatalf("verify expired: %v", err)
	}
	if result.Valid || result.Reason != VerifyReasonExpired {
		t.Fatalf("expired = %+v, want expired", result)
	}

	// Expiry evicts the stale row.
	if _, found, _ := repo.Get(ctx, "bob@example.com"); found {
		t.Fatal("expired code not evicted")
	}

	if _, err := svc.Verify(ctx, "", "482913"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("blank email err = %v, want ErrInvalidInput", err)
	}
	if _, err := svc.Verify(ctx, "bob@example.com", "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("blank code err = %v, want ErrInvalidInput", err)
	}
}

func TestAuthCodeIssueCooldownPerEmail(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _, current := newAuthCodeFixture(&stubMailer{})

	if err := svc.Issue(ctx, "carol@example.com", "client-a"); err != nil {
		t.Fatalf("first issue: %v", err)
	}

	// Within the cooldown even a different client identity is refused for the
	// same address.
	err := svc.Issue(ctx, "carol@example.com", "client-b")
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("cooldown err = %v, want ErrRateLimited", err)
	}
	var limited *RateLimitedError
	if !errors.As(err, &limited) || limited.RetryAfter <= 0 || limited.RetryAfter > time.Minute {
		t.Fatalf("retry after = %v, want within (0, 1m]", limited)
	}

	*current = current.Add(61 * time.Second)
	if err := svc.Issue(ctx, "carol@example.com", "client-a"); err != nil {
		t.Fatalf("issue after cooldown: %v", err)
	}
}

func TestAuthCodeIssueClientWindow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := memory.NewAuthCodeRepository()
	limiter := NewRateLimiter(memory.NewRateLimitRepository())
	svc := NewAuthCodeService(repo, limiter, &stubMailer{}, logging.NewNop(), 2, 10*time.Minute)

	if err := svc.Issue(ctx, "a@example.com", "client-a"); err != nil {
		t.Fatalf("first issue: %v", err)
	}
	if err := svc.Issue(ctx, "b@example.com", "client-a"); err != nil {
		t.Fatalf("second issue: %v", err)
	}
	if err := svc.Issue(ctx, "c@example.com", "client-a"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("third issue err = %v, want ErrRateLimited", err)
	}
}

func TestAuthCodeIssueWithoutMailer(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := memory.NewAuthCodeRepository()
	limiter := NewRateLimiter(memory.NewRateLimitRepository())
	svc := NewAuthCodeService(repo, limiter, nil, logging.NewNop(), 5, 10*time.Minute)

	if err := svc.Issue(ctx, "a@example.com", "client-a"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
}

func TestAuthCodeVerifyConcurrentSingleWinner(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _, _ := newAuthCodeFixture(&stubMailer{})

	if err := svc.Issue(ctx, "dave@example.com", "client-a"); err != nil {
		t.Fatalf("issue: %v", err)
	}

	const callers = 8

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			result, err := svc.Verify(ctx, "dave@example.com", "482913")
			if err != nil {
				t.Errorf("verify: %v", err)
				return
			}
			if result.Valid {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Fatalf("%d valid verifications, want exactly 1", wins)
	}
}
