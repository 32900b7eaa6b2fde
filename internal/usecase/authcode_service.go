package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gridrivals/gridrivals/internal/domain/authcode"
	"github.com/gridrivals/gridrivals/internal/platform/id"
	"github.com/gridrivals/gridrivals/internal/platform/logging"
)

const (
	authCodeDigits          = 6
	defaultAuthCodeTTL      = 10 * time.Minute
	defaultAuthCodeCooldown = 60 * time.Second
)

// Mailer is the opaque message-send sink for verification codes.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// VerifyResult is the structured, non-throwing outcome of a code check, so the
// calling surface can tell "retry with new input" apart from request failure.
type VerifyResult struct {
	Valid  bool
	Reason string
}

const (
	VerifyReasonNotFound = "not_found"
	VerifyReasonExpired  = "expired"
	VerifyReasonMismatch = "mismatch"
)

// AuthCodeService issues and verifies single-use email verification codes.
// Issuance is double-gated: a per-client fixed window plus a per-email
// cooldown. Verification success only unlocks the next signup step; it does
// not create an account.
type AuthCodeService struct {
	repo        authcode.Repository
	limiter     *RateLimiter
	mailer      Mailer
	logger      *logging.Logger
	newCode     func() (string, error)
	now         func() time.Time
	ttl         time.Duration
	cooldown    time.Duration
	issueLimit  int
	issueWindow time.Duration
}

func NewAuthCodeService(
	repo authcode.Repository,
	limiter *RateLimiter,
	mailer Mailer,
	logger *logging.Logger,
	issueLimit int,
	issueWindow time.Duration,
) *AuthCodeService {
	if logger == nil {
		logger = logging.Default()
	}
	if issueLimit <= 0 {
		issueLimit = 5
	}
	if issueWindow <= 0 {
		issueWindow = 10 * time.Minute
	}

	return &AuthCodeService{
		repo:        repo,
		limiter:     limiter,
		mailer:      mailer,
		logger:      logger,
		newCode:     func() (string, error) { return id.NewNumericCode(authCodeDigits) },
		now:         time.Now,
		ttl:         defaultAuthCodeTTL,
		cooldown:    defaultAuthCodeCooldown,
		issueLimit:  issueLimit,
		issueWindow: issueWindow,
	}
}

// Issue generates a fresh code for the email and hands it to the mailer.
func (s *AuthCodeService) Issue(ctx context.Context, email, clientID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuthCodeService.Issue")
	defer span.End()

	email = normalizeEmail(email)
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if s.mailer == nil {
		return fmt.Errorf("%w: mail delivery is not configured", ErrNotConfigured)
	}

	if err := s.limiter.Check(ctx, "authcode:send", clientID, s.issueLimit, s.issueWindow); err != nil {
		return err
	}

	now := s.now().UTC()
	if existing, found, err := s.repo.Get(ctx, email); err != nil {
		return fmt.Errorf("get existing auth code: %w", err)
	} else if found {
		// One issuance per cooldown per email, independent of the client
		// identity window above.
		if elapsed := now.Sub(existing.IssuedAt); elapsed < s.cooldown {
			return &RateLimitedError{RetryAfter: s.cooldown - elapsed}
		}
	}

	code, err := s.newCode()
	if err != nil {
		return fmt.Errorf("generate auth code: %w", err)
	}

	if err := s.repo.Upsert(ctx, authcode.Code{
		Email:     email,
		Code:      code,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}); err != nil {
		return fmt.Errorf("store auth code: %w", err)
	}

	body := fmt.Sprintf("Your Grid Rivals verification code is %s. It expires in %d minutes.",
		code, int(s.ttl.Minutes()))
	if err := s.mailer.Send(ctx, email, "Your verification code", body); err != nil {
		return fmt.Errorf("send verification code: %w", err)
	}

	return nil
}

// Verify checks the submitted code and consumes it on success. Ledger-state
// conflicts come back as a VerifyResult, not an error.
func (s *AuthCodeService) Verify(ctx context.Context, email, submitted string) (VerifyResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuthCodeService.Verify")
	defer span.End()

	email = normalizeEmail(email)
	submitted = strings.TrimSpace(submitted)
	if email == "" || submitted == "" {
		return VerifyResult{}, fmt.Errorf("%w: email and code are required", ErrInvalidInput)
	}

	stored, found, err := s.repo.Get(ctx, email)
	if err != nil {
		return VerifyResult{}, fmt.Errorf("get auth code: %w", err)
	}
	if !found {
		return VerifyResult{Valid: false, Reason: VerifyReasonNotFound}, nil
	}

	now := s.now().UTC()
	if stored.ExpiredAt(now) {
		if err := s.repo.Delete(ctx, email); err != nil {
			s.logger.WarnContext(ctx, "delete expired auth code failed", "error", err)
		}
		return VerifyResult{Valid: false, Reason: VerifyReasonExpired}, nil
	}
	if stored.Code != submitted {
		return VerifyResult{Valid: false, Reason: VerifyReasonMismatch}, nil
	}

	consumed, err := s.repo.ConsumeMatching(ctx, email, submitted)
	if err != nil {
		return VerifyResult{}, fmt.Errorf("consume auth code: %w", err)
	}
	if !consumed {
		// Another verification won the race; the code is single-use.
		return VerifyResult{Valid: false, Reason: VerifyReasonNotFound}, nil
	}

	return VerifyResult{Valid: true}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
