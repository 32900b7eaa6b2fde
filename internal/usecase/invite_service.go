package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gridrivals/gridrivals/internal/domain/invite"
	"github.com/gridrivals/gridrivals/internal/platform/id"
)

const (
	inviteCodeLength          = 8
	inviteGenerateMaxAttempts = 3
	inviteGenerateMaxCount    = 100
)

// InviteService validates (and thereby reserves) single-use invitation codes
// and lets administrators mint new ones.
type InviteService struct {
	repo    invite.Repository
	limiter *RateLimiter
	limit   int
	window  time.Duration
	now     func() time.Time
}

func NewInviteService(repo invite.Repository, limiter *RateLimiter, limit int, window time.Duration) *InviteService {
	if limit <= 0 {
		limit = 10
	}
	if window <= 0 {
		window = 10 * time.Minute
	}

	return &InviteService{
		repo:    repo,
		limiter: limiter,
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
}

// Validate reserves the code for the caller. A successful return means this
// call won the single-use claim; every later attempt on the same code fails
// with ErrAlreadyUsed.
func (s *InviteService) Validate(ctx context.Context, code, clientID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.InviteService.Validate")
	defer span.End()

	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return fmt.Errorf("%w: code is required", ErrInvalidInput)
	}

	if err := s.limiter.Check(ctx, "invite:validate", clientID, s.limit, s.window); err != nil {
		return err
	}

	outcome, err := s.repo.Reserve(ctx, code, s.now().UTC())
	if err != nil {
		return fmt.Errorf("reserve invite code: %w", err)
	}

	switch outcome {
	case invite.ReserveOK:
		return nil
	case invite.ReserveNotFound:
		return fmt.Errorf("%w: unknown invite code", ErrNotFound)
	case invite.ReserveAlreadyUsed:
		return fmt.Errorf("%w: invite code was already redeemed", ErrAlreadyUsed)
	default:
		return fmt.Errorf("unexpected reserve outcome %d", outcome)
	}
}

// Generate mints count fresh invitation codes.
func (s *InviteService) Generate(ctx context.Context, count int) ([]string, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.InviteService.Generate")
	defer span.End()

	if count <= 0 || count > inviteGenerateMaxCount {
		return nil, fmt.Errorf("%w: count must be in 1..%d", ErrInvalidInput, inviteGenerateMaxCount)
	}

	now := s.now().UTC()
	codes := make([]string, 0, count)
	for len(codes) < count {
		created := false
		for attempt := 0; attempt < inviteGenerateMaxAttempts; attempt++ {
			code, err := id.NewInviteCode(inviteCodeLength)
			if err != nil {
				return nil, fmt.Errorf("generate invite code: %w", err)
			}

			err = s.repo.Create(ctx, invite.Code{
				Code:      code,
				Status:    invite.StatusActive,
				CreatedAt: now,
			})
			if err == nil {
				codes = append(codes, code)
				created = true
				break
			}
			if !errors.Is(err, invite.ErrCodeExists) {
				return nil, fmt.Errorf("create invite code: %w", err)
			}
		}
		if !created {
			return nil, fmt.Errorf("generate unique invite code after %d attempts", inviteGenerateMaxAttempts)
		}
	}

	return codes, nil
}
