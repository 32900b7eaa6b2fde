package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/gridrivals/gridrivals/internal/domain/participant"
)

const (
	manualRollupLimit  = 5
	manualRollupWindow = 5 * time.Minute
)

// AdminService hosts the administrator-only mutations: the manual rollup
// trigger and invitation-code minting.
type AdminService struct {
	participantRepo participant.Repository
	limiter         *RateLimiter
	rollup          *RollupService
	invites         *InviteService
}

func NewAdminService(
	participantRepo participant.Repository,
	limiter *RateLimiter,
	rollup *RollupService,
	invites *InviteService,
) *AdminService {
	return &AdminService{
		participantRepo: participantRepo,
		limiter:         limiter,
		rollup:          rollup,
		invites:         invites,
	}
}

// TriggerRollup runs a full recalculation on behalf of an administrator.
func (s *AdminService) TriggerRollup(ctx context.Context, callerID, clientID string) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AdminService.TriggerRollup")
	defer span.End()

	if err := s.requireAdmin(ctx, callerID); err != nil {
		return 0, err
	}
	if err := s.limiter.Check(ctx, "rollup:manual", clientID, manualRollupLimit, manualRollupWindow); err != nil {
		return 0, err
	}

	processed, err := s.rollup.RecalculateAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("recalculate leaderboard: %w", err)
	}

	return processed, nil
}

// GenerateInvites mints count invitation codes on behalf of an administrator.
func (s *AdminService) GenerateInvites(ctx context.Context, callerID string, count int) ([]string, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AdminService.GenerateInvites")
	defer span.End()

	if err := s.requireAdmin(ctx, callerID); err != nil {
		return nil, err
	}

	return s.invites.Generate(ctx, count)
}

func (s *AdminService) requireAdmin(ctx context.Context, callerID string) error {
	if callerID == "" {
		return fmt.Errorf("%w: caller identity is required", ErrUnauthorized)
	}

	caller, found, err := s.participantRepo.GetByID(ctx, callerID)
	if err != nil {
		return fmt.Errorf("get caller participant: %w", err)
	}
	if !found || !caller.IsAdmin {
		return fmt.Errorf("%w: administrator role required", ErrForbidden)
	}

	return nil
}
