package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gridrivals/gridrivals/internal/domain/picks"
)

type SavePicksInput struct {
	ParticipantID    string
	EventID          string
	TeamIDs          []string
	CaptainTeamID    string
	DriverIDs        []string
	ReserveDriverIDs []string
	FastestLapDriver string
	Penalty          float64
}

// PicksService stores participant selections. Lock-time enforcement lives
// with the surrounding application; this service stores what it is given.
type PicksService struct {
	repo picks.Repository
	now  func() time.Time
}

func NewPicksService(repo picks.Repository) *PicksService {
	return &PicksService{
		repo: repo,
		now:  time.Now,
	}
}

func (s *PicksService) Save(ctx context.Context, input SavePicksInput) (picks.Picks, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PicksService.Save")
	defer span.End()

	p := picks.Picks{
		ParticipantID:    strings.TrimSpace(input.ParticipantID),
		EventID:          strings.TrimSpace(input.EventID),
		TeamIDs:          input.TeamIDs,
		CaptainTeamID:    strings.TrimSpace(input.CaptainTeamID),
		DriverIDs:        input.DriverIDs,
		ReserveDriverIDs: input.ReserveDriverIDs,
		FastestLapDriver: strings.TrimSpace(input.FastestLapDriver),
		Penalty:          input.Penalty,
		UpdatedAt:        s.now().UTC(),
	}
	if err := p.ValidateBasic(); err != nil {
		return picks.Picks{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.repo.Upsert(ctx, p); err != nil {
		return picks.Picks{}, fmt.Errorf("upsert picks: %w", err)
	}

	return p, nil
}

func (s *PicksService) Get(ctx context.Context, participantID, eventID string) (picks.Picks, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PicksService.Get")
	defer span.End()

	p, found, err := s.repo.Get(ctx, participantID, eventID)
	if err != nil {
		return picks.Picks{}, fmt.Errorf("get picks: %w", err)
	}
	if !found {
		return picks.Picks{}, fmt.Errorf("%w: no picks for event %s", ErrNotFound, eventID)
	}

	return p, nil
}

func (s *PicksService) ListByParticipant(ctx context.Context, participantID string) ([]picks.Picks, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PicksService.ListByParticipant")
	defer span.End()

	out, err := s.repo.ListByParticipant(ctx, participantID)
	if err != nil {
		return nil, fmt.Errorf("list picks by participant: %w", err)
	}

	return out, nil
}
