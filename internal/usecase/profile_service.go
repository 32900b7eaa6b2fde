package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gridrivals/gridrivals/internal/domain/participant"
)

// ProfileService owns the storable parts of a participant profile.
type ProfileService struct {
	repo participant.Repository
	now  func() time.Time
}

func NewProfileService(repo participant.Repository) *ProfileService {
	return &ProfileService{
		repo: repo,
		now:  time.Now,
	}
}

func (s *ProfileService) Get(ctx context.Context, participantID string) (participant.Participant, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProfileService.Get")
	defer span.End()

	p, found, err := s.repo.GetByID(ctx, participantID)
	if err != nil {
		return participant.Participant{}, fmt.Errorf("get participant: %w", err)
	}
	if !found {
		return participant.Participant{}, fmt.Errorf("%w: participant %s", ErrNotFound, participantID)
	}

	return p, nil
}

// UpdateDisplayName validates and stores a participant's display name,
// creating the participant record on first write.
func (s *ProfileService) UpdateDisplayName(ctx context.Context, participantID, displayName, email string) (participant.Participant, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProfileService.UpdateDisplayName")
	defer span.End()

	participantID = strings.TrimSpace(participantID)
	if participantID == "" {
		return participant.Participant{}, fmt.Errorf("%w: participant id is required", ErrInvalidInput)
	}
	if err := participant.ValidateDisplayName(displayName); err != nil {
		return participant.Participant{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	existing, found, err := s.repo.GetByID(ctx, participantID)
	if err != nil {
		return participant.Participant{}, fmt.Errorf("get participant: %w", err)
	}

	out := existing
	out.ID = participantID
	out.DisplayName = displayName
	if email = normalizeEmail(email); email != "" {
		out.Email = email
	}
	if !found {
		out.CreatedAt = s.now().UTC()
	}

	if err := s.repo.Upsert(ctx, out); err != nil {
		return participant.Participant{}, fmt.Errorf("upsert participant: %w", err)
	}

	return out, nil
}
