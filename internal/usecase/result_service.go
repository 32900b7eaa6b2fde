package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gridrivals/gridrivals/internal/domain/event"
	"github.com/gridrivals/gridrivals/internal/domain/participant"
	"github.com/gridrivals/gridrivals/internal/domain/schedule"
)

type UpsertResultInput struct {
	CallerID         string
	EventID          string
	GrandPrixFinish  []string
	SprintFinish     []string
	GrandPrixQuali   []string
	SprintQuali      []string
	FastestLapDriver string
	TeamByDriver     map[string]string
	Finalize         bool
}

// ResultService maintains event results. Every successful upsert notifies the
// repository's change listener, which drives the automatic rollup.
type ResultService struct {
	eventRepo       event.Repository
	scheduleRepo    schedule.Repository
	participantRepo participant.Repository
	now             func() time.Time
}

func NewResultService(
	eventRepo event.Repository,
	scheduleRepo schedule.Repository,
	participantRepo participant.Repository,
) *ResultService {
	return &ResultService{
		eventRepo:       eventRepo,
		scheduleRepo:    scheduleRepo,
		participantRepo: participantRepo,
		now:             time.Now,
	}
}

// Upsert stores the result for one event. Finalizing a result for the first
// time embeds a snapshot of the schedule in force, pinning that event's
// scoring forever; an already-pinned result keeps its original snapshot.
func (s *ResultService) Upsert(ctx context.Context, input UpsertResultInput) (event.Result, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResultService.Upsert")
	defer span.End()

	if err := s.requireAdmin(ctx, input.CallerID); err != nil {
		return event.Result{}, err
	}

	eventID := strings.TrimSpace(input.EventID)
	if eventID == "" {
		return event.Result{}, fmt.Errorf("%w: event_id is required", ErrInvalidInput)
	}

	result := event.Result{
		EventID:          eventID,
		GrandPrixFinish:  input.GrandPrixFinish,
		SprintFinish:     input.SprintFinish,
		GrandPrixQuali:   input.GrandPrixQuali,
		SprintQuali:      input.SprintQuali,
		FastestLapDriver: strings.TrimSpace(input.FastestLapDriver),
		TeamByDriver:     input.TeamByDriver,
		Finalized:        input.Finalize,
		UpdatedAt:        s.now().UTC(),
	}

	if existing, found, err := s.eventRepo.GetResult(ctx, eventID); err != nil {
		return event.Result{}, fmt.Errorf("get existing result: %w", err)
	} else if found && existing.ScheduleSnapshot != nil {
		result.ScheduleSnapshot = existing.ScheduleSnapshot
		result.Finalized = true
	} else if input.Finalize {
		snapshot := s.scheduleInForce(ctx)
		result.ScheduleSnapshot = &snapshot
	}

	if err := s.eventRepo.UpsertResult(ctx, result); err != nil {
		return event.Result{}, fmt.Errorf("upsert event result: %w", err)
	}

	return result, nil
}

func (s *ResultService) Get(ctx context.Context, eventID string) (event.Result, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResultService.Get")
	defer span.End()

	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return event.Result{}, fmt.Errorf("%w: event_id is required", ErrInvalidInput)
	}

	result, found, err := s.eventRepo.GetResult(ctx, eventID)
	if err != nil {
		return event.Result{}, fmt.Errorf("get event result: %w", err)
	}
	if !found {
		return event.Result{}, fmt.Errorf("%w: no result for event %s", ErrNotFound, eventID)
	}

	return result, nil
}

func (s *ResultService) List(ctx context.Context) ([]event.Result, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResultService.List")
	defer span.End()

	results, err := s.eventRepo.ListResults(ctx)
	if err != nil {
		return nil, fmt.Errorf("list event results: %w", err)
	}

	return results, nil
}

func (s *ResultService) scheduleInForce(ctx context.Context) schedule.PointsSchedule {
	cfg, found, err := s.scheduleRepo.Get(ctx)
	if err != nil || !found {
		return schedule.Default()
	}
	if active, ok := cfg.Active(); ok {
		return active
	}
	return schedule.Default()
}

func (s *ResultService) requireAdmin(ctx context.Context, callerID string) error {
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
