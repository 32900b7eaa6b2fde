package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/gridrivals/gridrivals/internal/domain/event"
	"github.com/gridrivals/gridrivals/internal/domain/leaderboard"
	"github.com/gridrivals/gridrivals/internal/domain/participant"
	"github.com/gridrivals/gridrivals/internal/domain/picks"
	"github.com/gridrivals/gridrivals/internal/domain/roster"
	"github.com/gridrivals/gridrivals/internal/domain/schedule"
	"github.com/gridrivals/gridrivals/internal/platform/logging"
)

const defaultRollupWorkers = 8

// RollupService recomputes every participant's total, breakdown and rank from
// scratch and replaces the leaderboard snapshot in one commit. Brute force on
// purpose: recompute-everything keeps the operation idempotent and free of
// incremental-update state.
type RollupService struct {
	eventRepo       event.Repository
	picksRepo       picks.Repository
	rosterRepo      roster.Repository
	scheduleRepo    schedule.Repository
	participantRepo participant.Repository
	boardRepo       leaderboard.Repository
	logger          *logging.Logger
	now             func() time.Time
	maxWorkers      int
}

func NewRollupService(
	eventRepo event.Repository,
	picksRepo picks.Repository,
	rosterRepo roster.Repository,
	scheduleRepo schedule.Repository,
	participantRepo participant.Repository,
	boardRepo leaderboard.Repository,
	logger *logging.Logger,
	maxWorkers int,
) *RollupService {
	if logger == nil {
		logger = logging.Default()
	}
	if maxWorkers <= 0 {
		maxWorkers = defaultRollupWorkers
	}

	return &RollupService{
		eventRepo:       eventRepo,
		picksRepo:       picksRepo,
		rosterRepo:      rosterRepo,
		scheduleRepo:    scheduleRepo,
		participantRepo: participantRepo,
		boardRepo:       boardRepo,
		logger:          logger,
		now:             time.Now,
		maxWorkers:      maxWorkers,
	}
}

// RecalculateAll scores the whole population and persists the ranked snapshot.
// It returns the number of participants processed. When no results exist yet
// it returns zero and performs no writes.
func (s *RollupService) RecalculateAll(ctx context.Context) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RollupService.RecalculateAll")
	defer span.End()

	results, err := s.eventRepo.ListResults(ctx)
	if err != nil {
		return 0, fmt.Errorf("list event results: %w", err)
	}
	if len(results) == 0 {
		s.logger.InfoContext(ctx, "rollup skipped, no results published yet")
		return 0, nil
	}

	liveSchedule := s.resolveLiveSchedule(ctx)

	drivers, err := s.rosterRepo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list roster: %w", err)
	}
	teamByDriver := roster.TeamByDriver(drivers)

	participants, err := s.participantRepo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list participants: %w", err)
	}

	allPicks, err := s.picksRepo.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("list picks: %w", err)
	}
	picksByParticipant := make(map[string][]picks.Picks, len(participants))
	for _, p := range allPicks {
		picksByParticipant[p.ParticipantID] = append(picksByParticipant[p.ParticipantID], p)
	}

	resultByEvent := make(map[string]event.Result, len(results))
	scheduleByEvent := make(map[string]schedule.PointsSchedule, len(results))
	for _, res := range results {
		resultByEvent[res.EventID] = res
		// A finalized result's embedded snapshot always wins over the live
		// schedule so historical scores never drift.
		if res.ScheduleSnapshot != nil {
			scheduleByEvent[res.EventID] = *res.ScheduleSnapshot
		} else {
			scheduleByEvent[res.EventID] = liveSchedule
		}
	}

	entries := make([]leaderboard.Entry, len(participants))

	pool, err := ants.NewPool(s.maxWorkers)
	if err != nil {
		return 0, fmt.Errorf("create rollup worker pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for idx := range participants {
		idx := idx
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			entries[idx] = s.scoreParticipant(
				participants[idx],
				picksByParticipant[participants[idx].ID],
				resultByEvent,
				scheduleByEvent,
				teamByDriver,
			)
		})
		if submitErr != nil {
			wg.Done()
			return 0, fmt.Errorf("submit scoring task: %w", submitErr)
		}
	}
	wg.Wait()

	// Ranking needs every total, so sorting happens strictly after the
	// fan-out completes. Ties break on participant ID to keep the ordering
	// deterministic across runs.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Total != entries[j].Total {
			return entries[i].Total > entries[j].Total
		}
		return entries[i].ParticipantID < entries[j].ParticipantID
	})

	updatedAt := s.now().UTC()
	for i := range entries {
		entries[i].Rank = i + 1
		entries[i].UpdatedAt = updatedAt
	}

	if err := s.boardRepo.ReplaceAll(ctx, entries); err != nil {
		return 0, fmt.Errorf("replace leaderboard snapshot: %w", err)
	}

	s.logger.InfoContext(ctx, "rollup completed",
		"participants", len(participants),
		"events", len(results),
	)

	return len(participants), nil
}

func (s *RollupService) scoreParticipant(
	p participant.Participant,
	participantPicks []picks.Picks,
	resultByEvent map[string]event.Result,
	scheduleByEvent map[string]schedule.PointsSchedule,
	teamByDriver map[string]string,
) leaderboard.Entry {
	entry := leaderboard.Entry{ParticipantID: p.ID}

	for i := range participantPicks {
		pk := participantPicks[i]
		res, ok := resultByEvent[pk.EventID]
		if !ok {
			// Picks for an event without a published result contribute
			// nothing until the result lands.
			continue
		}

		total, breakdown := ScorePicks(&pk, &res, scheduleByEvent[pk.EventID], teamByDriver)
		entry.Total += total
		entry.Breakdown = entry.Breakdown.Add(breakdown)
	}

	return entry
}

func (s *RollupService) resolveLiveSchedule(ctx context.Context) schedule.PointsSchedule {
	cfg, found, err := s.scheduleRepo.Get(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "load schedule config failed, using default", "error", err)
		return schedule.Default()
	}
	if !found {
		return schedule.Default()
	}
	if active, ok := cfg.Active(); ok {
		return active
	}
	return schedule.Default()
}
