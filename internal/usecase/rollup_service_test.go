package usecase

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/gridrivals/gridrivals/internal/domain/event"
	"github.com/gridrivals/gridrivals/internal/domain/participant"
	"github.com/gridrivals/gridrivals/internal/domain/picks"
	"github.com/gridrivals/gridrivals/internal/domain/roster"
	"github.com/gridrivals/gridrivals/internal/domain/schedule"
	"github.com/gridrivals/gridrivals/internal/infrastructure/repository/memory"
	"github.com/gridrivals/gridrivals/internal/platform/logging"
)

type rollupFixture struct {
	events       *memory.EventRepository
	picks        *memory.PicksRepository
	roster       *memory.RosterRepository
	schedules    *memory.ScheduleRepository
	participants *memory.ParticipantRepository
	board        *memory.LeaderboardRepository
	service      *RollupService
}

func newRollupFixture(t *testing.T, seed []participant.Participant) *rollupFixture {
	t.Helper()

	f := &rollupFixture{
		events: memory.NewEventRepository(),
		picks:  memory.NewPicksRepository(),
		roster: memory.NewRosterRepository([]roster.Driver{
			{ID: "ver", Name: "Verstappen", TeamID: "redbull"},
			{ID: "ham", Name: "Hamilton", TeamID: "mercedes"},
			{ID: "lec", Name: "Leclerc", TeamID: "ferrari"},
		}),
		schedules:    memory.NewScheduleRepository(),
		participants: memory.NewParticipantRepository(seed),
		board:        memory.NewLeaderboardRepository(),
	}
	f.service = NewRollupService(
		f.events, f.picks, f.roster, f.schedules, f.participants, f.board,
		logging.NewNop(), 4,
	)
	f.service.now = func() time.Time {
		return time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	}

	return f
}

func TestRollupSkipsWhenNoResults(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newRollupFixture(t, []participant.Participant{{ID: "p1"}})

	if err := f.picks.Upsert(ctx, picks.Picks{ParticipantID: "p1", EventID: "gp-1", DriverIDs: []string{"ver"}}); err != nil {
		t.Fatalf("seed picks: %v", err)
	}
	if err := f.board.ReplaceAll(ctx, nil); err != nil {
		t.Fatalf("seed board: %v", err)
	}

	processed, err := f.service.RecalculateAll(ctx)
	if err != nil {
		t.Fatalf("recalculate: %v", err)
	}
	if processed != 0 {
		t.Fatalf("processed = %d, want 0 with no results", processed)
	}
}

func TestRollupRanksFullPopulation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newRollupFixture(t, []participant.Participant{
		{ID: "p1"}, {ID: "p2"}, {ID: "p3"},
	})

	if err := f.events.UpsertResult(ctx, event.Result{
		EventID:         "gp-1",
		GrandPrixFinish: []string{"ver", "ham", "lec"},
	}); err != nil {
		t.Fatalf("seed result: %v", err)
	}

	// p1 picks the winner, p2 picks P2, p3 never submitted picks but must
	// still hold a ranked row.
	if err := f.picks.Upsert(ctx, picks.Picks{ParticipantID: "p1", EventID: "gp-1", DriverIDs: []string{"ver"}}); err != nil {
		t.Fatalf("seed p1 picks: %v", err)
	}
	if err := f.picks.Upsert(ctx, picks.Picks{ParticipantID: "p2", EventID: "gp-1", DriverIDs: []string{"ham"}}); err != nil {
		t.Fatalf("seed p2 picks: %v", err)
	}

	processed, err := f.service.RecalculateAll(ctx)
	if err != nil {
		t.Fatalf("recalculate: %v", err)
	}
	if processed != 3 {
		t.Fatalf("processed = %d, want 3", processed)
	}

	entries, err := f.board.List(ctx)
	if err != nil {
		t.Fatalf("list board: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("board rows = %d, want 3", len(entries))
	}

	if entries[0].ParticipantID != "p1" || entries[0].Total != 25 || entries[0].Rank != 1 {
		t.Fatalf("rank 1 = %+v, want p1 with 25", entries[0])
	}
	if entries[1].ParticipantID != "p2" || entries[1].Total != 18 || entries[1].Rank != 2 {
		t.Fatalf("rank 2 = %+v, want p2 with 18", entries[1])
	}
	if entries[2].ParticipantID != "p3" || entries[2].Total != 0 || entries[2].Rank != 3 {
		t.Fatalf("rank 3 = %+v, want p3 with 0", entries[2])
	}
}

func TestRollupTieBreaksOnParticipantID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newRollupFixture(t, []participant.Participant{
		{ID: "zeta"}, {ID: "alpha"},
	})

	if err := f.events.UpsertResult(ctx, event.Result{
		EventID:         "gp-1",
		GrandPrixFinish: []string{"ver"},
	}); err != nil {
		t.Fatalf("seed result: %v", err)
	}
	for _, id := range []string{"zeta", "alpha"} {
		if err := f.picks.Upsert(ctx, picks.Picks{ParticipantID: id, EventID: "gp-1", DriverIDs: []string{"ver"}}); err != nil {
			t.Fatalf("seed picks for %s: %v", id, err)
		}
	}

	if _, err := f.service.RecalculateAll(ctx); err != nil {
		t.Fatalf("recalculate: %v", err)
	}

	entries, err := f.board.List(ctx)
	if err != nil {
		t.Fatalf("list board: %v", err)
	}
	if entries[0].ParticipantID != "alpha" || entries[1].ParticipantID != "zeta" {
		t.Fatalf("tie order = [%s %s], want [alpha zeta]", entries[0].ParticipantID, entries[1].ParticipantID)
	}
	if entries[0].Rank != 1 || entries[1].Rank != 2 {
		t.Fatalf("tied ranks = [%d %d], want distinct positions [1 2]", entries[0].Rank, entries[1].Rank)
	}
}

func TestRollupIsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newRollupFixture(t, []participant.Participant{{ID: "p1"}, {ID: "p2"}})

	if err := f.events.UpsertResult(ctx, event.Result{
		EventID:         "gp-1",
		GrandPrixFinish: []string{"ver", "ham"},
	}); err != nil {
		t.Fatalf("seed result: %v", err)
	}
	if err := f.picks.Upsert(ctx, picks.Picks{ParticipantID: "p1", EventID: "gp-1", TeamIDs: []string{"redbull"}}); err != nil {
		t.Fatalf("seed picks: %v", err)
	}

	if _, err := f.service.RecalculateAll(ctx); err != nil {
		t.Fatalf("first recalculate: %v", err)
	}
	first, err := f.board.List(ctx)
	if err != nil {
		t.Fatalf("first list: %v", err)
	}

	if _, err := f.service.RecalculateAll(ctx); err != nil {
		t.Fatalf("second recalculate: %v", err)
	}
	second, err := f.board.List(ctx)
	if err != nil {
		t.Fatalf("second list: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated rollup diverged:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestRollupHonorsScheduleSnapshot(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newRollupFixture(t, []participant.Participant{{ID: "p1"}})

	// The live config pays double points, but the finalized event carries the
	// schedule that was in force at finalization time.
	doubled := schedule.PointsSchedule{GrandPrix: []int{50, 36}}
	if err := f.schedules.Upsert(ctx, schedule.Config{Flat: &doubled}); err != nil {
		t.Fatalf("seed schedule config: %v", err)
	}

	pinned := schedule.Default()
	if err := f.events.UpsertResult(ctx, event.Result{
		EventID:          "gp-1",
		GrandPrixFinish:  []string{"ver"},
		ScheduleSnapshot: &pinned,
		Finalized:        true,
	}); err != nil {
		t.Fatalf("seed finalized result: %v", err)
	}
	if err := f.events.UpsertResult(ctx, event.Result{
		EventID:         "gp-2",
		GrandPrixFinish: []string{"ver"},
	}); err != nil {
		t.Fatalf("seed live result: %v", err)
	}
	if err := f.picks.Upsert(ctx, picks.Picks{ParticipantID: "p1", EventID: "gp-1", DriverIDs: []string{"ver"}}); err != nil {
		t.Fatalf("seed gp-1 picks: %v", err)
	}
	if err := f.picks.Upsert(ctx, picks.Picks{ParticipantID: "p1", EventID: "gp-2", DriverIDs: []string{"ver"}}); err != nil {
		t.Fatalf("seed gp-2 picks: %v", err)
	}

	if _, err := f.service.RecalculateAll(ctx); err != nil {
		t.Fatalf("recalculate: %v", err)
	}

	entries, err := f.board.List(ctx)
	if err != nil {
		t.Fatalf("list board: %v", err)
	}
	// gp-1 scores 25 under the pinned schedule, gp-2 scores 50 live.
	if entries[0].Total != 75 {
		t.Fatalf("total = %d, want 75 (25 pinned + 50 live)", entries[0].Total)
	}
}

func TestRollupTriggerRecalculatesOnResultChange(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newRollupFixture(t, []participant.Participant{{ID: "p1"}})

	trigger := NewRollupTrigger(f.service, logging.NewNop())
	f.events.SetChangeListener(trigger)

	if err := f.picks.Upsert(ctx, picks.Picks{ParticipantID: "p1", EventID: "gp-1", DriverIDs: []string{"ver"}}); err != nil {
		t.Fatalf("seed picks: %v", err)
	}

	// The write itself fires the trigger.
	if err := f.events.UpsertResult(ctx, event.Result{
		EventID:         "gp-1",
		GrandPrixFinish: []string{"ver"},
	}); err != nil {
		t.Fatalf("upsert result: %v", err)
	}
	trigger.Drain()

	entries, err := f.board.List(ctx)
	if err != nil {
		t.Fatalf("list board: %v", err)
	}
	if len(entries) != 1 || entries[0].Total != 25 {
		t.Fatalf("board after trigger = %+v, want single 25-point row", entries)
	}
}
