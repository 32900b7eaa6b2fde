package memory

import (
	"context"
	"testing"
	"time"

	"github.com/gridrivals/gridrivals/internal/domain/leaderboard"
)

func TestLeaderboardRepositoryReplaceAll(t *testing.T) {
	t.Parallel()

	repo := NewLeaderboardRepository()
	ctx := context.Background()
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	first := []leaderboard.Entry{
		{ParticipantID: "p1", Total: 40, Rank: 1, UpdatedAt: now},
		{ParticipantID: "p2", Total: 25, Rank: 2, UpdatedAt: now},
	}
	if err := repo.ReplaceAll(ctx, first); err != nil {
		t.Fatalf("replace: %v", err)
	}

	got, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].ParticipantID != "p1" {
		t.Fatalf("unexpected entries: %+v", got)
	}

	// Mutating a listed slice must not leak back into the stored snapshot.
	got[0].Total = 999
	again, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list again: %v", err)
	}
	if again[0].Total != 40 {
		t.Fatalf("stored snapshot mutated: total = %d", again[0].Total)
	}

	if err := repo.ReplaceAll(ctx, []leaderboard.Entry{{ParticipantID: "p3", Total: 10, Rank: 1, UpdatedAt: now}}); err != nil {
		t.Fatalf("second replace: %v", err)
	}

	final, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("final list: %v", err)
	}
	if len(final) != 1 || final[0].ParticipantID != "p3" {
		t.Fatalf("replace did not swap the full snapshot: %+v", final)
	}
}
