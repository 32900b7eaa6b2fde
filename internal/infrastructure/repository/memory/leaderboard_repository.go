package memory

import (
	"context"
	"sync"

	"github.com/gridrivals/gridrivals/internal/domain/leaderboard"
)

type LeaderboardRepository struct {
	mu      sync.RWMutex
	entries []leaderboard.Entry
}

func NewLeaderboardRepository() *LeaderboardRepository {
	return &LeaderboardRepository{}
}

func (r *LeaderboardRepository) List(_ context.Context) ([]leaderboard.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]leaderboard.Entry(nil), r.entries...), nil
}

// ReplaceAll swaps the snapshot under one lock hold, so readers see either
// the previous snapshot or the new one, never a mix.
func (r *LeaderboardRepository) ReplaceAll(_ context.Context, entries []leaderboard.Entry) error {
	next := append([]leaderboard.Entry(nil), entries...)

	r.mu.Lock()
	r.entries = next
	r.mu.Unlock()

	return nil
}
