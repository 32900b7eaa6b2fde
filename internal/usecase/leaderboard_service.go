package usecase

import (
	"context"
	"fmt"

	"github.com/gridrivals/gridrivals/internal/domain/leaderboard"
	"github.com/gridrivals/gridrivals/internal/platform/cache"
)

const leaderboardCacheKey = "leaderboard:list"

// LeaderboardService serves the ranked snapshot. Reads go through a short TTL
// cache; rollups land within one TTL, which is acceptable staleness for a
// fully derived view.
type LeaderboardService struct {
	repo  leaderboard.Repository
	cache *cache.Store
}

func NewLeaderboardService(repo leaderboard.Repository, store *cache.Store) *LeaderboardService {
	return &LeaderboardService{
		repo:  repo,
		cache: store,
	}
}

func (s *LeaderboardService) List(ctx context.Context) ([]leaderboard.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.List")
	defer span.End()

	if s.cache == nil {
		return s.load(ctx)
	}

	value, err := s.cache.GetOrLoad(ctx, leaderboardCacheKey, func(ctx context.Context) (any, error) {
		return s.load(ctx)
	})
	if err != nil {
		return nil, err
	}

	entries, ok := value.([]leaderboard.Entry)
	if !ok {
		return s.load(ctx)
	}
	return entries, nil
}

func (s *LeaderboardService) load(ctx context.Context) ([]leaderboard.Entry, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leaderboard: %w", err)
	}
	return entries, nil
}
