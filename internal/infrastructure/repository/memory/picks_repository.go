package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/gridrivals/gridrivals/internal/domain/picks"
)

type picksKey struct {
	participantID string
	eventID       string
}

type PicksRepository struct {
	mu    sync.RWMutex
	items map[picksKey]picks.Picks
}

func NewPicksRepository() *PicksRepository {
	return &PicksRepository{
		items: make(map[picksKey]picks.Picks),
	}
}

func (r *PicksRepository) Get(_ context.Context, participantID, eventID string) (picks.Picks, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[picksKey{participantID: participantID, eventID: eventID}]
	return p, ok, nil
}

func (r *PicksRepository) ListByParticipant(_ context.Context, participantID string) ([]picks.Picks, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]picks.Picks, 0)
	for key, p := range r.items {
		if key.participantID == participantID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EventID < out[j].EventID })

	return out, nil
}

func (r *PicksRepository) ListAll(_ context.Context) ([]picks.Picks, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]picks.Picks, 0, len(r.items))
	for _, p := range r.items {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ParticipantID != out[j].ParticipantID {
			return out[i].ParticipantID < out[j].ParticipantID
		}
		return out[i].EventID < out[j].EventID
	})

	return out, nil
}

func (r *PicksRepository) Upsert(_ context.Context, p picks.Picks) error {
	r.mu.Lock()
	r.items[picksKey{participantID: p.ParticipantID, eventID: p.EventID}] = p
	r.mu.Unlock()

	return nil
}
