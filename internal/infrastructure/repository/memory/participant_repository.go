package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/gridrivals/gridrivals/internal/domain/participant"
)

type ParticipantRepository struct {
	mu    sync.RWMutex
	items map[string]participant.Participant
}

func NewParticipantRepository(seed []participant.Participant) *ParticipantRepository {
	items := make(map[string]participant.Participant, len(seed))
	for _, p := range seed {
		items[p.ID] = p
	}

	return &ParticipantRepository{items: items}
}

func (r *ParticipantRepository) GetByID(_ context.Context, id string) (participant.Participant, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[id]
	return p, ok, nil
}

func (r *ParticipantRepository) List(_ context.Context) ([]participant.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]participant.Participant, 0, len(r.items))
	for _, p := range r.items {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (r *ParticipantRepository) Upsert(_ context.Context, p participant.Participant) error {
	r.mu.Lock()
	r.items[p.ID] = p
	r.mu.Unlock()

	return nil
}
