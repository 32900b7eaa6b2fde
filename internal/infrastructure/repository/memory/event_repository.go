package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/gridrivals/gridrivals/internal/domain/event"
)

type EventRepository struct {
	mu       sync.RWMutex
	items    map[string]event.Result
	listener event.ChangeListener
}

func NewEventRepository() *EventRepository {
	return &EventRepository{
		items: make(map[string]event.Result),
	}
}

func (r *EventRepository) GetResult(_ context.Context, eventID string) (event.Result, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res, ok := r.items[eventID]
	return res, ok, nil
}

func (r *EventRepository) ListResults(_ context.Context) ([]event.Result, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]event.Result, 0, len(r.items))
	for _, res := range r.items {
		out = append(out, res)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EventID < out[j].EventID })

	return out, nil
}

func (r *EventRepository) UpsertResult(_ context.Context, result event.Result) error {
	r.mu.Lock()
	r.items[result.EventID] = result
	listener := r.listener
	r.mu.Unlock()

	if listener != nil {
		listener.ResultChanged(result.EventID)
	}

	return nil
}

func (r *EventRepository) SetChangeListener(listener event.ChangeListener) {
	r.mu.Lock()
	r.listener = listener
	r.mu.Unlock()
}
