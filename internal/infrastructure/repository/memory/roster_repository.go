package memory

import (
	"context"
	"sync"

	"github.com/gridrivals/gridrivals/internal/domain/roster"
)

type RosterRepository struct {
	mu      sync.RWMutex
	drivers []roster.Driver
}

func NewRosterRepository(drivers []roster.Driver) *RosterRepository {
	return &RosterRepository{
		drivers: append([]roster.Driver(nil), drivers...),
	}
}

func (r *RosterRepository) List(_ context.Context) ([]roster.Driver, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]roster.Driver(nil), r.drivers...), nil
}
