package memory

import (
	"context"
	"sync"

	"github.com/gridrivals/gridrivals/internal/domain/schedule"
)

type ScheduleRepository struct {
	mu    sync.RWMutex
	cfg   schedule.Config
	isSet bool
}

func NewScheduleRepository() *ScheduleRepository {
	return &ScheduleRepository{}
}

func (r *ScheduleRepository) Get(_ context.Context) (schedule.Config, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.cfg, r.isSet, nil
}

func (r *ScheduleRepository) Upsert(_ context.Context, cfg schedule.Config) error {
	r.mu.Lock()
	r.cfg = cfg
	r.isSet = true
	r.mu.Unlock()

	return nil
}
