package memory

import (
	"context"
	"sync"
	"time"

	"github.com/gridrivals/gridrivals/internal/domain/invite"
)

type InviteRepository struct {
	mu    sync.Mutex
	items map[string]invite.Code
}

func NewInviteRepository() *InviteRepository {
	return &InviteRepository{
		items: make(map[string]invite.Code),
	}
}

func (r *InviteRepository) Get(_ context.Context, code string) (invite.Code, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.items[code]
	return c, ok, nil
}

func (r *InviteRepository) Create(_ context.Context, code invite.Code) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[code.Code]; ok {
		return invite.ErrCodeExists
	}
	r.items[code.Code] = code

	return nil
}

// Reserve flips an active code to reserved inside one critical section.
// Of two concurrent calls with the same code, exactly one observes
// ReserveOK.
func (r *InviteRepository) Reserve(_ context.Context, code string, now time.Time) (invite.ReserveOutcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.items[code]
	if !ok {
		return invite.ReserveNotFound, nil
	}
	if c.Status != invite.StatusActive {
		return invite.ReserveAlreadyUsed, nil
	}

	c.Status = invite.StatusReserved
	c.ReservedAt = &now
	r.items[code] = c

	return invite.ReserveOK, nil
}
