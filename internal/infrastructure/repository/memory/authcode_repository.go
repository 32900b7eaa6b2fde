package memory

import (
	"context"
	"sync"

	"github.com/gridrivals/gridrivals/internal/domain/authcode"
)

type AuthCodeRepository struct {
	mu    sync.Mutex
	items map[string]authcode.Code
}

func NewAuthCodeRepository() *AuthCodeRepository {
	return &AuthCodeRepository{
		items: make(map[string]authcode.Code),
	}
}

func (r *AuthCodeRepository) Get(_ context.Context, email string) (authcode.Code, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.items[email]
	return c, ok, nil
}

func (r *AuthCodeRepository) Upsert(_ context.Context, code authcode.Code) error {
	r.mu.Lock()
	r.items[code.Email] = code
	r.mu.Unlock()

	return nil
}

func (r *AuthCodeRepository) Delete(_ context.Context, email string) error {
	r.mu.Lock()
	delete(r.items, email)
	r.mu.Unlock()

	return nil
}

// ConsumeMatching deletes the stored code only when it matches, as one
// atomic step. Two concurrent verifications of the same code cannot
// both succeed.
func (r *AuthCodeRepository) ConsumeMatching(_ context.Context, email, code string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.items[email]
	if !ok || c.Code != code {
		return false, nil
	}
	delete(r.items, email)

	return true, nil
}
