package invite

import (
	"context"
	"errors"
	"time"
)

// ErrCodeExists is returned by Create when the code value is already taken.
var ErrCodeExists = errors.New("invite code already exists")

type Repository interface {
	Get(ctx context.Context, code string) (Code, bool, error)
	Create(ctx context.Context, c Code) error

	// Reserve atomically transitions an active code to reserved. Of N
	// concurrent calls on the same code, exactly one may see ReserveOK.
	Reserve(ctx context.Context, code string, now time.Time) (ReserveOutcome, error)
}
