package picks

import "context"

type Repository interface {
	Get(ctx context.Context, participantID, eventID string) (Picks, bool, error)
	ListByParticipant(ctx context.Context, participantID string) ([]Picks, error)
	ListAll(ctx context.Context) ([]Picks, error)
	Upsert(ctx context.Context, p Picks) error
}
