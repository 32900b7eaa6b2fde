package leaderboard

import "context"

type Repository interface {
	List(ctx context.Context) ([]Entry, error)

	// ReplaceAll swaps the whole ranked snapshot in one commit. Readers must
	// never observe a mix of old and new rows.
	ReplaceAll(ctx context.Context, entries []Entry) error
}
