package event

import "context"

type Repository interface {
	GetResult(ctx context.Context, eventID string) (Result, bool, error)
	ListResults(ctx context.Context) ([]Result, error)
	UpsertResult(ctx context.Context, result Result) error

	// SetChangeListener registers the listener invoked after each successful
	// UpsertResult. At most one listener is supported.
	SetChangeListener(listener ChangeListener)
}
