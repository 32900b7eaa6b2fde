package schedule

import "context"

type Repository interface {
	Get(ctx context.Context) (Config, bool, error)
	Upsert(ctx context.Context, cfg Config) error
}
