package roster

import "context"

type Repository interface {
	List(ctx context.Context) ([]Driver, error)
}
