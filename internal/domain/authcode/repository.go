package authcode

import "context"

type Repository interface {
	Get(ctx context.Context, email string) (Code, bool, error)
	Upsert(ctx context.Context, c Code) error
	Delete(ctx context.Context, email string) error

	// ConsumeMatching deletes the record only if the stored code equals the
	// submitted one, reporting whether this call performed the delete. The
	// check-and-delete is a single atomic unit, which makes the code
	// single-use under concurrent verification attempts.
	ConsumeMatching(ctx context.Context, email, code string) (bool, error)
}
