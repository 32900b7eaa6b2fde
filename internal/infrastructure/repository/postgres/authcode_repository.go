package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/gridrivals/gridrivals/internal/domain/authcode"
	qb "github.com/gridrivals/gridrivals/internal/platform/querybuilder"
)

type authCodeTableModel struct {
	ID        int64     `db:"id"`
	Email     string    `db:"email"`
	Code      string    `db:"code"`
	IssuedAt  time.Time `db:"issued_at"`
	ExpiresAt time.Time `db:"expires_at"`
}

type AuthCodeRepository struct {
	db *sqlx.DB
}

func NewAuthCodeRepository(db *sqlx.DB) *AuthCodeRepository {
	return &AuthCodeRepository{db: db}
}

func (r *AuthCodeRepository) Get(ctx context.Context, email string) (authcode.Code, bool, error) {
	query, args, err := qb.Select("*").From("auth_codes").
		Where(qb.Eq("email", email)).
		ToSQL()
	if err != nil {
		return authcode.Code{}, false, fmt.Errorf("build get auth code query: %w", err)
	}

	var row authCodeTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return authcode.Code{}, false, nil
		}
		return authcode.Code{}, false, fmt.Errorf("get auth code: %w", err)
	}

	return authcode.Code{
		Email:     row.Email,
		Code:      row.Code,
		IssuedAt:  row.IssuedAt.UTC(),
		ExpiresAt: row.ExpiresAt.UTC(),
	}, true, nil
}

func (r *AuthCodeRepository) Upsert(ctx context.Context, code authcode.Code) error {
	query, args, err := qb.InsertInto("auth_codes").
		Columns("email", "code", "issued_at", "expires_at").
		Values(code.Email, code.Code, code.IssuedAt, code.ExpiresAt).
		Suffix(`ON CONFLICT (email) DO UPDATE SET
    code = EXCLUDED.code,
    issued_at = EXCLUDED.issued_at,
    expires_at = EXCLUDED.expires_at`).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert auth code query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert auth code: %w", err)
	}

	return nil
}

func (r *AuthCodeRepository) Delete(ctx context.Context, email string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM auth_codes WHERE email = $1", email); err != nil {
		return fmt.Errorf("delete auth code: %w", err)
	}
	return nil
}

// ConsumeMatching deletes the row only when the code matches, in one
// statement. The row count tells the race winner apart from the losers.
func (r *AuthCodeRepository) ConsumeMatching(ctx context.Context, email, code string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM auth_codes WHERE email = $1 AND code = $2", email, code)
	if err != nil {
		return false, fmt.Errorf("consume auth code: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("consume auth code rows affected: %w", err)
	}

	return affected == 1, nil
}
