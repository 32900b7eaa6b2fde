package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/gridrivals/gridrivals/internal/domain/invite"
	qb "github.com/gridrivals/gridrivals/internal/platform/querybuilder"
)

type inviteCodeTableModel struct {
	ID         int64      `db:"id"`
	Code       string     `db:"code"`
	Status     string     `db:"status"`
	CreatedAt  time.Time  `db:"created_at"`
	ReservedAt *time.Time `db:"reserved_at"`
}

type InviteRepository struct {
	db *sqlx.DB
}

func NewInviteRepository(db *sqlx.DB) *InviteRepository {
	return &InviteRepository{db: db}
}

func (r *InviteRepository) Get(ctx context.Context, code string) (invite.Code, bool, error) {
	query, args, err := qb.Select("*").From("invite_codes").
		Where(qb.Eq("code", code)).
		ToSQL()
	if err != nil {
		return invite.Code{}, false, fmt.Errorf("build get invite code query: %w", err)
	}

	var row inviteCodeTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return invite.Code{}, false, nil
		}
		return invite.Code{}, false, fmt.Errorf("get invite code: %w", err)
	}

	return inviteCodeFromRow(row), true, nil
}

func (r *InviteRepository) Create(ctx context.Context, code invite.Code) error {
	query, args, err := qb.InsertInto("invite_codes").
		Columns("code", "status", "created_at").
		Values(code.Code, string(code.Status), code.CreatedAt).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build create invite code query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return invite.ErrCodeExists
		}
		return fmt.Errorf("create invite code: %w", err)
	}

	return nil
}

// Reserve is a conditional update: only a row still in the active state
// matches, so of two concurrent claims exactly one reports ReserveOK.
func (r *InviteRepository) Reserve(ctx context.Context, code string, now time.Time) (invite.ReserveOutcome, error) {
	query, args, err := qb.Update("invite_codes").
		Set("status", string(invite.StatusReserved)).
		Set("reserved_at", now).
		Where(
			qb.Eq("code", code),
			qb.Eq("status", string(invite.StatusActive)),
			qb.IsNull("reserved_at"),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build reserve invite code query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("reserve invite code: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reserve invite code rows affected: %w", err)
	}
	if affected == 1 {
		return invite.ReserveOK, nil
	}

	_, found, err := r.Get(ctx, code)
	if err != nil {
		return 0, err
	}
	if !found {
		return invite.ReserveNotFound, nil
	}
	return invite.ReserveAlreadyUsed, nil
}

func inviteCodeFromRow(row inviteCodeTableModel) invite.Code {
	out := invite.Code{
		Code:      row.Code,
		Status:    invite.Status(row.Status),
		CreatedAt: row.CreatedAt.UTC(),
	}
	if row.ReservedAt != nil {
		reservedAt := row.ReservedAt.UTC()
		out.ReservedAt = &reservedAt
	}
	return out
}
