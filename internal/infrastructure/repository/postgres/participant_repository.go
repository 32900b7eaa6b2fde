package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/gridrivals/gridrivals/internal/domain/participant"
	qb "github.com/gridrivals/gridrivals/internal/platform/querybuilder"
)

type participantTableModel struct {
	ID            int64     `db:"id"`
	ParticipantID string    `db:"participant_id"`
	DisplayName   string    `db:"display_name"`
	Email         string    `db:"email"`
	IsAdmin       bool      `db:"is_admin"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type participantInsertModel struct {
	ParticipantID string    `db:"participant_id"`
	DisplayName   string    `db:"display_name"`
	Email         string    `db:"email"`
	IsAdmin       bool      `db:"is_admin"`
	CreatedAt     time.Time `db:"created_at"`
}

type ParticipantRepository struct {
	db *sqlx.DB
}

func NewParticipantRepository(db *sqlx.DB) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

func (r *ParticipantRepository) GetByID(ctx context.Context, id string) (participant.Participant, bool, error) {
	query, args, err := qb.Select("*").From("participants").
		Where(qb.Eq("participant_id", id)).
		ToSQL()
	if err != nil {
		return participant.Participant{}, false, fmt.Errorf("build get participant query: %w", err)
	}

	var row participantTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return participant.Participant{}, false, nil
		}
		return participant.Participant{}, false, fmt.Errorf("get participant: %w", err)
	}

	return participantFromRow(row), true, nil
}

func (r *ParticipantRepository) List(ctx context.Context) ([]participant.Participant, error) {
	query, args, err := qb.Select("*").From("participants").
		OrderBy("participant_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list participants query: %w", err)
	}

	var rows []participantTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}

	out := make([]participant.Participant, 0, len(rows))
	for _, row := range rows {
		out = append(out, participantFromRow(row))
	}

	return out, nil
}

func (r *ParticipantRepository) Upsert(ctx context.Context, p participant.Participant) error {
	insertModel := participantInsertModel{
		ParticipantID: p.ID,
		DisplayName:   p.DisplayName,
		Email:         p.Email,
		IsAdmin:       p.IsAdmin,
		CreatedAt:     p.CreatedAt,
	}

	query, args, err := qb.InsertModel("participants", insertModel, `ON CONFLICT (participant_id)
DO UPDATE SET
    display_name = EXCLUDED.display_name,
    email = EXCLUDED.email,
    is_admin = EXCLUDED.is_admin,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert participant query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert participant %s: %w", p.ID, err)
	}

	return nil
}

func participantFromRow(row participantTableModel) participant.Participant {
	return participant.Participant{
		ID:          row.ParticipantID,
		DisplayName: row.DisplayName,
		Email:       row.Email,
		IsAdmin:     row.IsAdmin,
		CreatedAt:   row.CreatedAt.UTC(),
	}
}
