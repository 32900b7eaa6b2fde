package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/gridrivals/gridrivals/internal/domain/picks"
	qb "github.com/gridrivals/gridrivals/internal/platform/querybuilder"
)

type PicksRepository struct {
	db *sqlx.DB
}

func NewPicksRepository(db *sqlx.DB) *PicksRepository {
	return &PicksRepository{db: db}
}

func (r *PicksRepository) Get(ctx context.Context, participantID, eventID string) (picks.Picks, bool, error) {
	query, args, err := qb.Select("*").From("participant_picks").
		Where(
			qb.Eq("participant_id", participantID),
			qb.Eq("event_id", eventID),
		).
		ToSQL()
	if err != nil {
		return picks.Picks{}, false, fmt.Errorf("build get picks query: %w", err)
	}

	var row picksTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return picks.Picks{}, false, nil
		}
		return picks.Picks{}, false, fmt.Errorf("get picks: %w", err)
	}

	return picksFromRow(row), true, nil
}

func (r *PicksRepository) ListByParticipant(ctx context.Context, participantID string) ([]picks.Picks, error) {
	query, args, err := qb.Select("*").From("participant_picks").
		Where(qb.Eq("participant_id", participantID)).
		OrderBy("event_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list picks by participant query: %w", err)
	}

	var rows []picksTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list picks by participant: %w", err)
	}

	return picksFromRows(rows), nil
}

func (r *PicksRepository) ListAll(ctx context.Context) ([]picks.Picks, error) {
	query, args, err := qb.Select("*").From("participant_picks").
		OrderBy("participant_id", "event_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list all picks query: %w", err)
	}

	var rows []picksTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list all picks: %w", err)
	}

	return picksFromRows(rows), nil
}

func (r *PicksRepository) Upsert(ctx context.Context, p picks.Picks) error {
	insertModel := picksInsertModel{
		ParticipantID:    p.ParticipantID,
		EventID:          p.EventID,
		TeamIDs:          p.TeamIDs,
		CaptainTeamID:    p.CaptainTeamID,
		DriverIDs:        p.DriverIDs,
		ReserveDriverIDs: p.ReserveDriverIDs,
		FastestLapDriver: p.FastestLapDriver,
		Penalty:          p.Penalty,
		UpdatedAt:        p.UpdatedAt,
	}

	query, args, err := qb.InsertModel("participant_picks", insertModel, `ON CONFLICT (participant_id, event_id)
DO UPDATE SET
    team_ids = EXCLUDED.team_ids,
    captain_team_id = EXCLUDED.captain_team_id,
    driver_ids = EXCLUDED.driver_ids,
    reserve_driver_ids = EXCLUDED.reserve_driver_ids,
    fastest_lap_driver = EXCLUDED.fastest_lap_driver,
    penalty = EXCLUDED.penalty,
    updated_at = EXCLUDED.updated_at`)
	if err != nil {
		return fmt.Errorf("build upsert picks query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert picks participant=%s event=%s: %w", p.ParticipantID, p.EventID, err)
	}

	return nil
}

func picksFromRow(row picksTableModel) picks.Picks {
	return picks.Picks{
		ParticipantID:    row.ParticipantID,
		EventID:          row.EventID,
		TeamIDs:          row.TeamIDs,
		CaptainTeamID:    row.CaptainTeamID,
		DriverIDs:        row.DriverIDs,
		ReserveDriverIDs: row.ReserveDriverIDs,
		FastestLapDriver: row.FastestLapDriver,
		Penalty:          row.Penalty,
		UpdatedAt:        row.UpdatedAt.UTC(),
	}
}

func picksFromRows(rows []picksTableModel) []picks.Picks {
	out := make([]picks.Picks, 0, len(rows))
	for _, row := range rows {
		out = append(out, picksFromRow(row))
	}
	return out
}
