package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/gridrivals/gridrivals/internal/domain/leaderboard"
	qb "github.com/gridrivals/gridrivals/internal/platform/querybuilder"
)

type leaderboardEntryTableModel struct {
	ID            int64     `db:"id"`
	ParticipantID string    `db:"participant_id"`
	Total         int       `db:"total"`
	GrandPrix     int       `db:"grand_prix_points"`
	Sprint        int       `db:"sprint_points"`
	Qualifying    int       `db:"qualifying_points"`
	FastestLap    int       `db:"fastest_lap_points"`
	Rank          int       `db:"rank"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type leaderboardEntryInsertModel struct {
	ParticipantID string    `db:"participant_id"`
	Total         int       `db:"total"`
	GrandPrix     int       `db:"grand_prix_points"`
	Sprint        int       `db:"sprint_points"`
	Qualifying    int       `db:"qualifying_points"`
	FastestLap    int       `db:"fastest_lap_points"`
	Rank          int       `db:"rank"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type LeaderboardRepository struct {
	db *sqlx.DB
}

func NewLeaderboardRepository(db *sqlx.DB) *LeaderboardRepository {
	return &LeaderboardRepository{db: db}
}

func (r *LeaderboardRepository) List(ctx context.Context) ([]leaderboard.Entry, error) {
	query, args, err := qb.Select("*").From("leaderboard_entries").
		OrderBy("rank").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list leaderboard query: %w", err)
	}

	var rows []leaderboardEntryTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list leaderboard entries: %w", err)
	}

	out := make([]leaderboard.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, leaderboard.Entry{
			ParticipantID: row.ParticipantID,
			Total:         row.Total,
			Breakdown: leaderboard.Breakdown{
				GrandPrix:  row.GrandPrix,
				Sprint:     row.Sprint,
				Qualifying: row.Qualifying,
				FastestLap: row.FastestLap,
			},
			Rank:      row.Rank,
			UpdatedAt: row.UpdatedAt.UTC(),
		})
	}

	return out, nil
}

// ReplaceAll clears and rewrites the whole board inside one transaction, so a
// reader never observes a half-replaced snapshot.
func (r *LeaderboardRepository) ReplaceAll(ctx context.Context, entries []leaderboard.Entry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace leaderboard: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM leaderboard_entries"); err != nil {
		return fmt.Errorf("clear leaderboard entries: %w", err)
	}

	for _, entry := range entries {
		insertModel := leaderboardEntryInsertModel{
			ParticipantID: entry.ParticipantID,
			Total:         entry.Total,
			GrandPrix:     entry.Breakdown.GrandPrix,
			Sprint:        entry.Breakdown.Sprint,
			Qualifying:    entry.Breakdown.Qualifying,
			FastestLap:    entry.Breakdown.FastestLap,
			Rank:          entry.Rank,
			UpdatedAt:     entry.UpdatedAt,
		}
		query, args, err := qb.InsertModel("leaderboard_entries", insertModel, "")
		if err != nil {
			return fmt.Errorf("build insert leaderboard entry query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert leaderboard entry %s: %w", entry.ParticipantID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace leaderboard tx: %w", err)
	}
	return nil
}
