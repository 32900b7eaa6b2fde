package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/gridrivals/gridrivals/internal/domain/roster"
	qb "github.com/gridrivals/gridrivals/internal/platform/querybuilder"
)

type rosterDriverTableModel struct {
	ID        int64     `db:"id"`
	DriverID  string    `db:"driver_id"`
	Name      string    `db:"name"`
	TeamID    string    `db:"team_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type RosterRepository struct {
	db *sqlx.DB
}

func NewRosterRepository(db *sqlx.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

func (r *RosterRepository) List(ctx context.Context) ([]roster.Driver, error) {
	query, args, err := qb.Select("*").From("roster_drivers").
		OrderBy("driver_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list roster query: %w", err)
	}

	var rows []rosterDriverTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list roster drivers: %w", err)
	}

	out := make([]roster.Driver, 0, len(rows))
	for _, row := range rows {
		out = append(out, roster.Driver{
			ID:     row.DriverID,
			Name:   row.Name,
			TeamID: row.TeamID,
		})
	}

	return out, nil
}
