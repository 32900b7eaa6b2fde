package postgres

import (
	"context"
	"fmt"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/gridrivals/gridrivals/internal/domain/schedule"
	qb "github.com/gridrivals/gridrivals/internal/platform/querybuilder"
)

// The league has exactly one schedule configuration record.
const scheduleConfigID = 1

type scheduleConfigTableModel struct {
	ID     int64  `db:"id"`
	Config string `db:"config"`
}

type ScheduleRepository struct {
	db *sqlx.DB
}

func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

func (r *ScheduleRepository) Get(ctx context.Context) (schedule.Config, bool, error) {
	query, args, err := qb.Select("id", "config").From("schedule_configs").
		Where(qb.Eq("id", scheduleConfigID)).
		ToSQL()
	if err != nil {
		return schedule.Config{}, false, fmt.Errorf("build get schedule config query: %w", err)
	}

	var row scheduleConfigTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return schedule.Config{}, false, nil
		}
		return schedule.Config{}, false, fmt.Errorf("get schedule config: %w", err)
	}

	var cfg schedule.Config
	if err := sonic.Unmarshal([]byte(row.Config), &cfg); err != nil {
		return schedule.Config{}, false, fmt.Errorf("decode schedule config: %w", err)
	}

	return cfg, true, nil
}

func (r *ScheduleRepository) Upsert(ctx context.Context, cfg schedule.Config) error {
	encoded, err := sonic.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode schedule config: %w", err)
	}

	query, args, err := qb.InsertInto("schedule_configs").
		Columns("id", "config").
		Values(scheduleConfigID, string(encoded)).
		Suffix(`ON CONFLICT (id) DO UPDATE SET config = EXCLUDED.config, updated_at = NOW()`).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert schedule config query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert schedule config: %w", err)
	}

	return nil
}
