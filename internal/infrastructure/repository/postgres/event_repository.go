package postgres

import (
	"context"
	"fmt"
	"sync"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/gridrivals/gridrivals/internal/domain/event"
	"github.com/gridrivals/gridrivals/internal/domain/schedule"
	qb "github.com/gridrivals/gridrivals/internal/platform/querybuilder"
)

type EventRepository struct {
	db *sqlx.DB

	mu       sync.RWMutex
	listener event.ChangeListener
}

func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) GetResult(ctx context.Context, eventID string) (event.Result, bool, error) {
	query, args, err := qb.Select("*").From("event_results").
		Where(qb.Eq("event_id", eventID)).
		ToSQL()
	if err != nil {
		return event.Result{}, false, fmt.Errorf("build get event result query: %w", err)
	}

	var row eventResultTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return event.Result{}, false, nil
		}
		return event.Result{}, false, fmt.Errorf("get event result: %w", err)
	}

	res, err := eventResultFromRow(row)
	if err != nil {
		return event.Result{}, false, err
	}
	return res, true, nil
}

func (r *EventRepository) ListResults(ctx context.Context) ([]event.Result, error) {
	query, args, err := qb.Select("*").From("event_results").
		OrderBy("event_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list event results query: %w", err)
	}

	var rows []eventResultTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list event results: %w", err)
	}

	out := make([]event.Result, 0, len(rows))
	for _, row := range rows {
		res, err := eventResultFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}

	return out, nil
}

func (r *EventRepository) UpsertResult(ctx context.Context, result event.Result) error {
	teamByDriver, err := encodeJSONColumn(result.TeamByDriver)
	if err != nil {
		return fmt.Errorf("encode team map for event %s: %w", result.EventID, err)
	}
	snapshot, err := encodeJSONColumn(result.ScheduleSnapshot)
	if err != nil {
		return fmt.Errorf("encode schedule snapshot for event %s: %w", result.EventID, err)
	}

	insertModel := eventResultInsertModel{
		EventID:          result.EventID,
		GrandPrixFinish:  result.GrandPrixFinish,
		SprintFinish:     result.SprintFinish,
		GrandPrixQuali:   result.GrandPrixQuali,
		SprintQuali:      result.SprintQuali,
		FastestLapDriver: result.FastestLapDriver,
		TeamByDriver:     teamByDriver,
		ScheduleSnapshot: snapshot,
		Finalized:        result.Finalized,
		UpdatedAt:        result.UpdatedAt,
	}

	query, args, err := qb.InsertModel("event_results", insertModel, `ON CONFLICT (event_id)
DO UPDATE SET
    grand_prix_finish = EXCLUDED.grand_prix_finish,
    sprint_finish = EXCLUDED.sprint_finish,
    grand_prix_quali = EXCLUDED.grand_prix_quali,
    sprint_quali = EXCLUDED.sprint_quali,
    fastest_lap_driver = EXCLUDED.fastest_lap_driver,
    team_by_driver = EXCLUDED.team_by_driver,
    schedule_snapshot = EXCLUDED.schedule_snapshot,
    finalized = EXCLUDED.finalized,
    updated_at = EXCLUDED.updated_at`)
	if err != nil {
		return fmt.Errorf("build upsert event result query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert event result %s: %w", result.EventID, err)
	}

	r.mu.RLock()
	listener := r.listener
	r.mu.RUnlock()
	if listener != nil {
		listener.ResultChanged(result.EventID)
	}

	return nil
}

func (r *EventRepository) SetChangeListener(listener event.ChangeListener) {
	r.mu.Lock()
	r.listener = listener
	r.mu.Unlock()
}

func eventResultFromRow(row eventResultTableModel) (event.Result, error) {
	res := event.Result{
		EventID:          row.EventID,
		GrandPrixFinish:  row.GrandPrixFinish,
		SprintFinish:     row.SprintFinish,
		GrandPrixQuali:   row.GrandPrixQuali,
		SprintQuali:      row.SprintQuali,
		FastestLapDriver: row.FastestLapDriver,
		Finalized:        row.Finalized,
		UpdatedAt:        row.UpdatedAt.UTC(),
	}

	if row.TeamByDriver != nil {
		if err := sonic.Unmarshal([]byte(*row.TeamByDriver), &res.TeamByDriver); err != nil {
			return event.Result{}, fmt.Errorf("decode team map for event %s: %w", row.EventID, err)
		}
	}
	if row.ScheduleSnapshot != nil {
		var snapshot schedule.PointsSchedule
		if err := sonic.Unmarshal([]byte(*row.ScheduleSnapshot), &snapshot); err != nil {
			return event.Result{}, fmt.Errorf("decode schedule snapshot for event %s: %w", row.EventID, err)
		}
		res.ScheduleSnapshot = &snapshot
	}

	return res, nil
}

func encodeJSONColumn(value any) (*string, error) {
	switch v := value.(type) {
	case map[string]string:
		if len(v) == 0 {
			return nil, nil
		}
	case *schedule.PointsSchedule:
		if v == nil {
			return nil, nil
		}
	case nil:
		return nil, nil
	}

	encoded, err := sonic.Marshal(value)
	if err != nil {
		return nil, err
	}
	out := string(encoded)
	return &out, nil
}
