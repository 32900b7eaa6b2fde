package postgres

import (
	"time"

	"github.com/lib/pq"
)

type eventResultTableModel struct {
	ID               int64          `db:"id"`
	EventID          string         `db:"event_id"`
	GrandPrixFinish  pq.StringArray `db:"grand_prix_finish"`
	SprintFinish     pq.StringArray `db:"sprint_finish"`
	GrandPrixQuali   pq.StringArray `db:"grand_prix_quali"`
	SprintQuali      pq.StringArray `db:"sprint_quali"`
	FastestLapDriver string         `db:"fastest_lap_driver"`
	TeamByDriver     *string        `db:"team_by_driver"`
	ScheduleSnapshot *string        `db:"schedule_snapshot"`
	Finalized        bool           `db:"finalized"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"`
}

type eventResultInsertModel struct {
	EventID          string         `db:"event_id"`
	GrandPrixFinish  pq.StringArray `db:"grand_prix_finish"`
	SprintFinish     pq.StringArray `db:"sprint_finish"`
	GrandPrixQuali   pq.StringArray `db:"grand_prix_quali"`
	SprintQuali      pq.StringArray `db:"sprint_quali"`
	FastestLapDriver string         `db:"fastest_lap_driver"`
	TeamByDriver     *string        `db:"team_by_driver"`
	ScheduleSnapshot *string        `db:"schedule_snapshot"`
	Finalized        bool           `db:"finalized"`
	UpdatedAt        time.Time      `db:"updated_at"`
}
