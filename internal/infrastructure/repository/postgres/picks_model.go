package postgres

import (
	"time"

	"github.com/lib/pq"
)

type picksTableModel struct {
	ID               int64          `db:"id"`
	ParticipantID    string         `db:"participant_id"`
	EventID          string         `db:"event_id"`
	TeamIDs          pq.StringArray `db:"team_ids"`
	CaptainTeamID    string         `db:"captain_team_id"`
	DriverIDs        pq.StringArray `db:"driver_ids"`
	ReserveDriverIDs pq.StringArray `db:"reserve_driver_ids"`
	FastestLapDriver string         `db:"fastest_lap_driver"`
	Penalty          float64        `db:"penalty"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"`
}

type picksInsertModel struct {
	ParticipantID    string         `db:"participant_id"`
	EventID          string         `db:"event_id"`
	TeamIDs          pq.StringArray `db:"team_ids"`
	CaptainTeamID    string         `db:"captain_team_id"`
	DriverIDs        pq.StringArray `db:"driver_ids"`
	ReserveDriverIDs pq.StringArray `db:"reserve_driver_ids"`
	FastestLapDriver string         `db:"fastest_lap_driver"`
	Penalty          float64        `db:"penalty"`
	UpdatedAt        time.Time      `db:"updated_at"`
}
