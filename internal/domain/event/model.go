package event

import (
	"time"

	"github.com/gridrivals/gridrivals/internal/domain/schedule"
)

// Result is the authoritative outcome of one race event. Finisher slices are
// ordered from first place down and hold driver IDs.
type Result struct {
	EventID          string
	GrandPrixFinish  []string
	SprintFinish     []string
	GrandPrixQuali   []string
	SprintQuali      []string
	FastestLapDriver string

	// TeamByDriver overrides the static roster for team attribution, e.g. for
	// mid-season driver swaps. Empty means "use the roster".
	TeamByDriver map[string]string

	// ScheduleSnapshot, once set, pins scoring for this event to the schedule
	// that was active when the result was finalized. Later edits to the live
	// schedule must never change historical scores.
	ScheduleSnapshot *schedule.PointsSchedule

	Finalized bool
	UpdatedAt time.Time
}

// ChangeListener is notified after every result write. Implementations must
// not block the writer; long work belongs on a background goroutine.
type ChangeListener interface {
	ResultChanged(eventID string)
}
