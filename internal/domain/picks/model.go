package picks

import (
	"fmt"
	"time"
)

// Picks is one participant's selections for one event.
type Picks struct {
	ParticipantID string
	EventID       string

	// TeamIDs is the primary team list; CaptainTeamID is the one extra
	// secondary slot and scores the same way.
	TeamIDs       []string
	CaptainTeamID string

	// DriverIDs and ReserveDriverIDs are individually scored picks; both lists
	// contribute identically.
	DriverIDs        []string
	ReserveDriverIDs []string

	FastestLapDriver string

	// Penalty is a fraction in [0,1) subtracted from the grand total as
	// ceil(total*penalty) after all buckets are summed.
	Penalty float64

	UpdatedAt time.Time
}

func (p Picks) ValidateBasic() error {
	if p.ParticipantID == "" {
		return fmt.Errorf("participant id is required")
	}
	if p.EventID == "" {
		return fmt.Errorf("event id is required")
	}
	if p.Penalty < 0 || p.Penalty >= 1 {
		return fmt.Errorf("penalty must be in [0,1)")
	}
	return nil
}

// SelectedTeams returns the primary list plus the captain slot.
func (p Picks) SelectedTeams() []string {
	if p.CaptainTeamID == "" {
		return p.TeamIDs
	}
	out := make([]string, 0, len(p.TeamIDs)+1)
	out = append(out, p.TeamIDs...)
	return append(out, p.CaptainTeamID)
}

// SelectedDrivers returns the primary list plus the reserve list.
func (p Picks) SelectedDrivers() []string {
	out := make([]string, 0, len(p.DriverIDs)+len(p.ReserveDriverIDs))
	out = append(out, p.DriverIDs...)
	return append(out, p.ReserveDriverIDs...)
}
