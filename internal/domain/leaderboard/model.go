package leaderboard

import "time"

// Breakdown carries the per-category subtotals behind a participant's total.
// When a penalty applies, the bucket sum may legitimately exceed the total.
type Breakdown struct {
	GrandPrix  int
	Sprint     int
	Qualifying int
	FastestLap int
}

func (b Breakdown) Add(other Breakdown) Breakdown {
	return Breakdown{
		GrandPrix:  b.GrandPrix + other.GrandPrix,
		Sprint:     b.Sprint + other.Sprint,
		Qualifying: b.Qualifying + other.Qualifying,
		FastestLap: b.FastestLap + other.FastestLap,
	}
}

// Entry is one fully derived leaderboard row. Entries are overwritten
// wholesale on every rollup, never patched.
type Entry struct {
	ParticipantID string
	Total         int
	Breakdown     Breakdown
	Rank          int
	UpdatedAt     time.Time
}
