package schedule

// PointsSchedule holds the point values awarded per finishing or qualifying
// position, ordered from first place down, plus the fastest-lap bonus.
type PointsSchedule struct {
	GrandPrix       []int
	Sprint          []int
	GrandPrixQuali  []int
	SprintQuali     []int
	FastestLapBonus int
}

// Config is the league-wide schedule configuration record. Either Flat is set,
// or Profiles carries named schedules with ActiveProfile pointing at one of them.
type Config struct {
	Flat          *PointsSchedule
	Profiles      map[string]PointsSchedule
	ActiveProfile string
}

// Active resolves the schedule this config currently selects.
func (c Config) Active() (PointsSchedule, bool) {
	if c.Flat != nil {
		return *c.Flat, true
	}
	if c.ActiveProfile == "" {
		return PointsSchedule{}, false
	}
	s, ok := c.Profiles[c.ActiveProfile]
	return s, ok
}

// Default returns the built-in schedule used when no configuration record
// exists at all. Values follow the current sporting regulations.
func Default() PointsSchedule {
	return PointsSchedule{
		GrandPrix:       []int{25, 18, 15, 12, 10, 8, 6, 4, 2, 1},
		Sprint:          []int{8, 7, 6, 5, 4, 3, 2, 1},
		GrandPrixQuali:  []int{3, 2, 1},
		SprintQuali:     []int{3, 2, 1},
		FastestLapBonus: 5,
	}
}

// PointsAt returns the points awarded at a zero-based position, or zero when
// the position is outside the scored range.
func PointsAt(values []int, position int) int {
	if position < 0 || position >= len(values) {
		return 0
	}
	return values[position]
}
