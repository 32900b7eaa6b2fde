package usecase

import (
	"math"

	"github.com/gridrivals/gridrivals/internal/domain/event"
	"github.com/gridrivals/gridrivals/internal/domain/leaderboard"
	"github.com/gridrivals/gridrivals/internal/domain/picks"
	"github.com/gridrivals/gridrivals/internal/domain/schedule"
)

// ScorePicks computes one participant's points for one event. It is pure and
// never fails: nil picks or result, unknown drivers and unresolved teams all
// degrade to zero contribution.
//
// teamByDriver is the roster fallback; a result's own TeamByDriver map wins
// when it has an entry for the driver.
func ScorePicks(
	p *picks.Picks,
	res *event.Result,
	sched schedule.PointsSchedule,
	teamByDriver map[string]string,
) (int, leaderboard.Breakdown) {
	var breakdown leaderboard.Breakdown
	if p == nil || res == nil {
		return 0, breakdown
	}

	resolveTeam := func(driverID string) string {
		if team, ok := res.TeamByDriver[driverID]; ok {
			return team
		}
		return teamByDriver[driverID]
	}

	selectedTeams := make(map[string]struct{})
	for _, teamID := range p.SelectedTeams() {
		if teamID != "" {
			selectedTeams[teamID] = struct{}{}
		}
	}

	type category struct {
		order  []string
		points []int
		bucket *int
	}
	categories := []category{
		{order: res.GrandPrixFinish, points: sched.GrandPrix, bucket: &breakdown.GrandPrix},
		{order: res.SprintFinish, points: sched.Sprint, bucket: &breakdown.Sprint},
		// Both qualifying orders accumulate into the one shared bucket.
		{order: res.GrandPrixQuali, points: sched.GrandPrixQuali, bucket: &breakdown.Qualifying},
		{order: res.SprintQuali, points: sched.SprintQuali, bucket: &breakdown.Qualifying},
	}

	for _, cat := range categories {
		for position, driverID := range cat.order {
			team := resolveTeam(driverID)
			if team == "" {
				continue
			}
			if _, ok := selectedTeams[team]; ok {
				*cat.bucket += schedule.PointsAt(cat.points, position)
			}
		}
	}

	selectedDrivers := make(map[string]struct{})
	for _, driverID := range p.SelectedDrivers() {
		if driverID == "" {
			continue
		}
		if _, seen := selectedDrivers[driverID]; seen {
			continue
		}
		selectedDrivers[driverID] = struct{}{}

		for _, cat := range categories {
			if position, ok := positionOf(cat.order, driverID); ok {
				*cat.bucket += schedule.PointsAt(cat.points, position)
			}
		}
	}

	if p.FastestLapDriver != "" && p.FastestLapDriver == res.FastestLapDriver {
		breakdown.FastestLap += sched.FastestLapBonus
	}

	total := breakdown.GrandPrix + breakdown.Sprint + breakdown.Qualifying + breakdown.FastestLap

	// The penalty reduces only the grand total; bucket subtotals stay intact,
	// so the bucket sum may exceed the reported total.
	if p.Penalty > 0 && p.Penalty < 1 {
		total -= int(math.Ceil(float64(total) * p.Penalty))
	}

	return total, breakdown
}

func positionOf(order []string, driverID string) (int, bool) {
	for i, id := range order {
		if id == driverID {
			return i, true
		}
	}
	return 0, false
}
