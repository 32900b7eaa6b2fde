package roster

// Driver is a static roster entry linking a competitor to a team. The roster
// is the fallback for team attribution when a result carries no override map.
type Driver struct {
	ID     string
	Name   string
	TeamID string
}

// TeamByDriver builds the driver→team lookup from a roster listing.
func TeamByDriver(drivers []Driver) map[string]string {
	out := make(map[string]string, len(drivers))
	for _, d := range drivers {
		if d.ID == "" || d.TeamID == "" {
			continue
		}
		out[d.ID] = d.TeamID
	}
	return out
}
