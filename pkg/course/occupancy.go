package course

// MinutesPerDay is the resolution of an Occupancy histogram
const MinutesPerDay = 24 * 60

// Occupancy holds, per weekday (Monday first) and minute of day, how many
// enrolled students start or finish a class at that minute.
type Occupancy struct {
	Starts [7][]int `json:"start_timings"`
	Ends   [7][]int `json:"end_timings"`
}

// ComputeOccupancy weights every meeting by the section's taken seats
func ComputeOccupancy(courses []Course) Occupancy {
	var occ Occupancy
	for d := 0; d < 7; d++ {
		occ.Starts[d] = make([]int, MinutesPerDay)
		occ.Ends[d] = make([]int, MinutesPerDay)
	}

	for _, c := range courses {
		for _, t := range c.Timings {
			for _, day := range t.Days {
				d := day.Index()
				if d < 0 || !inDay(t.Start) || !inDay(t.End) {
					continue
				}
				occ.Starts[d][t.Start] += c.Seats.Taken
				occ.Ends[d][t.End] += c.Seats.Taken
			}
		}
	}
	return occ
}

func inDay(c Clock) bool {
	return c >= 0 && int(c) < MinutesPerDay
}
