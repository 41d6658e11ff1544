package models

// DaysPerWeek is the number of day rows stored for each week (0 = Monday ... 6 = Sunday)
const DaysPerWeek = 7

// WeeklyPlan is one week of the planning grid keyed by its Monday.
type WeeklyPlan struct {
	WeekStart  string              `json:"week_start"` // YYYY-MM-DD, always a Monday
	Days       [DaysPerWeek]string `json:"days"`
	Intentions string              `json:"intentions"`
}

// Empty reports whether no day and no intentions text is set
func (w WeeklyPlan) Empty() bool {
	if w.Intentions != "" {
		return false
	}
	for _, d := range w.Days {
		if d != "" {
			return false
		}
	}
	return true
}
