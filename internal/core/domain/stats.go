package domain

// HabitCount is the number of days a habit was completed within the month.
type HabitCount struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// StatsSnapshot is the month summary served by GET /api/stats/{year}/{month}.
// DailyTotals is indexed by day-of-month minus one, Weekly by week-of-month
// minus one.
type StatsSnapshot struct {
	Habits         []*Habit     `json:"habits"`
	HabitCounts    []HabitCount `json:"habit_counts"`
	DailyTotals    []int        `json:"daily_totals"`
	Weekly         []int        `json:"weekly"`
	OverallPercent int          `json:"overall_percent"`
}
