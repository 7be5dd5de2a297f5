package dashboard

import "github.com/comitanigiacomo/kanso-dashboard/internal/core/domain"

// HabitCheck is the checkbox state of one habit on one day.
type HabitCheck struct {
	HabitID string
	Name    string
	Checked bool
}

// Reconcile reports, for each habit in list order, whether its id is in the
// set stored under dateKey. An absent key leaves every habit unchecked.
func Reconcile(habits []*domain.Habit, idx domain.CompletionIndex, dateKey string) []HabitCheck {
	checks := make([]HabitCheck, 0, len(habits))
	for _, h := range habits {
		checks = append(checks, HabitCheck{
			HabitID: h.ID,
			Name:    h.Name,
			Checked: idx.Has(dateKey, h.ID),
		})
	}
	return checks
}

// DayView is a grid cell together with its reconciled checkboxes. Blank cells
// carry no checks.
type DayView struct {
	DayCell
	Checks []HabitCheck
}

func ReconcileGrid(cells []DayCell, habits []*domain.Habit, idx domain.CompletionIndex) []DayView {
	days := make([]DayView, 0, len(cells))
	for _, c := range cells {
		dv := DayView{DayCell: c}
		if !c.Blank() {
			dv.Checks = Reconcile(habits, idx, c.DateKey)
		}
		days = append(days, dv)
	}
	return days
}
