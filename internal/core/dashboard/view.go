package dashboard

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/comitanigiacomo/kanso-dashboard/internal/core/domain"
)

// UnknownProbability marks a habit the server could not score.
const UnknownProbability = "—"

// MonthView is everything the habit list and calendar need for one month.
type MonthView struct {
	State  ViewState
	Habits []*domain.Habit
	Days   []DayView
}

func BuildMonthView(state ViewState, data *domain.MonthData) MonthView {
	idx := data.Completions
	if idx == nil {
		idx = domain.CompletionIndex{}
	}
	cells := BuildGrid(state.Year, state.Month)
	return MonthView{
		State:  state,
		Habits: data.Habits,
		Days:   ReconcileGrid(cells, data.Habits, idx),
	}
}

// Point is one labelled value of a chart series.
type Point struct {
	Label string
	Value int
}

// StatsView feeds the three charts and the insights panel.
type StatsView struct {
	HabitBars  []Point
	DailyTrend []Point
	WeeklyBars []Point
	Insights   Insights
}

func BuildStatsView(s *domain.StatsSnapshot) StatsView {
	v := StatsView{Insights: BuildInsights(s)}

	counts := make(map[string]int, len(s.HabitCounts))
	for _, hc := range s.HabitCounts {
		counts[hc.ID] = hc.Count
	}
	for _, h := range s.Habits {
		v.HabitBars = append(v.HabitBars, Point{Label: h.Name, Value: counts[h.ID]})
	}

	for i, total := range s.DailyTotals {
		v.DailyTrend = append(v.DailyTrend, Point{Label: strconv.Itoa(i + 1), Value: total})
	}
	for i, pct := range s.Weekly {
		v.WeeklyBars = append(v.WeeklyBars, Point{Label: fmt.Sprintf("W%d", i+1), Value: pct})
	}
	return v
}

type NotificationItem struct {
	ID        int64
	Message   string
	CreatedAt time.Time
	Read      bool
}

type NotificationsView struct {
	Items []NotificationItem
}

func (v NotificationsView) Empty() bool { return len(v.Items) == 0 }

// FirstUnread returns the newest unread notification, if any.
func (v NotificationsView) FirstUnread() (NotificationItem, bool) {
	for _, it := range v.Items {
		if !it.Read {
			return it, true
		}
	}
	return NotificationItem{}, false
}

func BuildNotificationsView(list []*domain.Notification) NotificationsView {
	v := NotificationsView{Items: make([]NotificationItem, 0, len(list))}
	for _, n := range list {
		v.Items = append(v.Items, NotificationItem{
			ID:        n.ID,
			Message:   n.Message,
			CreatedAt: n.CreatedAt,
			Read:      n.Read,
		})
	}
	return v
}

type PredictionItem struct {
	Name  string
	Label string
	Known bool
}

type PredictionsView struct {
	Items []PredictionItem
}

func (v PredictionsView) Empty() bool { return len(v.Items) == 0 }

// ProbabilityLabel renders a probability as a whole percentage, or the
// unknown marker when p is nil or not a number.
func ProbabilityLabel(p *float64) (string, bool) {
	if p == nil || math.IsNaN(*p) || math.IsInf(*p, 0) {
		return UnknownProbability, false
	}
	return fmt.Sprintf("%d%%", int(math.Round(*p*100))), true
}

func BuildPredictionsView(list []*domain.Prediction) PredictionsView {
	v := PredictionsView{Items: make([]PredictionItem, 0, len(list))}
	for _, p := range list {
		label, known := ProbabilityLabel(p.Probability)
		v.Items = append(v.Items, PredictionItem{Name: p.Name, Label: label, Known: known})
	}
	return v
}
