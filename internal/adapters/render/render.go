package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/comitanigiacomo/kanso-dashboard/internal/core/dashboard"
	"github.com/comitanigiacomo/kanso-dashboard/internal/core/domain"
)

const (
	NoHabits        = "No habits yet"
	NoNotifications = "No notifications"
	NoPredictions   = "No predictions"
	AddHabits       = "Add habits"
	LoginRequired   = "You are not signed in. Run `kanso login` and reopen the dashboard."
	Loading         = "Loading…"

	cellWidth = 7
	barWidth  = 24
)

// Focus marks the interactive selection. Habit is an index into the habit
// list and Day a day of the month; negative or zero values select nothing.
// Today is the date key of the current day.
type Focus struct {
	Habit int
	Day   int
	Today string
}

type Renderer struct {
	st Styles
}

func New(st Styles) *Renderer {
	return &Renderer{st: st}
}

// Screen renders every section in pipeline order.
func (r *Renderer) Screen(s Screen, f Focus) string {
	if s.LoginRequired {
		return r.st.Low.Render(LoginRequired)
	}

	label := s.Label
	if label == "" {
		label = Loading
	}
	parts := []string{r.st.Title.Render(label)}

	parts = append(parts, r.section("Habits", r.HabitList(s.Habits, s.Month != nil, f.Habit)))
	if s.Month != nil {
		parts = append(parts,
			r.section("Calendar", r.Calendar(*s.Month, f)),
			r.DayDetail(*s.Month, f),
		)
	}
	if s.Stats != nil {
		parts = append(parts, r.section("Statistics", r.Stats(*s.Stats)))
	}
	if s.Notes != nil {
		parts = append(parts, r.section("Notifications", r.Notifications(*s.Notes)))
	}
	if s.Preds != nil {
		parts = append(parts, r.section("Tomorrow", r.Predictions(*s.Preds)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (r *Renderer) section(title, body string) string {
	return r.st.Heading.Render(title) + "\n" + body
}

// HabitList renders the habits in server order. loaded is false before the
// first month arrives.
func (r *Renderer) HabitList(habits []*domain.Habit, loaded bool, selected int) string {
	if !loaded {
		return r.st.Muted.Render(Loading)
	}
	if len(habits) == 0 {
		return r.st.Muted.Render(NoHabits)
	}
	lines := make([]string, 0, len(habits))
	for i, h := range habits {
		line := fmt.Sprintf("%2d. %s", i+1, h.Name)
		if i == selected {
			line = r.st.Selected.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

var weekdayHeader = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Calendar renders the Monday-first grid. Each day shows how many habits
// were completed out of the total.
func (r *Renderer) Calendar(m dashboard.MonthView, f Focus) string {
	header := make([]string, 0, len(weekdayHeader))
	for _, d := range weekdayHeader {
		header = append(header, r.st.Muted.Render(pad(d)))
	}
	lines := []string{strings.Join(header, "")}

	var row []string
	for _, dv := range m.Days {
		row = append(row, r.dayCell(dv, f))
		if len(row) == 7 {
			lines = append(lines, strings.TrimRight(strings.Join(row, ""), " "))
			row = nil
		}
	}
	if len(row) > 0 {
		lines = append(lines, strings.TrimRight(strings.Join(row, ""), " "))
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) dayCell(dv dashboard.DayView, f Focus) string {
	if dv.Blank() {
		return pad("")
	}

	mark := "-"
	if n := len(dv.Checks); n > 0 {
		mark = fmt.Sprintf("%d/%d", checkedCount(dv.Checks), n)
	}
	text := pad(fmt.Sprintf("%2d %s", dv.Day, mark))

	style := lipgloss.NewStyle()
	if len(dv.Checks) > 0 && checkedCount(dv.Checks) == len(dv.Checks) {
		style = r.st.Done
	}
	if dv.DateKey == f.Today {
		style = style.Inherit(r.st.Today)
	}
	if dv.Day == f.Day {
		style = style.Inherit(r.st.Selected)
	}
	return style.Render(text)
}

// DayDetail lists the checkboxes of the focused day, or of today when no day
// is focused and today is in the month, otherwise of day 1.
func (r *Renderer) DayDetail(m dashboard.MonthView, f Focus) string {
	var day *dashboard.DayView
	for i := range m.Days {
		dv := &m.Days[i]
		if dv.Blank() {
			continue
		}
		if dv.Day == f.Day || (f.Day <= 0 && dv.DateKey == f.Today) {
			day = dv
			break
		}
		if day == nil {
			day = dv
		}
	}
	if day == nil {
		return ""
	}

	title := r.st.Heading.Render(day.DateKey)
	if len(day.Checks) == 0 {
		return title + "\n" + r.st.Muted.Render(AddHabits)
	}

	lines := []string{title}
	for i, c := range day.Checks {
		box := "[ ]"
		if c.Checked {
			box = r.st.Done.Render("[x]")
		}
		line := box + " " + c.Name
		if i == f.Habit {
			line = r.st.Selected.Render(box + " " + c.Name)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) Stats(v dashboard.StatsView) string {
	var lines []string

	if len(v.HabitBars) == 0 {
		lines = append(lines, r.st.Muted.Render(AddHabits))
	} else {
		lines = append(lines, r.bars(v.HabitBars, maxValue(v.HabitBars), "")...)
	}

	if len(v.DailyTrend) > 0 {
		lines = append(lines, "", "Daily   "+r.st.Bar.Render(sparkline(v.DailyTrend)))
	}
	if len(v.WeeklyBars) > 0 {
		lines = append(lines, "")
		lines = append(lines, r.bars(v.WeeklyBars, 100, "%")...)
	}

	lines = append(lines, "", r.Insights(v.Insights))
	return strings.Join(lines, "\n")
}

func (r *Renderer) bars(points []dashboard.Point, limit int, unit string) []string {
	width := 0
	for _, p := range points {
		width = max(width, lipgloss.Width(p.Label))
	}
	lines := make([]string, 0, len(points))
	for _, p := range points {
		n := 0
		if limit > 0 {
			n = p.Value * barWidth / limit
		}
		label := p.Label + strings.Repeat(" ", width-lipgloss.Width(p.Label))
		lines = append(lines, fmt.Sprintf("%s %s %d%s", label, r.st.Bar.Render(strings.Repeat("█", n)), p.Value, unit))
	}
	return lines
}

func (r *Renderer) Insights(in dashboard.Insights) string {
	lines := []string{fmt.Sprintf("Overall: %d%% this month.", in.Overall)}
	if in.Top != nil {
		lines = append(lines,
			fmt.Sprintf("Top habit: %s (%d)", in.Top.Name, in.Top.Count),
			fmt.Sprintf("Needs attention: %s (%d)", in.NeedsAttention.Name, in.NeedsAttention.Count),
		)
	}

	style := r.st.Great
	switch in.Recommendation.Level {
	case dashboard.LevelLow:
		style = r.st.Low
	case dashboard.LevelModerate:
		style = r.st.Moderate
	}
	lines = append(lines, style.Render(in.Recommendation.Message))

	if len(in.Untouched) > 0 {
		lines = append(lines, r.st.Muted.Render("Not started: "+strings.Join(in.Untouched, ", ")))
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) Notifications(v dashboard.NotificationsView) string {
	if v.Empty() {
		return r.st.Muted.Render(NoNotifications)
	}
	lines := make([]string, 0, len(v.Items))
	for _, it := range v.Items {
		stamp := it.CreatedAt.Local().Format("Jan 2 15:04")
		if it.Read {
			lines = append(lines, r.st.Muted.Render(fmt.Sprintf("  #%d %s  %s", it.ID, stamp, it.Message)))
			continue
		}
		lines = append(lines, r.st.Unread.Render(fmt.Sprintf("• #%d %s  %s", it.ID, stamp, it.Message)))
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) Predictions(v dashboard.PredictionsView) string {
	if v.Empty() {
		return r.st.Muted.Render(NoPredictions)
	}
	width := 0
	for _, it := range v.Items {
		width = max(width, lipgloss.Width(it.Name))
	}
	lines := make([]string, 0, len(v.Items))
	for _, it := range v.Items {
		label := it.Label
		if !it.Known {
			label = r.st.Muted.Render(label)
		}
		lines = append(lines, it.Name+strings.Repeat(" ", width-lipgloss.Width(it.Name))+"  "+label)
	}
	return strings.Join(lines, "\n")
}

func pad(s string) string {
	if w := lipgloss.Width(s); w < cellWidth {
		return s + strings.Repeat(" ", cellWidth-w)
	}
	return s
}

func checkedCount(checks []dashboard.HabitCheck) int {
	n := 0
	for _, c := range checks {
		if c.Checked {
			n++
		}
	}
	return n
}

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

func sparkline(points []dashboard.Point) string {
	top := maxValue(points)
	out := make([]rune, 0, len(points))
	for _, p := range points {
		i := 0
		if top > 0 {
			i = p.Value * (len(sparkRunes) - 1) / top
		}
		out = append(out, sparkRunes[i])
	}
	return string(out)
}

func maxValue(points []dashboard.Point) int {
	m := 0
	for _, p := range points {
		m = max(m, p.Value)
	}
	return m
}
