package render

import (
	"sync"

	"github.com/comitanigiacomo/kanso-dashboard/internal/core/dashboard"
	"github.com/comitanigiacomo/kanso-dashboard/internal/core/domain"
)

// Screen is the last rendered value of every dashboard section. Nil
// sections have not been rendered yet.
type Screen struct {
	Label         string
	Habits        []*domain.Habit
	Month         *dashboard.MonthView
	Stats         *dashboard.StatsView
	Notes         *dashboard.NotificationsView
	Preds         *dashboard.PredictionsView
	LoginRequired bool
}

// Apply folds one view update into the screen.
func (s *Screen) Apply(u Update) {
	switch u.Kind {
	case UpdateLabel:
		s.Label = u.Label
		s.LoginRequired = false
	case UpdateHabits:
		s.Habits = u.Habits
	case UpdateCalendar:
		m := u.Month
		s.Month = &m
	case UpdateStats:
		st := u.Stats
		s.Stats = &st
	case UpdateNotifications:
		n := u.Notes
		s.Notes = &n
	case UpdatePredictions:
		p := u.Preds
		s.Preds = &p
	case UpdateLogin:
		s.LoginRequired = true
	}
}

type UpdateKind int

const (
	UpdateLabel UpdateKind = iota
	UpdateHabits
	UpdateCalendar
	UpdateStats
	UpdateNotifications
	UpdatePredictions
	UpdateLogin
)

// Update is one call the dashboard made on its View, as a value.
type Update struct {
	Kind   UpdateKind
	Label  string
	Habits []*domain.Habit
	Month  dashboard.MonthView
	Stats  dashboard.StatsView
	Notes  dashboard.NotificationsView
	Preds  dashboard.PredictionsView
}

// Emitter adapts a func(Update) to dashboard.View.
type Emitter func(Update)

var _ dashboard.View = Emitter(nil)

func (e Emitter) ShowLabel(label string)       { e(Update{Kind: UpdateLabel, Label: label}) }
func (e Emitter) ShowHabits(h []*domain.Habit) { e(Update{Kind: UpdateHabits, Habits: h}) }
func (e Emitter) ShowCalendar(m dashboard.MonthView) {
	e(Update{Kind: UpdateCalendar, Month: m})
}
func (e Emitter) ShowStats(s dashboard.StatsView) { e(Update{Kind: UpdateStats, Stats: s}) }
func (e Emitter) ShowNotifications(n dashboard.NotificationsView) {
	e(Update{Kind: UpdateNotifications, Notes: n})
}
func (e Emitter) ShowPredictions(p dashboard.PredictionsView) {
	e(Update{Kind: UpdatePredictions, Preds: p})
}
func (e Emitter) RedirectToLogin() { e(Update{Kind: UpdateLogin}) }

// Recorder is a dashboard.View that keeps the latest Screen. It is safe for
// concurrent use.
type Recorder struct {
	mu     sync.Mutex
	screen Screen
}

func (r *Recorder) View() dashboard.View {
	return Emitter(func(u Update) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.screen.Apply(u)
	})
}

func (r *Recorder) Screen() Screen {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.screen
}
