package dashboard_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/comitanigiacomo/kanso-dashboard/internal/core/dashboard"
	"github.com/comitanigiacomo/kanso-dashboard/internal/core/domain"
)

// fakeAPI keeps server state in memory and records every call.
type fakeAPI struct {
	mu          sync.Mutex
	calls       []string
	habits      []*domain.Habit
	completions domain.CompletionIndex
	stats       *domain.StatsSnapshot
	notes       []*domain.Notification
	preds       []*domain.Prediction
	nextID      int

	monthErr error
	statsErr error
	notesErr error
	writeErr error

	// gates block Month for the given YYYY-MM until the channel is closed.
	gates map[string]chan struct{}
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		completions: domain.CompletionIndex{},
		stats:       &domain.StatsSnapshot{},
		gates:       map[string]chan struct{}{},
	}
}

func (f *fakeAPI) record(format string, args ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) called(prefix string) bool {
	for _, c := range f.Calls() {
		if strings.HasPrefix(c, prefix) {
			return true
		}
	}
	return false
}

func (f *fakeAPI) Month(ctx context.Context, year int, month time.Month) (*domain.MonthData, error) {
	key := fmt.Sprintf("%d-%02d", year, month)
	f.mu.Lock()
	f.record("month %s", key)
	gate := f.gates[key]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.monthErr != nil {
		return nil, f.monthErr
	}
	idx := domain.CompletionIndex{}
	for day, ids := range f.completions {
		if strings.HasPrefix(day, key) {
			idx[day] = append([]string(nil), ids...)
		}
	}
	return &domain.MonthData{Habits: append([]*domain.Habit(nil), f.habits...), Completions: idx}, nil
}

func (f *fakeAPI) Stats(_ context.Context, year int, month time.Month) (*domain.StatsSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("stats %d-%02d", year, month)
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	s := *f.stats
	return &s, nil
}

func (f *fakeAPI) Notifications(context.Context) ([]*domain.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("notifications")
	if f.notesErr != nil {
		return nil, f.notesErr
	}
	out := make([]*domain.Notification, 0, len(f.notes))
	for _, n := range f.notes {
		c := *n
		out = append(out, &c)
	}
	return out, nil
}

func (f *fakeAPI) Predictions(context.Context) ([]*domain.Prediction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("predictions")
	return f.preds, nil
}

func (f *fakeAPI) CreateHabit(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("create %s", name)
	if f.writeErr != nil {
		return f.writeErr
	}
	f.nextID++
	f.habits = append(f.habits, &domain.Habit{ID: fmt.Sprintf("h%d", f.nextID), Name: name})
	return nil
}

func (f *fakeAPI) RenameHabit(_ context.Context, id, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("rename %s %s", id, name)
	if f.writeErr != nil {
		return f.writeErr
	}
	for _, h := range f.habits {
		if h.ID == id {
			h.Name = name
		}
	}
	return nil
}

func (f *fakeAPI) DeleteHabit(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("delete %s", id)
	if f.writeErr != nil {
		return f.writeErr
	}
	kept := f.habits[:0]
	for _, h := range f.habits {
		if h.ID != id {
			kept = append(kept, h)
		}
	}
	f.habits = kept
	return nil
}

func (f *fakeAPI) ToggleCompletion(_ context.Context, habitID, dateKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("toggle %s %s", habitID, dateKey)
	if f.writeErr != nil {
		return f.writeErr
	}
	if f.completions.Has(dateKey, habitID) {
		var kept []string
		for _, id := range f.completions[dateKey] {
			if id != habitID {
				kept = append(kept, id)
			}
		}
		if len(kept) == 0 {
			delete(f.completions, dateKey)
		} else {
			f.completions[dateKey] = kept
		}
		return nil
	}
	f.completions.Add(dateKey, habitID)
	return nil
}

func (f *fakeAPI) MarkNotificationRead(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("read %d", id)
	if f.writeErr != nil {
		return f.writeErr
	}
	for _, n := range f.notes {
		if n.ID == id {
			n.Read = true
		}
	}
	return nil
}

// recordingView remembers the order of render calls and the last value of
// each region.
type recordingView struct {
	mu         sync.Mutex
	events     []string
	label      string
	habits     []*domain.Habit
	month      dashboard.MonthView
	stats      dashboard.StatsView
	notes      dashboard.NotificationsView
	preds      dashboard.PredictionsView
	redirected int
}

func (v *recordingView) add(e string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.events = append(v.events, e)
}

func (v *recordingView) Events() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.events...)
}

func (v *recordingView) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.events = nil
}

func (v *recordingView) ShowLabel(label string) {
	v.mu.Lock()
	v.label = label
	v.mu.Unlock()
	v.add("label")
}

func (v *recordingView) ShowHabits(habits []*domain.Habit) {
	v.mu.Lock()
	v.habits = habits
	v.mu.Unlock()
	v.add("habits")
}

func (v *recordingView) ShowCalendar(m dashboard.MonthView) {
	v.mu.Lock()
	v.month = m
	v.mu.Unlock()
	v.add("calendar")
}

func (v *recordingView) ShowStats(s dashboard.StatsView) {
	v.mu.Lock()
	v.stats = s
	v.mu.Unlock()
	v.add("stats")
}

func (v *recordingView) ShowNotifications(n dashboard.NotificationsView) {
	v.mu.Lock()
	v.notes = n
	v.mu.Unlock()
	v.add("notifications")
}

func (v *recordingView) ShowPredictions(p dashboard.PredictionsView) {
	v.mu.Lock()
	v.preds = p
	v.mu.Unlock()
	v.add("predictions")
}

func (v *recordingView) RedirectToLogin() {
	v.mu.Lock()
	v.redirected++
	v.mu.Unlock()
	v.add("login")
}

func (v *recordingView) Month() dashboard.MonthView {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.month
}

// checked reports the rendered checkbox for habitID on dateKey.
func (v *recordingView) checked(dateKey, habitID string) bool {
	for _, d := range v.Month().Days {
		if d.DateKey != dateKey {
			continue
		}
		for _, c := range d.Checks {
			if c.HabitID == habitID {
				return c.Checked
			}
		}
	}
	return false
}
