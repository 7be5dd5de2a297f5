package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-dashboard/internal/adapters/render"
	"github.com/comitanigiacomo/kanso-dashboard/internal/core/dashboard"
	"github.com/comitanigiacomo/kanso-dashboard/internal/core/domain"
	"github.com/comitanigiacomo/kanso-dashboard/internal/logging"
)

// Controller is the part of *dashboard.Dashboard the screen drives.
type Controller interface {
	Open(ctx context.Context) error
	Reload(ctx context.Context) error
	Navigate(ctx context.Context, delta int) error
	Today(ctx context.Context) error
	CreateHabit(ctx context.Context, name string) error
	RenameHabit(ctx context.Context, id, name string) error
	DeleteHabit(ctx context.Context, id string) error
	ToggleCompletion(ctx context.Context, habitID, dateKey string) error
	MarkNotificationRead(ctx context.Context, id int64) error
}

type mode int

const (
	modeNormal mode = iota
	modeAdd
	modeRename
	modeConfirmDelete
)

// updateMsg carries one View call into the event loop.
type updateMsg render.Update

// doneMsg reports the end of a dashboard action.
type doneMsg struct{ err error }

type Model struct {
	ctx   context.Context
	ctrl  Controller
	r     *render.Renderer
	now   func() time.Time
	log   *zap.Logger
	input textinput.Model

	screen render.Screen
	state  dashboard.ViewState
	habit  int
	day    int
	mode   mode

	width, height int
}

func New(ctx context.Context, ctrl Controller, r *render.Renderer, now func() time.Time) Model {
	in := textinput.New()
	in.CharLimit = domain.MaxNameLen
	in.Prompt = "> "

	today := now()
	return Model{
		ctx:   ctx,
		ctrl:  ctrl,
		r:     r,
		now:   now,
		log:   logging.L().Named("tui"),
		input: in,
		state: dashboard.StateFor(today),
		day:   today.Day(),
	}
}

func (m Model) Init() tea.Cmd {
	return m.do(m.ctrl.Open)
}

func (m Model) do(f func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg { return doneMsg{err: f(ctx)} }
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case updateMsg:
		m.screen.Apply(render.Update(msg))
		if msg.Kind == render.UpdateCalendar {
			m.state = msg.Month.State
			m.clamp()
		}
		return m, nil

	case doneMsg:
		// Failures other than a rejected session leave the screen as it was.
		if msg.err != nil && !errors.Is(msg.err, dashboard.ErrSuperseded) && !errors.Is(msg.err, dashboard.ErrUnauthenticated) {
			m.log.Debug("action failed", zap.Error(msg.err))
		}
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeAdd, modeRename:
			return m.updateInput(msg)
		case modeConfirmDelete:
			return m.updateConfirm(msg)
		}
		return m.updateNormal(msg)
	}
	return m, nil
}

func (m Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.screen.LoginRequired {
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "[":
		m.moveMonth(-1)
		return m, m.do(func(ctx context.Context) error { return m.ctrl.Navigate(ctx, -1) })
	case "]":
		m.moveMonth(1)
		return m, m.do(func(ctx context.Context) error { return m.ctrl.Navigate(ctx, 1) })
	case "t":
		today := m.now()
		m.state = dashboard.StateFor(today)
		m.day = today.Day()
		return m, m.do(m.ctrl.Today)
	case "R":
		return m, m.do(m.ctrl.Reload)
	case "left", "h":
		m.moveDay(-1)
	case "right", "l":
		m.moveDay(1)
	case "up":
		m.moveDay(-7)
	case "down":
		m.moveDay(7)
	case "j":
		if m.habit < len(m.screen.Habits)-1 {
			m.habit++
		}
	case "k":
		if m.habit > 0 {
			m.habit--
		}
	case " ", "space":
		h, key, ok := m.selection()
		if !ok {
			return m, nil
		}
		return m, m.do(func(ctx context.Context) error { return m.ctrl.ToggleCompletion(ctx, h.ID, key) })
	case "a":
		m.mode = modeAdd
		m.input.SetValue("")
		m.input.Placeholder = "New habit"
		return m, m.input.Focus()
	case "r":
		h, ok := m.selectedHabit()
		if !ok {
			return m, nil
		}
		m.mode = modeRename
		m.input.SetValue(h.Name)
		m.input.CursorEnd()
		return m, m.input.Focus()
	case "x":
		if _, ok := m.selectedHabit(); ok {
			m.mode = modeConfirmDelete
		}
	case "n":
		if m.screen.Notes == nil {
			return m, nil
		}
		it, ok := m.screen.Notes.FirstUnread()
		if !ok {
			return m, nil
		}
		return m, m.do(func(ctx context.Context) error { return m.ctrl.MarkNotificationRead(ctx, it.ID) })
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeNormal
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		name := m.input.Value()
		current := m.mode
		m.mode = modeNormal
		m.input.Blur()

		if current == modeAdd {
			return m, m.do(func(ctx context.Context) error { return m.ctrl.CreateHabit(ctx, name) })
		}
		h, ok := m.selectedHabit()
		if !ok {
			return m, nil
		}
		return m, m.do(func(ctx context.Context) error { return m.ctrl.RenameHabit(ctx, h.ID, name) })
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = modeNormal
	if msg.String() != "y" {
		return m, nil
	}
	h, ok := m.selectedHabit()
	if !ok {
		return m, nil
	}
	if m.habit > 0 && m.habit == len(m.screen.Habits)-1 {
		m.habit--
	}
	return m, m.do(func(ctx context.Context) error { return m.ctrl.DeleteHabit(ctx, h.ID) })
}

func (m *Model) moveMonth(delta int) {
	m.state = m.state.Advance(delta)
	m.day = 1
	if today := m.now(); dashboard.StateFor(today) == m.state {
		m.day = today.Day()
	}
}

func (m *Model) moveDay(delta int) {
	m.day += delta
	m.clamp()
}

func (m *Model) clamp() {
	days := dashboard.DaysIn(m.state.Year, m.state.Month)
	m.day = min(max(m.day, 1), days)
	if n := len(m.screen.Habits); m.habit >= n {
		m.habit = max(n-1, 0)
	}
}

func (m Model) selectedHabit() (*domain.Habit, bool) {
	if m.habit < 0 || m.habit >= len(m.screen.Habits) {
		return nil, false
	}
	return m.screen.Habits[m.habit], true
}

// selection returns the focused habit and the date key of the focused day.
func (m Model) selection() (*domain.Habit, string, bool) {
	h, ok := m.selectedHabit()
	if !ok || m.screen.Month == nil {
		return nil, "", false
	}
	for _, dv := range m.screen.Month.Days {
		if dv.Day == m.day {
			return h, dv.DateKey, true
		}
	}
	return nil, "", false
}

func (m Model) View() string {
	if m.screen.LoginRequired {
		return m.r.Screen(m.screen, render.Focus{}) + "\n\n" + helpLine("q quit")
	}

	today := m.now()
	focus := render.Focus{
		Habit: m.habit,
		Day:   m.day,
		Today: dashboard.DateKey(today.Year(), today.Month(), today.Day()),
	}
	out := m.r.Screen(m.screen, focus)

	switch m.mode {
	case modeAdd:
		out += "\n\nAdd habit (enter to save, esc to cancel)\n" + m.input.View()
	case modeRename:
		out += "\n\nRename habit (enter to save, esc to cancel)\n" + m.input.View()
	case modeConfirmDelete:
		if h, ok := m.selectedHabit(); ok {
			out += fmt.Sprintf("\n\nDelete %q and all its completions? (y/n)", h.Name)
		}
	default:
		out += "\n\n" + helpLine("[ ] month  t today  ←→↑↓ day  j/k habit  space toggle  a add  r rename  x delete  n read  R reload  q quit")
	}
	return out
}

func helpLine(s string) string {
	return render.DefaultStyles().Help.Render(s)
}
