package dashboard_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-dashboard/internal/core/dashboard"
	"github.com/comitanigiacomo/kanso-dashboard/internal/core/domain"
)

var march2024 = dashboard.ViewState{Year: 2024, Month: time.March}

func newDashboard(api dashboard.API, view dashboard.View) *dashboard.Dashboard {
	clock := func() time.Time { return time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC) }
	return dashboard.New(api, view, dashboard.WithClock(clock), dashboard.WithLogger(zap.NewNop()))
}

func seededAPI() *fakeAPI {
	api := newFakeAPI()
	api.habits = []*domain.Habit{{ID: "h1", Name: "Run"}, {ID: "h2", Name: "Read"}}
	api.completions.Add("2024-03-05", "h1")
	api.stats = &domain.StatsSnapshot{
		Habits:         api.habits,
		HabitCounts:    []domain.HabitCount{{ID: "h1", Name: "Run", Count: 1}, {ID: "h2", Name: "Read", Count: 0}},
		DailyTotals:    make([]int, 31),
		Weekly:         []int{7, 0, 0, 0, 0},
		OverallPercent: 1,
	}
	api.notes = []*domain.Notification{
		{ID: 2, Message: "You missed 'Read' for 3 days in a row."},
		{ID: 1, Message: "older", Read: true},
	}
	p := 0.72
	api.preds = []*domain.Prediction{
		{HabitID: "h1", Name: "Run", Probability: &p},
		{HabitID: "h2", Name: "Read"},
	}
	return api
}

func TestDashboard_Open(t *testing.T) {
	api := seededAPI()
	view := &recordingView{}
	d := newDashboard(api, view)

	require.NoError(t, d.Open(context.Background()))

	assert.Equal(t, march2024, d.State())
	assert.Equal(t,
		[]string{"label", "habits", "calendar", "stats", "notifications", "predictions"},
		view.Events(), "regions render in pipeline order")
	assert.Equal(t,
		[]string{"month 2024-03", "stats 2024-03", "notifications", "predictions"},
		api.Calls(), "fetches are issued one after the other")

	assert.Equal(t, "March 2024", view.label)
	assert.Len(t, view.habits, 2)
	assert.True(t, view.checked("2024-03-05", "h1"))
	assert.False(t, view.checked("2024-03-05", "h2"))
	assert.Equal(t, "Run", view.stats.Insights.Top.Name)

	first, ok := view.notes.FirstUnread()
	require.True(t, ok)
	assert.Equal(t, int64(2), first.ID)

	require.Len(t, view.preds.Items, 2)
	assert.Equal(t, "72%", view.preds.Items[0].Label)
	assert.Equal(t, dashboard.UnknownProbability, view.preds.Items[1].Label)
	assert.False(t, view.preds.Items[1].Known)
}

func TestDashboard_ReloadIsIdempotent(t *testing.T) {
	api := seededAPI()
	view := &recordingView{}
	d := newDashboard(api, view)

	require.NoError(t, d.LoadMonth(context.Background(), march2024))
	firstMonth, firstStats := view.Month(), view.stats

	require.NoError(t, d.Reload(context.Background()))
	assert.Equal(t, firstMonth, view.Month())
	assert.Equal(t, firstStats, view.stats)
	assert.Equal(t, march2024, d.State())
}

func TestDashboard_Navigate(t *testing.T) {
	api := seededAPI()
	view := &recordingView{}
	d := newDashboard(api, view)
	ctx := context.Background()

	require.NoError(t, d.LoadMonth(ctx, dashboard.ViewState{Year: 2024, Month: time.January}))
	require.NoError(t, d.Navigate(ctx, -1))
	assert.Equal(t, dashboard.ViewState{Year: 2023, Month: time.December}, d.State())
	assert.Equal(t, "December 2023", view.label)

	require.NoError(t, d.Navigate(ctx, 1))
	assert.Equal(t, "January 2024", view.label)

	require.NoError(t, d.Today(ctx))
	assert.Equal(t, march2024, d.State())
	assert.True(t, api.called("month 2023-12"))
}

func TestDashboard_UnauthenticatedRedirects(t *testing.T) {
	api := seededAPI()
	api.monthErr = dashboard.ErrUnauthenticated
	view := &recordingView{}
	d := newDashboard(api, view)

	err := d.Open(context.Background())

	assert.ErrorIs(t, err, dashboard.ErrUnauthenticated)
	assert.Equal(t, []string{"label", "login"}, view.Events())
	assert.Equal(t, 1, view.redirected)
	assert.Equal(t, []string{"month 2024-03"}, api.Calls(), "no further fetches after a 401")
}

func TestDashboard_FailureStopsTheRun(t *testing.T) {
	api := seededAPI()
	view := &recordingView{}
	d := newDashboard(api, view)
	ctx := context.Background()

	require.NoError(t, d.Open(ctx))
	before := view.stats
	view.Reset()

	api.statsErr = &dashboard.StatusError{Code: 500}
	err := d.Reload(ctx)

	var se *dashboard.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, []string{"label", "habits", "calendar"}, view.Events())
	assert.Equal(t, before, view.stats, "earlier render stays in place")
	assert.Zero(t, view.redirected)
	assert.NotContains(t, api.Calls()[4:], "predictions")
}

func TestDashboard_MonthFailureKeepsPreviousCalendar(t *testing.T) {
	api := seededAPI()
	view := &recordingView{}
	d := newDashboard(api, view)
	ctx := context.Background()

	require.NoError(t, d.Open(ctx))
	view.Reset()

	api.monthErr = errors.New("connection refused")
	require.Error(t, d.Navigate(ctx, 1))

	assert.Equal(t, []string{"label"}, view.Events())
	assert.Equal(t, time.March, view.Month().State.Month)
	assert.Zero(t, view.redirected)
}

func TestDashboard_StaleRunIsDiscarded(t *testing.T) {
	api := seededAPI()
	gate := make(chan struct{})
	api.gates["2024-03"] = gate
	view := &recordingView{}
	d := newDashboard(api, view)
	ctx := context.Background()

	slow := make(chan error, 1)
	go func() { slow <- d.LoadMonth(ctx, march2024) }()
	require.Eventually(t, func() bool { return api.called("month 2024-03") }, time.Second, time.Millisecond)

	april := dashboard.ViewState{Year: 2024, Month: time.April}
	require.NoError(t, d.LoadMonth(ctx, april))
	close(gate)

	select {
	case err := <-slow:
		assert.ErrorIs(t, err, dashboard.ErrSuperseded)
	case <-time.After(time.Second):
		t.Fatal("superseded run did not return")
	}

	assert.Equal(t, april, d.State())
	assert.Equal(t, april, view.Month().State, "late March results never replace April")
	assert.Equal(t, "April 2024", view.label)
}

func TestDashboard_ToggleRoundTrip(t *testing.T) {
	api := seededAPI()
	view := &recordingView{}
	d := newDashboard(api, view)
	ctx := context.Background()
	require.NoError(t, d.Open(ctx))

	require.NoError(t, d.ToggleCompletion(ctx, "h2", "2024-03-07"))
	assert.True(t, view.checked("2024-03-07", "h2"))

	require.NoError(t, d.ToggleCompletion(ctx, "h2", "2024-03-07"))
	assert.False(t, view.checked("2024-03-07", "h2"))
	assert.Equal(t, seededAPI().completions, api.completions, "two toggles restore the server state")
}

func TestDashboard_CreateHabit(t *testing.T) {
	api := seededAPI()
	view := &recordingView{}
	d := newDashboard(api, view)
	ctx := context.Background()
	require.NoError(t, d.Open(ctx))

	t.Run("Blank names issue no request", func(t *testing.T) {
		calls := len(api.Calls())
		require.NoError(t, d.CreateHabit(ctx, "   "))
		require.NoError(t, d.RenameHabit(ctx, "h1", ""))
		assert.Len(t, api.Calls(), calls)
	})

	t.Run("Created habit appears after reload", func(t *testing.T) {
		require.NoError(t, d.CreateHabit(ctx, "  Stretch "))
		assert.True(t, api.called("create Stretch"))
		require.Len(t, view.habits, 3)
		assert.Equal(t, "Stretch", view.habits[2].Name)
	})

	t.Run("Rename keeps identity", func(t *testing.T) {
		require.NoError(t, d.RenameHabit(ctx, "h1", "Jog"))
		assert.Equal(t, "h1", view.habits[0].ID)
		assert.Equal(t, "Jog", view.habits[0].Name)
	})

	t.Run("Delete removes the habit", func(t *testing.T) {
		require.NoError(t, d.DeleteHabit(ctx, "h2"))
		for _, h := range view.habits {
			assert.NotEqual(t, "h2", h.ID)
		}
	})
}

func TestDashboard_WriteErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("Server refusal still reloads", func(t *testing.T) {
		api := seededAPI()
		view := &recordingView{}
		d := newDashboard(api, view)
		api.writeErr = &dashboard.StatusError{Code: 400, Message: "habit name cannot be empty"}

		err := d.CreateHabit(ctx, "x")

		var se *dashboard.StatusError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, 400, se.Code)
		assert.True(t, api.called("month"), "state is re-read after the server answered")
	})

	t.Run("Transport failure stops the action", func(t *testing.T) {
		api := seededAPI()
		view := &recordingView{}
		d := newDashboard(api, view)
		api.writeErr = errors.New("dial tcp: connection refused")

		require.Error(t, d.ToggleCompletion(ctx, "h1", "2024-03-01"))
		assert.Equal(t, []string{"toggle h1 2024-03-01"}, api.Calls())
		assert.Empty(t, view.Events())
	})

	t.Run("Unauthenticated write ends at the login screen", func(t *testing.T) {
		api := seededAPI()
		view := &recordingView{}
		d := newDashboard(api, view)
		api.writeErr = dashboard.ErrUnauthenticated
		api.monthErr = dashboard.ErrUnauthenticated

		err := d.DeleteHabit(ctx, "h1")
		assert.ErrorIs(t, err, dashboard.ErrUnauthenticated)
		assert.Equal(t, 1, view.redirected)
	})
}

func TestDashboard_MarkNotificationRead(t *testing.T) {
	api := seededAPI()
	view := &recordingView{}
	d := newDashboard(api, view)
	ctx := context.Background()
	require.NoError(t, d.Open(ctx))
	view.Reset()
	before := len(api.Calls())

	require.NoError(t, d.MarkNotificationRead(ctx, 2))

	assert.Equal(t, []string{"read 2", "notifications"}, api.Calls()[before:])
	assert.Equal(t, []string{"notifications"}, view.Events(), "only the notification panel is refreshed")
	_, unread := view.notes.FirstUnread()
	assert.False(t, unread)
}

func TestDashboard_EmptyAccount(t *testing.T) {
	api := newFakeAPI()
	view := &recordingView{}
	d := newDashboard(api, view)

	require.NoError(t, d.Open(context.Background()))

	assert.Empty(t, view.habits)
	assert.True(t, view.notes.Empty())
	assert.True(t, view.preds.Empty())
	assert.Nil(t, view.stats.Insights.Top)
	for _, day := range view.Month().Days {
		assert.Empty(t, day.Checks)
	}
}

func TestDashboard_WithMonth(t *testing.T) {
	api := seededAPI()
	d := dashboard.New(api, &recordingView{},
		dashboard.WithClock(func() time.Time { return time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC) }),
		dashboard.WithMonth(dashboard.ViewState{Year: 2023, Month: time.December}),
		dashboard.WithLogger(zap.NewNop()),
	)

	require.NoError(t, d.Reload(context.Background()))
	assert.Equal(t, "month 2023-12", api.Calls()[0], "reload starts from the configured month")

	require.NoError(t, d.Today(context.Background()))
	assert.Equal(t, march2024, d.State())
}
