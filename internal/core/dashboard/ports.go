package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/comitanigiacomo/kanso-dashboard/internal/core/domain"
)

var (
	// ErrUnauthenticated is returned by an API implementation for HTTP 401.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrSuperseded is returned by a run whose results were discarded because a
	// newer run started.
	ErrSuperseded = errors.New("pipeline run superseded")
)

// StatusError is a non-2xx answer other than 401. The server did receive the
// request.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server answered %d", e.Code)
	}
	return fmt.Sprintf("server answered %d: %s", e.Code, e.Message)
}

// API is the remote state the dashboard reads and writes.
type API interface {
	Month(ctx context.Context, year int, month time.Month) (*domain.MonthData, error)
	Stats(ctx context.Context, year int, month time.Month) (*domain.StatsSnapshot, error)
	Notifications(ctx context.Context) ([]*domain.Notification, error)
	Predictions(ctx context.Context) ([]*domain.Prediction, error)

	CreateHabit(ctx context.Context, name string) error
	RenameHabit(ctx context.Context, id, name string) error
	DeleteHabit(ctx context.Context, id string) error
	ToggleCompletion(ctx context.Context, habitID, dateKey string) error
	MarkNotificationRead(ctx context.Context, id int64) error
}

// View presents the view models. Calls for one run arrive in pipeline order.
// Implementations must not call back into the Dashboard from these methods.
type View interface {
	ShowLabel(label string)
	ShowHabits(habits []*domain.Habit)
	ShowCalendar(month MonthView)
	ShowStats(stats StatsView)
	ShowNotifications(notes NotificationsView)
	ShowPredictions(preds PredictionsView)
	RedirectToLogin()
}
