package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-dashboard/internal/logging"
)

// Dashboard runs the reload pipeline against an API and pushes the results to
// a View.
//
// Every full run takes a new generation number and a render step is applied
// only while its generation is still the latest, so results of an older run
// that resolves late are dropped instead of overwriting newer state.
// Notification refreshes carry their own counter because marking a
// notification read reloads that panel alone.
type Dashboard struct {
	api  API
	view View
	now  func() time.Time
	log  *zap.Logger

	initial *ViewState

	mu       sync.Mutex
	state    ViewState
	gen      uint64
	notesGen uint64

	renderMu sync.Mutex
}

type Option func(*Dashboard)

// WithClock sets the source of "today"; its location decides day boundaries.
func WithClock(now func() time.Time) Option {
	return func(d *Dashboard) { d.now = now }
}

// WithMonth sets the month viewed before the first run; by default it is the
// month containing today.
func WithMonth(s ViewState) Option {
	return func(d *Dashboard) { d.initial = &s }
}

func WithLogger(l *zap.Logger) Option {
	return func(d *Dashboard) { d.log = l }
}

func New(api API, view View, opts ...Option) *Dashboard {
	d := &Dashboard{
		api:  api,
		view: view,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.log == nil {
		d.log = logging.L()
	}
	d.log = d.log.Named("dashboard")
	d.state = StateFor(d.now())
	if d.initial != nil {
		d.state = *d.initial
	}
	return d
}

func (d *Dashboard) State() ViewState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// begin records the next state and opens a new generation.
func (d *Dashboard) begin(next func(ViewState) ViewState) (uint64, ViewState) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = next(d.state)
	d.gen++
	return d.gen, d.state
}

func (d *Dashboard) beginNotes() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.notesGen++
	return d.notesGen
}

func (d *Dashboard) latest(gen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return gen == d.gen
}

func (d *Dashboard) latestNotes(gen, notesGen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return notesGen == d.notesGen && (gen == 0 || gen == d.gen)
}

// apply runs render if ok still holds once the render lock is taken.
func (d *Dashboard) apply(ok func() bool, render func()) bool {
	d.renderMu.Lock()
	defer d.renderMu.Unlock()
	if !ok() {
		return false
	}
	render()
	return true
}

// Open loads the month containing today.
func (d *Dashboard) Open(ctx context.Context) error {
	return d.Today(ctx)
}

// LoadMonth makes state the viewed month and runs the full pipeline for it.
func (d *Dashboard) LoadMonth(ctx context.Context, state ViewState) error {
	gen, st := d.begin(func(ViewState) ViewState { return state })
	return d.run(ctx, gen, st)
}

// Reload runs the full pipeline for the month currently viewed.
func (d *Dashboard) Reload(ctx context.Context) error {
	gen, st := d.begin(func(s ViewState) ViewState { return s })
	return d.run(ctx, gen, st)
}

// Navigate moves the viewed month by delta and reloads. Moving to the same
// month still triggers a run.
func (d *Dashboard) Navigate(ctx context.Context, delta int) error {
	gen, st := d.begin(func(s ViewState) ViewState { return s.Advance(delta) })
	return d.run(ctx, gen, st)
}

// Today jumps to the month containing the current date and reloads.
func (d *Dashboard) Today(ctx context.Context) error {
	today := StateFor(d.now())
	gen, st := d.begin(func(ViewState) ViewState { return today })
	return d.run(ctx, gen, st)
}

// run executes the steps strictly in order. A failing step ends the run and
// leaves whatever was rendered before in place; only a 401 on the month
// fetch is acted upon.
func (d *Dashboard) run(ctx context.Context, gen uint64, state ViewState) error {
	current := func() bool { return d.latest(gen) }
	log := d.log.With(zap.Uint64("generation", gen), zap.String("month", state.Key()))

	d.apply(current, func() { d.view.ShowLabel(state.Label()) })

	data, err := d.api.Month(ctx, state.Year, state.Month)
	if err != nil {
		if errors.Is(err, ErrUnauthenticated) {
			if d.apply(current, d.view.RedirectToLogin) {
				log.Info("session rejected, redirecting to login")
			}
			return err
		}
		log.Debug("month fetch failed", zap.Error(err))
		return err
	}

	month := BuildMonthView(state, data)
	if !d.apply(current, func() {
		d.view.ShowHabits(month.Habits)
		d.view.ShowCalendar(month)
	}) {
		return ErrSuperseded
	}

	stats, err := d.api.Stats(ctx, state.Year, state.Month)
	if err != nil {
		log.Debug("stats fetch failed", zap.Error(err))
		return err
	}
	sv := BuildStatsView(stats)
	if !d.apply(current, func() { d.view.ShowStats(sv) }) {
		return ErrSuperseded
	}

	// A stand-alone refresh may overtake this step; the run itself goes on.
	if err := d.refreshNotifications(ctx, gen); err != nil {
		if !errors.Is(err, ErrSuperseded) || !current() {
			return err
		}
	}

	preds, err := d.api.Predictions(ctx)
	if err != nil {
		log.Debug("predictions fetch failed", zap.Error(err))
		return err
	}
	pv := BuildPredictionsView(preds)
	if !d.apply(current, func() { d.view.ShowPredictions(pv) }) {
		return ErrSuperseded
	}

	return nil
}

// RefreshNotifications reloads the notification panel only.
func (d *Dashboard) RefreshNotifications(ctx context.Context) error {
	return d.refreshNotifications(ctx, 0)
}

// refreshNotifications fetches and renders notifications. gen is the owning
// full run, or 0 for a stand-alone refresh.
func (d *Dashboard) refreshNotifications(ctx context.Context, gen uint64) error {
	ng := d.beginNotes()

	list, err := d.api.Notifications(ctx)
	if err != nil {
		d.log.Debug("notifications fetch failed", zap.Uint64("generation", gen), zap.Error(err))
		return err
	}

	nv := BuildNotificationsView(list)
	if !d.apply(func() bool { return d.latestNotes(gen, ng) }, func() { d.view.ShowNotifications(nv) }) {
		return ErrSuperseded
	}
	return nil
}
