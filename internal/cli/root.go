package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/comitanigiacomo/kanso-dashboard/internal/adapters/client"
	"github.com/comitanigiacomo/kanso-dashboard/internal/adapters/render"
	"github.com/comitanigiacomo/kanso-dashboard/internal/config"
	"github.com/comitanigiacomo/kanso-dashboard/internal/core/dashboard"
	"github.com/comitanigiacomo/kanso-dashboard/internal/logging"
)

var Version = "dev"

var errNotSignedIn = errors.New("not signed in")

// API is what the commands need from the server.
type API interface {
	dashboard.API
	Login(ctx context.Context, email, password string) (string, error)
	Register(ctx context.Context, email, password string) (string, error)
}

// Seams replaced by tests.
var (
	newAPI = func(cfg *config.Client) API {
		return client.New(cfg.APIURL, client.WithToken(cfg.Token))
	}
	clock = time.Now
)

// app is the per-invocation state shared by the commands.
type app struct {
	cfg    *config.Client
	api    API
	out    io.Writer
	styles render.Styles
}

func (a *app) now() time.Time {
	return clock().In(a.cfg.Location())
}

// dashboard builds an engine that records into a fresh screen.
func (a *app) dashboard(opts ...dashboard.Option) (*dashboard.Dashboard, *render.Recorder) {
	rec := &render.Recorder{}
	opts = append([]dashboard.Option{dashboard.WithClock(a.now)}, opts...)
	return dashboard.New(a.api, rec.View(), opts...), rec
}

// print writes whatever the run rendered, then reports err. A failed step
// leaves the sections before it on screen.
func (a *app) print(rec *render.Recorder, err error) error {
	today := a.now()
	focus := render.Focus{Habit: -1, Today: dashboard.DateKey(today.Year(), today.Month(), today.Day())}
	fmt.Fprintln(a.out, render.New(a.styles).Screen(rec.Screen(), focus))

	if errors.Is(err, dashboard.ErrUnauthenticated) {
		return errNotSignedIn
	}
	if err != nil {
		logging.L().Debug("dashboard run stopped", zap.Error(err))
		return describe(err)
	}
	return nil
}

// NewRootCmd builds the kanso command tree. Running it without a subcommand
// opens the interactive dashboard.
func NewRootCmd() *cobra.Command {
	var overrides config.ClientOverrides
	a := &app{}

	root := &cobra.Command{
		Use:   "kanso",
		Short: "Monthly habit dashboard",
		Long: `kanso shows your habits for a month: a calendar of completions,
statistics with insights, notifications and next-day predictions.

Without a subcommand the interactive dashboard is opened.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadClient(overrides)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.api = newAPI(cfg)
			a.out = cmd.OutOrStdout()
			a.styles = render.PlainStyles()
			if f, ok := a.out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
				a.styles = render.DefaultStyles()
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd.Context(), a)
		},
	}

	root.PersistentFlags().StringVar(&overrides.APIURL, "api-url", "", "API server URL (default "+config.DefaultAPIURL+")")
	root.PersistentFlags().StringVar(&overrides.Token, "token", "", "bearer token, overrides the stored one")
	root.PersistentFlags().StringVar(&overrides.Timezone, "timezone", "", "IANA zone deciding the current day (default local)")

	root.AddCommand(
		newDashboardCmd(a),
		newShowCmd(a),
		newHabitCmd(a),
		newToggleCmd(a),
		newNotificationsCmd(a),
		newLoginCmd(a),
		newRegisterCmd(a),
	)
	return root
}

// Execute is called by main.
func Execute(ctx context.Context, version string) error {
	Version = version
	root := NewRootCmd()
	root.Version = version
	return root.ExecuteContext(ctx)
}
