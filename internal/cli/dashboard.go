package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-dashboard/internal/adapters/tui"
	"github.com/comitanigiacomo/kanso-dashboard/internal/logging"
)

var runTUI = tui.Run

func newDashboardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Open the interactive dashboard",
		Long: `Open the interactive dashboard.

Keys: [ and ] change month, t jumps to today, arrows move the day,
j/k select a habit, space toggles it, a adds, r renames, x deletes,
n marks the first unread notification read, R reloads, q quits.

Logs would draw over the screen, so they are dropped unless
KANSO_LOG_FILE names a file to write them to.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd.Context(), a)
		},
	}
}

func runDashboard(ctx context.Context, a *app) error {
	if os.Getenv("KANSO_LOG_FILE") == "" {
		logging.SetLogger(zap.NewNop())
	}
	return runTUI(ctx, a.api, a.now)
}
