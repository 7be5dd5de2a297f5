package cli

import (
	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/kanso-dashboard/internal/core/dashboard"
	"github.com/comitanigiacomo/kanso-dashboard/internal/core/domain"
)

func newToggleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "toggle <habit-id> <YYYY-MM-DD>",
		Short:   "Mark or unmark a habit as done on a day",
		Example: `  kanso toggle 6f1c... 2024-03-05`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := domain.ParseDateKey(args[1])
			if err != nil {
				return err
			}

			// The reload shows the month the toggled day belongs to.
			d, rec := a.dashboard(dashboard.WithMonth(dashboard.ViewState{Year: date.Year(), Month: date.Month()}))
			return a.print(rec, d.ToggleCompletion(cmd.Context(), args[0], date.Format(domain.DateLayout)))
		},
	}
}
