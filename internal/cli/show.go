package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/kanso-dashboard/internal/core/dashboard"
)

// parseMonth reads a YYYY-MM flag value.
func parseMonth(s string) (dashboard.ViewState, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return dashboard.ViewState{}, fmt.Errorf("invalid month %q (want YYYY-MM)", s)
	}
	return dashboard.ViewState{Year: t.Year(), Month: t.Month()}, nil
}

func newShowCmd(a *app) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the dashboard for a month",
		Example: `  kanso show
  kanso show --month 2024-02`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, rec := a.dashboard()
			if month == "" {
				return a.print(rec, d.Open(cmd.Context()))
			}

			state, err := parseMonth(month)
			if err != nil {
				return err
			}
			return a.print(rec, d.LoadMonth(cmd.Context(), state))
		},
	}

	cmd.Flags().StringVarP(&month, "month", "m", "", "month to show as YYYY-MM (default current)")
	return cmd
}
