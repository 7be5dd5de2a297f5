package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/kanso-dashboard/internal/adapters/render"
)

func newNotificationsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notes"},
		Short:   "List notifications",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, rec := a.dashboard()
			return a.printNotes(rec, d.RefreshNotifications(cmd.Context()))
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "read <id>",
		Short: "Mark a notification as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid notification id %q", args[0])
			}
			d, rec := a.dashboard()
			return a.printNotes(rec, d.MarkNotificationRead(cmd.Context(), id))
		},
	})

	return cmd
}

// printNotes prints only the notification panel, the one section these
// commands refresh.
func (a *app) printNotes(rec *render.Recorder, err error) error {
	s := rec.Screen()
	if s.Notes == nil {
		return err
	}
	fmt.Fprintln(a.out, render.New(a.styles).Notifications(*s.Notes))
	return err
}
