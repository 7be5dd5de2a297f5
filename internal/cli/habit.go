package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

func newHabitCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "habit",
		Short: "Add, rename or delete habits",
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "add <name>",
		Short:   "Add a habit",
		Example: `  kanso habit add "Read 20 pages"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, rec := a.dashboard()
			return a.print(rec, d.CreateHabit(cmd.Context(), strings.Join(args, " ")))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rename <habit-id> <name>",
		Short: "Rename a habit",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, rec := a.dashboard()
			return a.print(rec, d.RenameHabit(cmd.Context(), args[0], strings.Join(args[1:], " ")))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <habit-id>",
		Short: "Delete a habit and all of its completions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, rec := a.dashboard()
			return a.print(rec, d.DeleteHabit(cmd.Context(), args[0]))
		},
	})

	return cmd
}
