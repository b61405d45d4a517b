package cli

import (
	"fmt"

	"github.com/alexanderramin/habitus/internal/cli/formatter"
	"github.com/alexanderramin/habitus/internal/domain"
	"github.com/spf13/cobra"
)

func newVacationCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vacation",
		Short: "Mark days off; they never count against streaks or rates",
	}

	cmd.AddCommand(
		newVacationAddCmd(app),
		newVacationRemoveCmd(app),
		newVacationListCmd(app),
	)

	return cmd
}

func newVacationAddCmd(app *App) *cobra.Command {
	var note string

	cmd := &cobra.Command{
		Use:   "add FROM [TO]",
		Short: "Mark a day or an inclusive range of days as vacation",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			today := app.today()
			from, err := parseDay(args[0], today)
			if err != nil {
				return err
			}
			to := from
			if len(args) == 2 {
				if to, err = parseDay(args[1], today); err != nil {
					return err
				}
			}
			n, err := app.Vacations.Add(cmd.Context(), from, to, note)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Marked %d vacation day(s) from %s to %s\n", n, domain.FormatDate(from), domain.FormatDate(to))
			return nil
		},
	}

	cmd.Flags().StringVar(&note, "note", "", "Note for the vacation days")
	return cmd
}

func newVacationRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove DATE",
		Short: "Unmark a vacation day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseDay(args[0], app.today())
			if err != nil {
				return err
			}
			if err := app.Vacations.Remove(cmd.Context(), d); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed vacation day %s\n", domain.FormatDate(d))
			return nil
		},
	}
}

func newVacationListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List vacation days",
		RunE: func(cmd *cobra.Command, args []string) error {
			days, err := app.Vacations.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatVacations(days))
			return nil
		},
	}
}
