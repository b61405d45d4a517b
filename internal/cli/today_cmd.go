package cli

import (
	"fmt"
	"time"

	habitusapp "github.com/alexanderramin/habitus/internal/app"
	"github.com/alexanderramin/habitus/internal/cli/formatter"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newTodayCmd(app *App) *cobra.Command {
	var date time.Time
	var interactive bool

	cmd := &cobra.Command{
		Use:   "today",
		Short: "Show what is due today",
		RunE: func(cmd *cobra.Command, args []string) error {
			if date.IsZero() {
				date = app.today()
			}
			return runToday(cmd, app, date, interactive)
		},
	}

	dateFlag(cmd.Flags(), &date, "date", "Day to show (default today)", app.today)
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Check items off in a terminal view")

	return cmd
}

func runToday(cmd *cobra.Command, app *App, date time.Time, interactive bool) error {
	uc := app.todayUseCase()
	if uc == nil {
		return fmt.Errorf("today use case is not configured")
	}
	if interactive {
		if !app.interactive() {
			return fmt.Errorf("--interactive needs a terminal")
		}
		_, err := tea.NewProgram(newTodayModel(cmd.Context(), app, date), tea.WithAltScreen()).Run()
		return err
	}

	resp, err := uc.Today(cmd.Context(), habitusapp.TodayRequest{Date: date})
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatToday(resp))
	return nil
}
