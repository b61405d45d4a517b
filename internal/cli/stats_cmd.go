package cli

import (
	"fmt"
	"time"

	habitusapp "github.com/alexanderramin/habitus/internal/app"
	"github.com/alexanderramin/habitus/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newStatsCmd(app *App) *cobra.Command {
	var from, to time.Time

	cmd := &cobra.Command{
		Use:   "stats [ACTIVITY]",
		Short: "Show streaks and completion rates",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			req := habitusapp.StatsRequest{From: from, To: to, Today: app.today()}
			if len(args) == 1 {
				a, err := resolveActivity(ctx, app, args[0])
				if err != nil {
					return err
				}
				req.ActivityID = a.ID
			}

			uc := app.statsUseCase()
			if uc == nil {
				return fmt.Errorf("stats use case is not configured")
			}
			resp, err := uc.Stats(ctx, req)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatStats(resp))
			return nil
		},
	}

	dateFlag(cmd.Flags(), &from, "from", "First day of the window (default 30 days back)", app.today)
	dateFlag(cmd.Flags(), &to, "to", "Last day of the window (default today)", app.today)

	return cmd
}
