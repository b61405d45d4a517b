package cli

import (
	"fmt"
	"time"

	habitusapp "github.com/alexanderramin/habitus/internal/app"
	"github.com/alexanderramin/habitus/internal/cli/formatter"
	"github.com/alexanderramin/habitus/internal/domain"
	"github.com/spf13/cobra"
)

func newLogCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Record completions and skips",
	}

	cmd.AddCommand(
		newLogDoneCmd(app),
		newLogSkipCmd(app),
		newLogUndoCmd(app),
		newLogListCmd(app),
	)

	return cmd
}

func newLogDoneCmd(app *App) *cobra.Command {
	var date time.Time
	var slot string
	var value float64
	var add bool

	cmd := &cobra.Command{
		Use:   "done ACTIVITY",
		Short: "Mark an activity (or one of its sessions) done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := resolveActivity(ctx, app, args[0])
			if err != nil {
				return err
			}

			req := habitusapp.LogCompletionRequest{
				ActivityID: a.ID,
				Date:       date,
				Slot:       slot,
				Accumulate: add,
			}
			if cmd.Flags().Changed("value") {
				req.Value = &value
			} else if add {
				return fmt.Errorf("--add needs --value")
			}
			if req.Date.IsZero() {
				req.Date = app.today()
			}

			logCompletion := app.logCompletionUseCase()
			if logCompletion == nil {
				return fmt.Errorf("log-completion use case is not configured")
			}
			l, err := logCompletion.LogCompletion(ctx, req)
			if err != nil {
				return err
			}

			msg := fmt.Sprintf("Done: %s", formatter.Bold(a.Name))
			if l.Slot != "" {
				msg += " (" + l.Slot + ")"
			}
			if l.Value != nil {
				msg += " = " + formatter.FormatValue(*l.Value)
			}
			msg += " on " + domain.FormatDate(l.Date)
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", msg, formatter.TruncID(l.ID))
			return nil
		},
	}

	dateFlag(cmd.Flags(), &date, "date", "Day to log (default today)", app.today)
	cmd.Flags().StringVar(&slot, "slot", "", "Session slot for multi-session activities")
	cmd.Flags().Float64Var(&value, "value", 0, "Value to record")
	cmd.Flags().BoolVar(&add, "add", false, "Add --value to what is already logged for the day (sum targets only)")

	return cmd
}

func newLogSkipCmd(app *App) *cobra.Command {
	var date time.Time
	var slot, reason string

	cmd := &cobra.Command{
		Use:   "skip ACTIVITY",
		Short: "Excuse an activity for a day without breaking its streak",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := resolveActivity(ctx, app, args[0])
			if err != nil {
				return err
			}
			if date.IsZero() {
				date = app.today()
			}

			logSkip := app.logSkipUseCase()
			if logSkip == nil {
				return fmt.Errorf("log-skip use case is not configured")
			}
			l, err := logSkip.LogSkip(ctx, habitusapp.LogSkipRequest{
				ActivityID: a.ID,
				Date:       date,
				Slot:       slot,
				Reason:     reason,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Skipped %s on %s %s\n", formatter.Bold(a.Name), domain.FormatDate(l.Date), formatter.TruncID(l.ID))
			return nil
		},
	}

	dateFlag(cmd.Flags(), &date, "date", "Day to skip (default today)", app.today)
	cmd.Flags().StringVar(&slot, "slot", "", "Session slot for multi-session activities")
	cmd.Flags().StringVar(&reason, "reason", "", "Why it was skipped")

	return cmd
}

func newLogUndoCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "undo LOG_ID",
		Short: "Remove a log entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l, err := app.Logs.Undo(ctx, args[0])
			if err != nil {
				return err
			}
			name := activityNames(ctx, app)[l.ActivityID]
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s log for %s on %s\n", l.Status, name, domain.FormatDate(l.Date))
			return nil
		},
	}
}

func newLogListCmd(app *App) *cobra.Command {
	var activity string
	var from, to time.Time
	var days int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List log entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			req := habitusapp.ListLogsRequest{From: from, To: to}
			if activity != "" {
				a, err := resolveActivity(ctx, app, activity)
				if err != nil {
					return err
				}
				req.ActivityID = a.ID
			}
			if req.From.IsZero() && req.To.IsZero() {
				req.To = app.today()
				req.From = domain.AddDays(req.To, -(days - 1))
			}

			logs, err := app.Logs.List(ctx, req)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatLogList(logs, activityNames(ctx, app)))
			return nil
		},
	}

	cmd.Flags().StringVar(&activity, "activity", "", "Only this activity")
	dateFlag(cmd.Flags(), &from, "from", "First day", app.today)
	dateFlag(cmd.Flags(), &to, "to", "Last day", app.today)
	cmd.Flags().IntVar(&days, "days", 7, "Days to show when no range is given")

	return cmd
}
