package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexanderramin/habitus/internal/cli/formatter"
	"github.com/alexanderramin/habitus/internal/logger"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

func newDigestCmd(app *App) *cobra.Command {
	var date time.Time
	var watch bool
	var spec string

	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Print the daily summary, once or on a cron schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !watch {
				if date.IsZero() {
					date = app.today()
				}
				return printDigest(cmd.Context(), app, cmd.OutOrStdout(), date)
			}
			if spec == "" {
				spec = app.DigestCron
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return watchDigest(ctx, app, cmd.OutOrStdout(), spec)
		},
	}

	dateFlag(cmd.Flags(), &date, "date", "Day to summarize (default today)", app.today)
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep running and print the digest on a schedule")
	cmd.Flags().StringVar(&spec, "cron", "", "Five-field cron schedule for --watch (default HABITUS_DIGEST_CRON)")

	return cmd
}

func printDigest(ctx context.Context, app *App, w io.Writer, date time.Time) error {
	uc := app.digestUseCase()
	if uc == nil {
		return fmt.Errorf("digest use case is not configured")
	}
	d, err := uc.Build(ctx, date)
	if err != nil {
		return err
	}
	fmt.Fprint(w, formatter.FormatDigest(d))
	return nil
}

// watchDigest prints a digest for the current day each time the schedule fires,
// until ctx is cancelled.
func watchDigest(ctx context.Context, app *App, w io.Writer, spec string) error {
	c, err := newDigestCron(spec, func() {
		if err := printDigest(ctx, app, w, app.today()); err != nil {
			logger.Error("digest failed", "err", err)
		}
	})
	if err != nil {
		return err
	}

	logger.Info("digest scheduled", "cron", spec)
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

func newDigestCron(spec string, job func()) (*cron.Cron, error) {
	if spec == "" {
		return nil, fmt.Errorf("no digest schedule: pass --cron or set HABITUS_DIGEST_CRON")
	}
	c := cron.New()
	if _, err := c.AddFunc(spec, job); err != nil {
		return nil, fmt.Errorf("invalid cron schedule %q: %w", spec, err)
	}
	return c, nil
}
