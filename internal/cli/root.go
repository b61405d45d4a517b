package cli

import (
	"time"

	"github.com/alexanderramin/habitus/internal/app"
	"github.com/alexanderramin/habitus/internal/domain"
	"github.com/alexanderramin/habitus/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Activities service.ActivityService
	Logs       service.LogService
	Vacations  service.VacationService
	Evaluation service.EvaluationService
	Exchange   service.ExchangeService
	Digests    service.DigestService

	// Optional use-case overrides. Nil falls back to the services above.
	TodayUC          app.TodayUseCase
	StatsUC          app.StatsUseCase
	LogCompletionUC  app.LogCompletionUseCase
	LogSkipUC        app.LogSkipUseCase
	EditStructuralUC app.EditStructuralUseCase
	ImportUC         app.ImportUseCase
	DigestUC         app.DigestUseCase

	// Now returns the current time in the user's zone. Defaults to time.Now.
	Now func() time.Time
	// IsInteractive reports whether stdin is a terminal. Nil means never.
	IsInteractive func() bool
	// DigestCron is the default schedule for digest --watch.
	DigestCron string
}

func (a *App) today() time.Time {
	if a.Now == nil {
		return domain.Day(time.Now())
	}
	return domain.Day(a.Now())
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "habitus" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "habitus",
		Short:         "Track recurring activities, streaks and completion rates",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToday(cmd, app, app.today(), false)
		},
	}

	root.AddCommand(
		newActivityCmd(app),
		newLogCmd(app),
		newVacationCmd(app),
		newTodayCmd(app),
		newStatsCmd(app),
		newExportCmd(app),
		newImportCmd(app),
		newDigestCmd(app),
	)

	return root
}
