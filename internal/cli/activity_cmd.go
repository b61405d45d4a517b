package cli

import (
	"fmt"
	"strings"
	"time"

	habitusapp "github.com/alexanderramin/habitus/internal/app"
	"github.com/alexanderramin/habitus/internal/cli/formatter"
	"github.com/alexanderramin/habitus/internal/domain"
	"github.com/spf13/cobra"
)

func newActivityCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "activity",
		Aliases: []string{"a"},
		Short:   "Manage tracked activities",
	}

	cmd.AddCommand(
		newActivityAddCmd(app),
		newActivityListCmd(app),
		newActivityShowCmd(app),
		newActivityEditCmd(app),
		newActivityPauseCmd(app),
		newActivityResumeCmd(app),
		newActivityRemoveCmd(app),
	)

	return cmd
}

func newActivityAddCmd(app *App) *cobra.Command {
	var flags configFlags
	var description, color string
	var created time.Time
	var interactive bool

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add an activity",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var req habitusapp.CreateActivityRequest
			if interactive || len(args) == 0 {
				if !app.interactive() {
					return fmt.Errorf("activity name is required")
				}
				form, result := newActivityForm()
				if err := form.Run(); err != nil {
					return err
				}
				r, err := result.request()
				if err != nil {
					return err
				}
				req = r
			} else {
				cfg, err := flags.apply(ctx, app, cmd.Flags(), domain.StructuralConfig{})
				if err != nil {
					return err
				}
				req = habitusapp.CreateActivityRequest{
					Name:        args[0],
					Description: description,
					Color:       color,
					Config:      cfg,
					CreatedDate: created,
				}
			}
			if req.CreatedDate.IsZero() {
				req.CreatedDate = app.today()
			}

			a, err := app.Activities.Create(ctx, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s, %s) %s\n",
				formatter.Bold(a.Name), domain.FormatScheduleHuman(a.Config.Schedule), a.Config.Kind, formatter.TruncID(a.ID))
			return nil
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().StringVar(&description, "description", "", "Free-form description")
	cmd.Flags().StringVar(&color, "color", "", "Display color")
	dateFlag(cmd.Flags(), &created, "start", "First tracked day (default today)", app.today)
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Fill in the activity with a form")

	return cmd
}

func newActivityListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List activities",
		RunE: func(cmd *cobra.Command, args []string) error {
			activities, err := app.Activities.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatActivityList(activities, app.today()))
			return nil
		},
	}
}

func newActivityShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ACTIVITY",
		Short: "Show an activity with its config history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := resolveActivity(ctx, app, args[0])
			if err != nil {
				return err
			}
			snaps, err := app.Activities.Snapshots(ctx, a.ID)
			if err != nil {
				return err
			}
			children, err := app.Activities.Children(ctx, a.ID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatActivityDetail(a, snaps, children, app.today()))
			return nil
		},
	}
}

func newActivityEditCmd(app *App) *cobra.Command {
	var flags configFlags
	var name, description, color, policy string
	var from time.Time

	cmd := &cobra.Command{
		Use:   "edit ACTIVITY",
		Short: "Edit an activity's details or structure",
		Long: `Edit cosmetic details (--name, --description, --color) and structural
settings (--schedule, --kind, --slots, --target, --aggregation, --parent).

Structural edits keep history by default: the old settings are frozen for every
day before --from (default today). Use --policy all to rewrite history instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			a, err := resolveActivity(ctx, app, args[0])
			if err != nil {
				return err
			}

			fs := cmd.Flags()
			details := habitusapp.UpdateDetailsRequest{ActivityID: a.ID}
			if fs.Changed("name") {
				details.Name = &name
			}
			if fs.Changed("description") {
				details.Description = &description
			}
			if fs.Changed("color") {
				details.Color = &color
			}
			structural := flags.changed(fs)
			if details.Name == nil && details.Description == nil && details.Color == nil && !structural {
				return fmt.Errorf("nothing to change; see habitus activity edit --help")
			}

			if details.Name != nil || details.Description != nil || details.Color != nil {
				if a, err = app.Activities.UpdateDetails(ctx, details); err != nil {
					return err
				}
				fmt.Fprintf(out, "Updated details of %s\n", formatter.Bold(a.Name))
			}
			if !structural {
				return nil
			}

			p, err := domain.ParseEditPolicy(policy)
			if err != nil {
				return err
			}
			cfg, err := flags.apply(ctx, app, fs, a.Config)
			if err != nil {
				return err
			}
			edit := app.editStructuralUseCase()
			if edit == nil {
				return fmt.Errorf("edit-structural use case is not configured")
			}
			res, err := edit.EditStructuralConfig(ctx, habitusapp.EditStructuralRequest{
				ActivityID: a.ID,
				Config:     cfg,
				Policy:     p,
				EditDate:   from,
			})
			if err != nil {
				return err
			}
			for _, w := range res.Warnings {
				fmt.Fprintln(out, formatter.StyleYellow.Render("! "+w))
			}
			if res.Snapshot != nil {
				fmt.Fprintf(out, "Updated %s; settings before %s are kept (%s to %s)\n",
					formatter.Bold(res.Activity.Name),
					domain.FormatDate(domain.AddDays(res.Snapshot.EffectiveUntil, 1)),
					domain.FormatDate(res.Snapshot.EffectiveFrom),
					domain.FormatDate(res.Snapshot.EffectiveUntil))
				return nil
			}
			fmt.Fprintf(out, "Updated %s for all dates\n", formatter.Bold(res.Activity.Name))
			return nil
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().StringVar(&color, "color", "", "New display color")
	cmd.Flags().StringVar(&policy, "policy", "future", "Structural edit policy: future or all")
	dateFlag(cmd.Flags(), &from, "from", "First day the new structure applies (default today)", app.today)

	return cmd
}

func newActivityPauseCmd(app *App) *cobra.Command {
	var from time.Time

	cmd := &cobra.Command{
		Use:   "pause ACTIVITY",
		Short: "Stop tracking an activity from a day onward",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := resolveActivity(ctx, app, args[0])
			if err != nil {
				return err
			}
			if from.IsZero() {
				from = app.today()
			}
			a, err = app.Activities.Pause(ctx, a.ID, from)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Paused %s from %s\n", formatter.Bold(a.Name), domain.FormatDate(*a.StoppedAt))
			return nil
		},
	}

	dateFlag(cmd.Flags(), &from, "from", "First day the activity is no longer due (default today)", app.today)
	return cmd
}

func newActivityResumeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "resume ACTIVITY",
		Short: "Resume a paused activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := resolveActivity(ctx, app, args[0])
			if err != nil {
				return err
			}
			if a, err = app.Activities.Resume(ctx, a.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Resumed %s\n", formatter.Bold(a.Name))
			return nil
		},
	}
}

func newActivityRemoveCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "remove ACTIVITY",
		Aliases: []string{"rm"},
		Short:   "Delete an activity with all its logs",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := resolveActivity(ctx, app, args[0])
			if err != nil {
				return err
			}
			if !force {
				if !app.interactive() {
					return fmt.Errorf("refusing to delete %q without --force", a.Name)
				}
				ok, err := confirm(fmt.Sprintf("Delete %s and all its logs?", a.Name))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}
			if err := app.Activities.Delete(ctx, a.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", strings.TrimSpace(a.Name))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Delete without asking")
	return cmd
}
