package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/habitus/internal/app"
	"github.com/alexanderramin/habitus/internal/cli/formatter"
	"github.com/alexanderramin/habitus/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// habitusHuhTheme styles huh forms with the formatter palette.
func habitusHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// activityFormResult collects the raw answers of the add form.
type activityFormResult struct {
	Name        string
	Description string
	Schedule    string
	Kind        string
	Slots       string
	Target      string
	Aggregation string
}

// request turns the answers into a create request.
func (r *activityFormResult) request() (app.CreateActivityRequest, error) {
	sched, err := domain.ParseSchedule(r.Schedule)
	if err != nil {
		return app.CreateActivityRequest{}, err
	}
	cfg := domain.StructuralConfig{
		Schedule:    sched,
		Kind:        domain.ActivityKind(r.Kind),
		Slots:       domain.NormalizeSlots(strings.Split(r.Slots, ",")),
		Aggregation: domain.Aggregation(r.Aggregation),
	}
	if strings.TrimSpace(r.Target) != "" {
		v, err := strconv.ParseFloat(strings.TrimSpace(r.Target), 64)
		if err != nil {
			return app.CreateActivityRequest{}, domain.NewValidationError("target", "invalid target %q", r.Target)
		}
		cfg.Target = &v
	}
	return app.CreateActivityRequest{Name: r.Name, Description: r.Description, Config: cfg}, nil
}

func newActivityForm() (*huh.Form, *activityFormResult) {
	r := &activityFormResult{Schedule: "daily", Kind: string(domain.KindCheckbox), Aggregation: string(domain.AggregateSum)}

	kinds := []huh.Option[string]{
		huh.NewOption("Checkbox (done or not)", string(domain.KindCheckbox)),
		huh.NewOption("Value (record a number)", string(domain.KindValue)),
		huh.NewOption("Cumulative (reach a daily target)", string(domain.KindCumulative)),
		huh.NewOption("Container (group of activities)", string(domain.KindContainer)),
		huh.NewOption("Metric (track only)", string(domain.KindMetric)),
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(&r.Name).Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("name is required")
				}
				return nil
			}),
			huh.NewInput().Title("Description").Value(&r.Description),
			huh.NewInput().
				Title("Schedule").
				Description("daily, weekly:mon,thu, monthly:1,15, sticky").
				Value(&r.Schedule).
				Validate(func(s string) error {
					_, err := domain.ParseSchedule(s)
					return err
				}),
			huh.NewSelect[string]().Title("Kind").Options(kinds...).Value(&r.Kind),
		),
		huh.NewGroup(
			huh.NewInput().Title("Sessions").Description("Comma-separated slots; blank for one per day").Value(&r.Slots),
			huh.NewInput().Title("Daily target").Placeholder("blank for none").Value(&r.Target).Validate(validateOptionalFloat),
			huh.NewSelect[string]().Title("Combine values by").Options(
				huh.NewOption("Sum", string(domain.AggregateSum)),
				huh.NewOption("Average", string(domain.AggregateAverage)),
			).Value(&r.Aggregation),
		),
	).WithTheme(habitusHuhTheme()).WithShowHelp(false)

	return form, r
}

func validateOptionalFloat(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return fmt.Errorf("enter a number")
	}
	return nil
}

func confirm(title string) (bool, error) {
	var ok bool
	err := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().Title(title).Affirmative("Yes").Negative("No").Value(&ok),
	)).WithTheme(habitusHuhTheme()).WithShowHelp(false).Run()
	return ok, err
}
