package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/habitus/internal/domain"
	"github.com/spf13/pflag"
)

// dateValue is a pflag.Value for calendar days. Besides YYYY-MM-DD it takes
// "today", "yesterday" and negative offsets such as "-3".
type dateValue struct {
	target *time.Time
	today  func() time.Time
}

var _ pflag.Value = (*dateValue)(nil)

func dateFlag(fs *pflag.FlagSet, p *time.Time, name, usage string, today func() time.Time) {
	fs.Var(&dateValue{target: p, today: today}, name, usage)
}

func (d *dateValue) String() string {
	if d.target == nil || d.target.IsZero() {
		return ""
	}
	return domain.FormatDate(*d.target)
}

func (d *dateValue) Set(s string) error {
	t, err := parseDay(s, d.today())
	if err != nil {
		return err
	}
	*d.target = t
	return nil
}

func (d *dateValue) Type() string { return "date" }

func parseDay(s string, today time.Time) (time.Time, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "today":
		return today, nil
	case "yesterday":
		return domain.AddDays(today, -1), nil
	}
	if strings.HasPrefix(s, "-") {
		n, err := strconv.Atoi(s[1:])
		if err != nil || n < 0 {
			return time.Time{}, fmt.Errorf("invalid day offset %q", s)
		}
		return domain.AddDays(today, -n), nil
	}
	return domain.ParseDate(s)
}

// configFlags are the structural settings shared by activity add and edit.
type configFlags struct {
	schedule    string
	kind        string
	slots       []string
	target      float64
	aggregation string
	parent      string
}

var structuralFlagNames = []string{"schedule", "kind", "slots", "target", "aggregation", "parent"}

func (f *configFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.schedule, "schedule", "daily", "Schedule: daily, weekly:mon,thu, monthly:1,15, sticky, adhoc:YYYY-MM-DD")
	fs.StringVar(&f.kind, "kind", "checkbox", "Kind: checkbox, value, cumulative, container, metric")
	fs.StringSliceVar(&f.slots, "slots", nil, "Session slots, e.g. morning,evening")
	fs.Float64Var(&f.target, "target", 0, "Daily target for cumulative activities")
	fs.StringVar(&f.aggregation, "aggregation", "sum", "How cumulative values combine: sum or average")
	fs.StringVar(&f.parent, "parent", "", "Container activity (name or ID); \"none\" detaches")
}

// changed reports whether any structural flag was given.
func (f *configFlags) changed(fs *pflag.FlagSet) bool {
	for _, name := range structuralFlagNames {
		if fs.Changed(name) {
			return true
		}
	}
	return false
}

// apply overlays the flags given on the command line onto base.
func (f *configFlags) apply(ctx context.Context, app *App, fs *pflag.FlagSet, base domain.StructuralConfig) (domain.StructuralConfig, error) {
	cfg := base.Clone()
	if fs.Changed("schedule") || cfg.Schedule.Type == "" {
		s, err := domain.ParseSchedule(f.schedule)
		if err != nil {
			return cfg, err
		}
		cfg.Schedule = s
	}
	if fs.Changed("kind") || cfg.Kind == "" {
		cfg.Kind = domain.ActivityKind(strings.ToLower(f.kind))
	}
	if fs.Changed("slots") {
		cfg.Slots = domain.NormalizeSlots(f.slots)
	}
	if fs.Changed("aggregation") || cfg.Aggregation == "" {
		cfg.Aggregation = domain.Aggregation(strings.ToLower(f.aggregation))
	}
	if fs.Changed("target") {
		t := f.target
		cfg.Target = &t
		if !fs.Changed("kind") {
			cfg.Kind = domain.KindCumulative
		}
	}
	if fs.Changed("parent") {
		switch strings.ToLower(strings.TrimSpace(f.parent)) {
		case "", "none":
			cfg.ParentID = nil
		default:
			p, err := app.Activities.Resolve(ctx, f.parent)
			if err != nil {
				return cfg, err
			}
			cfg.ParentID = &p.ID
		}
	}
	return cfg, nil
}
