package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/habitus/internal/domain"
)

// FormatActivityList renders every activity with its live config. Children
// are indented under their container.
func FormatActivityList(activities []*domain.Activity, today time.Time) string {
	if len(activities) == 0 {
		return Dim("No activities yet. Add one with: habitus activity add NAME") + "\n"
	}

	children := make(map[string][]*domain.Activity)
	known := make(map[string]bool, len(activities))
	for _, a := range activities {
		known[a.ID] = true
	}
	var roots []*domain.Activity
	for _, a := range activities {
		if p := a.Config.Parent(); p != "" && known[p] {
			children[p] = append(children[p], a)
			continue
		}
		roots = append(roots, a)
	}

	headers := []string{"ID", "NAME", "SCHEDULE", "KIND", "SLOTS", "STATE"}
	var rows [][]string
	var walk func(a *domain.Activity, depth int, seen map[string]bool)
	walk = func(a *domain.Activity, depth int, seen map[string]bool) {
		if seen[a.ID] {
			return
		}
		seen[a.ID] = true
		name := a.Name
		if depth > 0 {
			name = Dim(strings.Repeat("  ", depth-1)+"└─ ") + name
		}
		rows = append(rows, []string{
			TruncID(a.ID),
			name,
			domain.FormatScheduleHuman(a.Config.Schedule),
			KindBadge(a.Config.Kind),
			slotList(a.Config.Slots),
			activityState(a, today),
		})
		for _, c := range children[a.ID] {
			walk(c, depth+1, seen)
		}
	}
	seen := make(map[string]bool)
	for _, a := range roots {
		walk(a, 0, seen)
	}
	return RenderBox("Activities", RenderTable(headers, rows)) + "\n"
}

func slotList(slots []string) string {
	if len(slots) == 0 {
		return Dim("--")
	}
	return strings.Join(slots, ", ")
}

func activityState(a *domain.Activity, today time.Time) string {
	switch {
	case a.StoppedAt != nil && !today.Before(*a.StoppedAt):
		return StyleYellow.Render("○ Paused")
	case today.Before(a.CreatedDate):
		return StyleBlue.Render("◌ Starts " + domain.FormatDate(a.CreatedDate))
	default:
		return StyleGreen.Render("● Active")
	}
}

// FormatActivityDetail renders one activity with its snapshot history.
func FormatActivityDetail(a *domain.Activity, snapshots []*domain.ConfigSnapshot, children []*domain.Activity, today time.Time) string {
	var b strings.Builder
	field := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", Dim(fmt.Sprintf("%-12s", label)), value)
	}

	field("ID", a.ID)
	field("State", activityState(a, today))
	if a.Description != "" {
		field("Description", a.Description)
	}
	field("Created", domain.FormatDate(a.CreatedDate))
	if a.StoppedAt != nil {
		field("Paused from", domain.FormatDate(*a.StoppedAt))
	}
	b.WriteString("\n")
	b.WriteString(formatConfig(a.Config))

	if len(children) > 0 {
		b.WriteString("\n" + Header("Children") + "\n")
		for _, c := range children {
			fmt.Fprintf(&b, "  %s %s\n", Dim("└─"), c.Name)
		}
	}

	if len(snapshots) > 0 {
		b.WriteString("\n" + Header("History") + "\n")
		headers := []string{"FROM", "UNTIL", "SCHEDULE", "KIND", "SLOTS"}
		rows := make([][]string, 0, len(snapshots))
		for _, s := range snapshots {
			rows = append(rows, []string{
				domain.FormatDate(s.EffectiveFrom),
				domain.FormatDate(s.EffectiveUntil),
				domain.FormatScheduleHuman(s.Config.Schedule),
				KindBadge(s.Config.Kind),
				slotList(s.Config.Slots),
			})
		}
		b.WriteString(RenderTable(headers, rows))
	}
	return RenderBox(a.Name, strings.TrimRight(b.String(), "\n")) + "\n"
}

func formatConfig(cfg domain.StructuralConfig) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", Dim(fmt.Sprintf("%-12s", "Schedule")), domain.FormatScheduleHuman(cfg.Schedule))
	fmt.Fprintf(&b, "%s %s\n", Dim(fmt.Sprintf("%-12s", "Kind")), KindBadge(cfg.Kind))
	if len(cfg.Slots) > 0 {
		fmt.Fprintf(&b, "%s %s\n", Dim(fmt.Sprintf("%-12s", "Sessions")), slotList(cfg.Slots))
	}
	if cfg.Target != nil {
		fmt.Fprintf(&b, "%s %s (%s)\n", Dim(fmt.Sprintf("%-12s", "Target")), FormatValue(*cfg.Target), cfg.Aggregation)
	}
	return b.String()
}
