package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/habitus/internal/app"
	"github.com/alexanderramin/habitus/internal/domain"
)

// FormatToday renders the day's checklist with the overall status on top.
func FormatToday(resp *app.TodayResponse) string {
	var b strings.Builder

	status := resp.Status
	summary := fmt.Sprintf("%s  %s", Bold(HumanDate(resp.Date)), RenderProgress(status.Rate, 20))
	if status.Vacation {
		summary += "  " + StyleBlue.Render("☂ vacation")
	}
	b.WriteString(summary + "\n\n")

	if len(resp.Items) == 0 {
		b.WriteString(Dim("Nothing due today."))
		return RenderBox("Today", b.String()) + "\n"
	}
	for _, it := range resp.Items {
		b.WriteString(FormatTodayItem(it, 0))
	}
	return RenderBox("Today", strings.TrimRight(b.String(), "\n")) + "\n"
}

// FormatTodayItem renders one line per activity plus its children.
func FormatTodayItem(it app.TodayItem, depth int) string {
	var b strings.Builder
	indent := strings.Repeat("  ", depth)

	line := indent + Mark(it.Score.FullyCompleted, it.Score.FullySkipped) + " " + it.Activity.Name
	line += "  " + itemDetail(it)
	if it.CarriedFrom != nil {
		line += "  " + StyleRed.Render("↻ from "+domain.FormatDate(*it.CarriedFrom))
	}
	if it.CurrentStreak > 1 {
		line += "  " + StyleYellow.Render(fmt.Sprintf("🔥%d", it.CurrentStreak))
	}
	b.WriteString(line + "\n")

	for _, c := range it.Children {
		b.WriteString(FormatTodayItem(c, depth+1))
	}
	return b.String()
}

func itemDetail(it app.TodayItem) string {
	switch {
	case it.Config.Kind == domain.KindContainer:
		return Dim(fmt.Sprintf("%d/%d", it.Score.Completed, it.Score.Total))
	case it.Config.Kind == domain.KindCumulative && it.Config.Target != nil:
		return Dim(fmt.Sprintf("%s/%s", FormatValue(it.Total), FormatValue(*it.Config.Target)))
	case it.Config.Kind == domain.KindCumulative:
		return Dim(FormatValue(it.Total))
	case len(it.Sessions) > 1:
		parts := make([]string, 0, len(it.Sessions))
		for _, s := range it.Sessions {
			parts = append(parts, Mark(s.Completed, s.Skipped)+" "+s.Slot)
		}
		return strings.Join(parts, " ")
	}
	return ""
}
