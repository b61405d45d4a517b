package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/habitus/internal/app"
	"github.com/alexanderramin/habitus/internal/domain"
)

func FormatStats(resp *app.StatsResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s → %s   overall %s\n", domain.FormatDate(resp.From), domain.FormatDate(resp.To), Percent(resp.Overall))

	spark := make([]float64, 0, len(resp.Series))
	for _, st := range resp.Series {
		if st.Total == 0 || st.Vacation {
			spark = append(spark, -1)
			continue
		}
		spark = append(spark, st.Rate)
	}
	b.WriteString(Sparkline(spark) + "\n\n")

	headers := []string{"NAME", "RATE", "STREAK", "BEST", "DONE", "SKIP", "MISS", "OVERDUE"}
	rows := make([][]string, 0, len(resp.Activities))
	for _, v := range resp.Activities {
		st := v.Stats
		overdue := Dim("--")
		if st.CarriedForward != nil {
			overdue = StyleRed.Render(domain.FormatDate(*st.CarriedForward))
		}
		rate := Dim("--")
		if st.DueDays > 0 {
			rate = Percent(st.Rate)
		}
		rows = append(rows, []string{
			v.Activity.Name,
			rate,
			fmt.Sprintf("%d", st.CurrentStreak),
			fmt.Sprintf("%d", st.LongestStreak),
			fmt.Sprintf("%d", st.CompletedDays),
			fmt.Sprintf("%d", st.SkippedDays),
			fmt.Sprintf("%d", st.MissedDays),
			overdue,
		})
	}
	b.WriteString(RenderTable(headers, rows))
	return RenderBox("Stats", strings.TrimRight(b.String(), "\n")) + "\n"
}
