package formatter

import (
	"strings"

	"github.com/alexanderramin/habitus/internal/domain"
)

// FormatLogList renders logs newest first. names maps activity IDs to names.
func FormatLogList(logs []*domain.ActivityLog, names map[string]string) string {
	if len(logs) == 0 {
		return Dim("No logs found.") + "\n"
	}
	headers := []string{"ID", "DATE", "ACTIVITY", "SLOT", "STATUS", "VALUE", "NOTE"}
	rows := make([][]string, 0, len(logs))
	for i := len(logs) - 1; i >= 0; i-- {
		l := logs[i]
		name := names[l.ActivityID]
		if name == "" {
			name = TruncID(l.ActivityID)
		}
		value := Dim("--")
		if l.Value != nil {
			value = FormatValue(*l.Value)
		}
		status := StyleGreen.Render("✔ done")
		if l.IsSkipped() {
			status = StyleDim.Render("⊘ skipped")
		}
		rows = append(rows, []string{
			TruncID(l.ID),
			domain.FormatDate(l.Date),
			name,
			domain.CoalesceStr(l.Slot, Dim("--")),
			status,
			value,
			Dim(truncate(l.SkipReason, 40)),
		})
	}
	return RenderBox("Logs", RenderTable(headers, rows)) + "\n"
}

func FormatVacations(days []domain.VacationDay) string {
	if len(days) == 0 {
		return Dim("No vacation days.") + "\n"
	}
	headers := []string{"DATE", "NOTE"}
	rows := make([][]string, 0, len(days))
	for _, d := range days {
		rows = append(rows, []string{domain.FormatDate(d.Date), Dim(d.Note)})
	}
	return RenderBox("Vacation", RenderTable(headers, rows)) + "\n"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n-3])) + "..."
}
