package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/habitus/internal/app"
	"github.com/alexanderramin/habitus/internal/domain"
)

// FormatDigest renders the plain-text daily summary. It stays readable
// without color since it is often piped into mail or a notifier.
func FormatDigest(d *app.Digest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "habitus digest for %s\n", domain.FormatDate(d.Date))
	if d.Vacation {
		b.WriteString("On vacation today.\n")
	}
	fmt.Fprintf(&b, "Completion: %.0f%% (%s of %d)\n", d.Status.Rate*100, FormatValue(d.Status.Completed), d.Status.Total)

	if len(d.Due) > 0 {
		b.WriteString("\nStill due:\n")
		for _, name := range d.Due {
			fmt.Fprintf(&b, "  - %s\n", name)
		}
	}
	if len(d.Overdue) > 0 {
		b.WriteString("\nOverdue:\n")
		for _, o := range d.Overdue {
			fmt.Fprintf(&b, "  - %s (since %s)\n", o.Name, domain.FormatDate(o.Since))
		}
	}
	if len(d.Streaks) > 0 {
		b.WriteString("\nStreaks:\n")
		for _, s := range d.Streaks {
			fmt.Fprintf(&b, "  - %s: %d\n", s.Name, s.Streak)
		}
	}
	return b.String()
}
