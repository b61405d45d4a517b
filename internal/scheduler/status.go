package scheduler

import (
	"time"

	"github.com/alexanderramin/habitus/internal/domain"
)

// DayStatus is the aggregate completion of all top-level activities on a day.
// Total and Completed are measured in units: one per session for
// multi-session activities, one per due child for containers, one otherwise.
type DayStatus struct {
	Date      time.Time
	Total     int
	Completed float64
	Skipped   int
	Rate      float64
	Vacation  bool
}

// CompletionStatus aggregates every top-level activity scheduled on date.
// Children are counted through their container. Skipped units leave both
// sides of the ratio, and a day where everything was skipped rates 0.
func (e *Evaluator) CompletionStatus(date time.Time) DayStatus {
	date = domain.Day(date)
	st := DayStatus{Date: date, Vacation: e.IsVacation(date)}

	for _, a := range e.ordered {
		if !e.IsTopLevel(a, date) || !e.IsScheduled(a, date) {
			continue
		}
		s := e.DayScore(a, date)
		if s.Excluded {
			continue
		}
		st.Total += s.Units
		st.Completed += s.Credit
		st.Skipped += s.Skipped
	}

	if st.Total > 0 {
		st.Rate = st.Completed / float64(st.Total)
	}
	return st
}
