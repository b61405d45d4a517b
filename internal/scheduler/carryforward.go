package scheduler

import (
	"time"

	"github.com/alexanderramin/habitus/internal/domain"
)

// CarriedForwardDate returns the most recent due date before today that is
// still outstanding, i.e. neither fully completed nor fully skipped. Each
// candidate is judged with the config effective on that candidate date.
// The walk stops at the creation day or after the lookback window; vacation
// days are never outstanding. Paused activities and sticky ones never carry
// forward.
func (e *Evaluator) CarriedForwardDate(a *domain.Activity, today time.Time) (time.Time, bool) {
	if a == nil || !a.ActiveOn(today) {
		return time.Time{}, false
	}
	today = domain.Day(today)
	created := domain.Day(a.CreatedDate)

	for i := 1; i <= e.opts.CarryForwardLookbackDays; i++ {
		d := domain.AddDays(today, -i)
		if d.Before(created) {
			break
		}
		if e.IsVacation(d) || !e.IsScheduled(a, d) {
			continue
		}
		if e.configAt(a, d).Schedule.Type == domain.ScheduleSticky {
			continue
		}
		s := e.DayScore(a, d)
		if s.Excluded || s.Resolved() {
			continue
		}
		return d, true
	}
	return time.Time{}, false
}

// Overdue returns the activities that have an outstanding earlier occurrence
// on today, mapped to that occurrence.
func (e *Evaluator) Overdue(today time.Time) map[string]time.Time {
	out := make(map[string]time.Time)
	for _, a := range e.ordered {
		if d, ok := e.CarriedForwardDate(a, today); ok {
			out[a.ID] = d
		}
	}
	return out
}
