package scheduler

import (
	"time"

	"github.com/alexanderramin/habitus/internal/domain"
)

// IsScheduled reports whether a's schedule selects date, using the config
// that was effective on date. It ignores carry-forward; see ShouldShow.
func (e *Evaluator) IsScheduled(a *domain.Activity, date time.Time) bool {
	if a == nil {
		return false
	}
	date = domain.Day(date)
	if !a.ActiveOn(date) {
		return false
	}
	cfg, ok := e.Resolve(a.ID, date)
	if !ok {
		return false
	}

	s := cfg.Schedule
	switch s.Type {
	case domain.ScheduleDaily:
		return true
	case domain.ScheduleWeekly:
		return s.HasWeekday(date.Weekday())
	case domain.ScheduleMonthly:
		return s.HasMonthDay(date.Day())
	case domain.ScheduleAdhoc:
		return s.Date != nil && domain.Day(*s.Date).Equal(date)
	case domain.ScheduleSticky:
		// Backlog item: due every day up to and including the first completion.
		first, done := e.firstDone[a.ID]
		return !done || !first.Before(date)
	default:
		return false
	}
}

// ShouldShow reports whether a belongs on today's list: either its schedule
// selects today or an earlier occurrence is still outstanding.
func (e *Evaluator) ShouldShow(a *domain.Activity, today time.Time) bool {
	if e.IsScheduled(a, today) {
		return true
	}
	_, carried := e.CarriedForwardDate(a, today)
	return carried
}

// DueActivities returns the activities to show on today, ordered by name.
func (e *Evaluator) DueActivities(today time.Time) []*domain.Activity {
	var out []*domain.Activity
	for _, a := range e.ordered {
		if e.ShouldShow(a, today) {
			out = append(out, a)
		}
	}
	return out
}
