package scheduler

import (
	"time"

	"github.com/alexanderramin/habitus/internal/domain"
)

type dayClass int

const (
	dayNotDue dayClass = iota
	dayCompleted
	daySkipped
	dayMissed
)

// classify is the per-day rule shared by both streak scans.
func (e *Evaluator) classify(a *domain.Activity, date time.Time) dayClass {
	if e.IsVacation(date) || !e.IsScheduled(a, date) {
		return dayNotDue
	}
	s := e.DayScore(a, date)
	switch {
	case s.Excluded:
		return dayNotDue
	case s.FullyCompleted:
		return dayCompleted
	case s.FullySkipped:
		return daySkipped
	default:
		return dayMissed
	}
}

// CurrentStreak counts fully completed due days walking back from today.
// Days that are not due are passed over, skipped days are excused without
// counting, and the first missed day ends the streak. An unfinished today
// neither counts nor breaks the streak, so a missed day resets the count to
// zero only once it lies before today.
func (e *Evaluator) CurrentStreak(a *domain.Activity, today time.Time) int {
	if a == nil {
		return 0
	}
	today = domain.Day(today)
	created := domain.Day(a.CreatedDate)

	streak := 0
	for d := today; !d.Before(created); d = domain.AddDays(d, -1) {
		switch e.classify(a, d) {
		case dayCompleted:
			streak++
		case dayMissed:
			if d.Equal(today) {
				continue
			}
			return streak
		}
	}
	return streak
}

// LongestStreak returns the longest run of completed due days between the
// creation day and today, using the same classification as CurrentStreak.
func (e *Evaluator) LongestStreak(a *domain.Activity, today time.Time) int {
	if a == nil {
		return 0
	}
	today = domain.Day(today)

	longest, run := 0, 0
	for _, d := range domain.DateRange(a.CreatedDate, today) {
		switch e.classify(a, d) {
		case dayCompleted:
			run++
			if run > longest {
				longest = run
			}
		case dayMissed:
			if !d.Equal(today) {
				run = 0
			}
		}
	}
	return longest
}

// CompletionRate returns the mean per-day completion fraction of a over the
// inclusive range [start, end]. The denominator is every due day that is not
// a vacation day; excluded days are dropped as well. A fully skipped day
// counts with fraction 0 and partial days contribute their slot or child
// fraction.
func (e *Evaluator) CompletionRate(a *domain.Activity, start, end time.Time) float64 {
	if a == nil {
		return 0
	}
	sum, days := e.rateParts(a, start, end)
	if days == 0 {
		return 0
	}
	return sum / float64(days)
}

func (e *Evaluator) rateParts(a *domain.Activity, start, end time.Time) (float64, int) {
	var sum float64
	days := 0
	for _, d := range domain.DateRange(start, end) {
		if e.IsVacation(d) || !e.IsScheduled(a, d) {
			continue
		}
		s := e.DayScore(a, d)
		if s.Excluded {
			continue
		}
		sum += s.Fraction()
		days++
	}
	return sum, days
}

// RateSeries returns CompletionStatus for every day in [start, end].
func (e *Evaluator) RateSeries(start, end time.Time) []DayStatus {
	dates := domain.DateRange(start, end)
	out := make([]DayStatus, 0, len(dates))
	for _, d := range dates {
		out = append(out, e.CompletionStatus(d))
	}
	return out
}

// Stats summarizes one activity over a date range.
type Stats struct {
	ActivityID     string
	CurrentStreak  int
	LongestStreak  int
	Rate           float64
	DueDays        int
	CompletedDays  int
	SkippedDays    int
	MissedDays     int
	CarriedForward *time.Time
}

// ActivityStats bundles streaks, rate, day counts and the outstanding
// carry-forward date for a over [start, end]. Streaks are measured up to today.
func (e *Evaluator) ActivityStats(a *domain.Activity, start, end, today time.Time) Stats {
	st := Stats{
		ActivityID:    a.ID,
		CurrentStreak: e.CurrentStreak(a, today),
		LongestStreak: e.LongestStreak(a, today),
		Rate:          e.CompletionRate(a, start, end),
	}
	for _, d := range domain.DateRange(start, end) {
		switch e.classify(a, d) {
		case dayCompleted:
			st.DueDays++
			st.CompletedDays++
		case daySkipped:
			st.DueDays++
			st.SkippedDays++
		case dayMissed:
			st.DueDays++
			st.MissedDays++
		}
	}
	if d, ok := e.CarriedForwardDate(a, today); ok {
		st.CarriedForward = &d
	}
	return st
}
