package service

import (
	"context"
	"sort"
	"time"

	"github.com/alexanderramin/habitus/internal/app"
	"github.com/alexanderramin/habitus/internal/domain"
)

// digestTopStreaks caps the streak list in a digest.
const digestTopStreaks = 5

type digestService struct {
	eval  EvaluationService
	clock Clock
}

func NewDigestService(eval EvaluationService, clock Clock) DigestService {
	return &digestService{eval: eval, clock: clockOrNow(clock)}
}

// Build summarizes a day: overall status, top-level activities still due,
// carried-forward occurrences and the longest running streaks.
func (s *digestService) Build(ctx context.Context, date time.Time) (*app.Digest, error) {
	if date.IsZero() {
		date = s.clock()
	}
	date = domain.Day(date)

	e, err := s.eval.Evaluator(ctx)
	if err != nil {
		return nil, err
	}

	d := &app.Digest{
		Date:     date,
		Status:   e.CompletionStatus(date),
		Vacation: e.IsVacation(date),
	}

	overdue := e.Overdue(date)
	for _, a := range e.Activities() {
		if !e.IsTopLevel(a, date) {
			continue
		}
		if e.IsScheduled(a, date) && !e.DayScore(a, date).Resolved() && !e.DayScore(a, date).Excluded {
			d.Due = append(d.Due, a.Name)
		}
		if since, ok := overdue[a.ID]; ok {
			d.Overdue = append(d.Overdue, app.OverdueView{Name: a.Name, Since: since})
		}
		if n := e.CurrentStreak(a, date); n > 0 {
			d.Streaks = append(d.Streaks, app.StreakView{Name: a.Name, Streak: n})
		}
	}

	sort.SliceStable(d.Overdue, func(i, j int) bool { return d.Overdue[i].Since.Before(d.Overdue[j].Since) })
	sort.SliceStable(d.Streaks, func(i, j int) bool { return d.Streaks[i].Streak > d.Streaks[j].Streak })
	if len(d.Streaks) > digestTopStreaks {
		d.Streaks = d.Streaks[:digestTopStreaks]
	}
	return d, nil
}
