package service

import (
	"context"
	"time"

	"github.com/alexanderramin/habitus/internal/app"
	"github.com/alexanderramin/habitus/internal/domain"
	"github.com/alexanderramin/habitus/internal/repository"
	"github.com/alexanderramin/habitus/internal/scheduler"
)

// defaultStatsDays is the stats window when no start date is given.
const defaultStatsDays = 30

type evaluationService struct {
	stores
	opts  scheduler.Options
	clock Clock
}

func NewEvaluationService(
	activities repository.ActivityRepo,
	snapshots repository.SnapshotRepo,
	logs repository.LogRepo,
	vacations repository.VacationRepo,
	opts scheduler.Options,
	clock Clock,
) EvaluationService {
	return &evaluationService{
		stores: stores{activities: activities, snapshots: snapshots, logs: logs, vacations: vacations},
		opts:   opts,
		clock:  clockOrNow(clock),
	}
}

func (s *evaluationService) Evaluator(ctx context.Context) (*scheduler.Evaluator, error) {
	ds, err := s.loadDataset(ctx)
	if err != nil {
		return nil, err
	}
	return scheduler.NewEvaluator(ds, s.opts), nil
}

// Today lists every top-level activity that is due or carried forward on
// the date, with containers holding their due children.
func (s *evaluationService) Today(ctx context.Context, req app.TodayRequest) (*app.TodayResponse, error) {
	date := req.Date
	if date.IsZero() {
		date = s.clock()
	}
	date = domain.Day(date)

	e, err := s.Evaluator(ctx)
	if err != nil {
		return nil, err
	}

	resp := &app.TodayResponse{Date: date, Status: e.CompletionStatus(date)}
	for _, a := range e.Activities() {
		if !e.IsTopLevel(a, date) || !e.ShouldShow(a, date) {
			continue
		}
		resp.Items = append(resp.Items, buildTodayItem(e, a, date))
	}
	return resp, nil
}

func buildTodayItem(e *scheduler.Evaluator, a *domain.Activity, date time.Time) app.TodayItem {
	cfg, _ := e.Resolve(a.ID, date)
	score := e.DayScore(a, date)
	item := app.TodayItem{
		Activity:      a,
		Config:        cfg,
		Scheduled:     e.IsScheduled(a, date),
		Score:         score,
		CurrentStreak: e.CurrentStreak(a, date),
	}
	if d, ok := e.CarriedForwardDate(a, date); ok {
		item.CarriedFrom = &d
	}
	if v, ok := e.Progress(a, date); ok {
		item.Total = v
	}

	if cfg.Kind == domain.KindContainer {
		for _, child := range e.ChildrenAsOf(a.ID, date) {
			if e.ShouldShow(child, date) {
				item.Children = append(item.Children, buildTodayItem(e, child, date))
			}
		}
		return item
	}

	if !e.IsMultiSession(a, date) {
		item.Sessions = []app.SessionView{{
			Completed: score.FullyCompleted,
			Skipped:   score.FullySkipped,
		}}
		return item
	}
	for _, u := range e.Expand(a, date) {
		item.Sessions = append(item.Sessions, app.SessionView{
			Slot:      u.Slot,
			Completed: e.IsSlotCompleted(a, date, u.Slot),
			Skipped:   e.IsSlotSkipped(a, date, u.Slot),
		})
	}
	return item
}

// Stats reports streaks and rates per activity plus the daily overall rate
// series over [From, To]. To defaults to today and From to the 30 days
// ending on To.
func (s *evaluationService) Stats(ctx context.Context, req app.StatsRequest) (*app.StatsResponse, error) {
	today := req.Today
	if today.IsZero() {
		today = s.clock()
	}
	today = domain.Day(today)
	to := req.To
	if to.IsZero() {
		to = today
	}
	to = domain.Day(to)
	from := req.From
	if from.IsZero() {
		from = domain.AddDays(to, -(defaultStatsDays - 1))
	}
	from = domain.Day(from)
	if to.Before(from) {
		return nil, domain.NewValidationError("from", "start date %s is after end date %s", domain.FormatDate(from), domain.FormatDate(to))
	}

	e, err := s.Evaluator(ctx)
	if err != nil {
		return nil, err
	}

	resp := &app.StatsResponse{From: from, To: to}
	for _, a := range e.Activities() {
		if req.ActivityID != "" && a.ID != req.ActivityID {
			continue
		}
		resp.Activities = append(resp.Activities, app.ActivityStatsView{
			Activity: a,
			Stats:    e.ActivityStats(a, from, to, today),
		})
	}
	if req.ActivityID != "" && len(resp.Activities) == 0 {
		return nil, repository.ErrNotFound
	}

	resp.Series = e.RateSeries(from, to)
	var sum float64
	days := 0
	for _, st := range resp.Series {
		if st.Total > 0 && !st.Vacation {
			sum += st.Rate
			days++
		}
	}
	if days > 0 {
		resp.Overall = sum / float64(days)
	}
	return resp, nil
}
