package service

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/alexanderramin/habitus/internal/app"
	"github.com/alexanderramin/habitus/internal/db"
	"github.com/alexanderramin/habitus/internal/domain"
	"github.com/alexanderramin/habitus/internal/repository"
	"github.com/alexanderramin/habitus/internal/scheduler"
	"github.com/google/uuid"
)

type logService struct {
	logs     repository.LogRepo
	uow      db.UnitOfWork
	clock    Clock
	observer UseCaseObserver
}

func NewLogService(logs repository.LogRepo, uow db.UnitOfWork, clock Clock, observers ...UseCaseObserver) LogService {
	return &logService{
		logs:     logs,
		uow:      uow,
		clock:    clockOrNow(clock),
		observer: useCaseObserverOrNoop(observers),
	}
}

// LogCompletion upserts a completed log for (activity, date, slot). Any
// earlier log for the same key, completed or skipped, is replaced.
func (s *logService) LogCompletion(ctx context.Context, req app.LogCompletionRequest) (l *domain.ActivityLog, err error) {
	startedAt := time.Now()
	fields := map[string]any{"activity": req.ActivityID, "slot": req.Slot, "accumulate": req.Accumulate}
	defer observe(ctx, s.observer, "log-completion", startedAt, fields, &err)

	source := req.Source
	if source == "" {
		source = domain.SourceManual
	}
	fields["source"] = string(source)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txLogs := repository.NewSQLiteLogRepo(tx)
		target, err := s.resolveTarget(ctx, tx, req.ActivityID, req.Date, req.Slot)
		if err != nil {
			return err
		}

		value := req.Value
		if target.cfg.Kind == domain.KindCumulative && value == nil {
			return domain.NewValidationError("value", "cumulative activities need a value")
		}
		if req.Accumulate && target.cfg.Aggregation == domain.AggregateAverage {
			// One log per key holds one value, so a summed entry would be
			// judged as if it were the day's average.
			return domain.NewValidationError("value", "%q averages its values; log the day's value without --add", target.name)
		}
		if value != nil && req.Accumulate {
			prev, err := txLogs.GetByKey(ctx, req.ActivityID, target.date, target.slot)
			switch {
			case errors.Is(err, repository.ErrNotFound):
			case err != nil:
				return err
			case prev.IsCompleted():
				sum := prev.ValueOrZero() + *value
				value = &sum
			}
		}

		l = &domain.ActivityLog{
			ID:         uuid.New().String(),
			ActivityID: req.ActivityID,
			Date:       target.date,
			Slot:       target.slot,
			Status:     domain.LogCompleted,
			Value:      value,
			Source:     source,
			CreatedAt:  time.Now().UTC(),
		}
		return txLogs.Upsert(ctx, l)
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (s *logService) LogSkip(ctx context.Context, req app.LogSkipRequest) (l *domain.ActivityLog, err error) {
	startedAt := time.Now()
	fields := map[string]any{"activity": req.ActivityID, "slot": req.Slot}
	defer observe(ctx, s.observer, "log-skip", startedAt, fields, &err)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		target, err := s.resolveTarget(ctx, tx, req.ActivityID, req.Date, req.Slot)
		if err != nil {
			return err
		}
		l = &domain.ActivityLog{
			ID:         uuid.New().String(),
			ActivityID: req.ActivityID,
			Date:       target.date,
			Slot:       target.slot,
			Status:     domain.LogSkipped,
			SkipReason: strings.TrimSpace(req.Reason),
			Source:     domain.SourceManual,
			CreatedAt:  time.Now().UTC(),
		}
		return repository.NewSQLiteLogRepo(tx).Upsert(ctx, l)
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (s *logService) Undo(ctx context.Context, logID string) (l *domain.ActivityLog, err error) {
	startedAt := time.Now()
	fields := map[string]any{"log": logID}
	defer observe(ctx, s.observer, "undo-log", startedAt, fields, &err)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txLogs := repository.NewSQLiteLogRepo(tx)
		var err error
		if l, err = txLogs.GetByID(ctx, logID); err != nil {
			return err
		}
		return txLogs.Delete(ctx, logID)
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (s *logService) List(ctx context.Context, req app.ListLogsRequest) ([]*domain.ActivityLog, error) {
	var all []*domain.ActivityLog
	var err error
	switch {
	case req.ActivityID != "":
		all, err = s.logs.ListByActivity(ctx, req.ActivityID)
	case !req.From.IsZero() && !req.To.IsZero():
		return s.logs.ListRange(ctx, req.From, req.To)
	default:
		all, err = s.logs.ListAll(ctx)
	}
	if err != nil {
		return nil, err
	}
	var out []*domain.ActivityLog
	for _, l := range all {
		if !req.From.IsZero() && l.Date.Before(domain.Day(req.From)) {
			continue
		}
		if !req.To.IsZero() && l.Date.After(domain.Day(req.To)) {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

type logTarget struct {
	name string
	date time.Time
	slot string
	cfg  domain.StructuralConfig
}

// resolveTarget validates a log key against the config effective on the
// log's date: the activity must be active and not a container, and the slot
// must be one of that day's slots.
func (s *logService) resolveTarget(ctx context.Context, tx db.DBTX, activityID string, date time.Time, slot string) (logTarget, error) {
	a, err := repository.NewSQLiteActivityRepo(tx).GetByID(ctx, activityID)
	if err != nil {
		return logTarget{}, err
	}
	if date.IsZero() {
		date = s.clock()
	}
	date = domain.Day(date)
	today := domain.Day(s.clock())

	if date.After(today) {
		return logTarget{}, domain.NewValidationError("date", "cannot log %s, it is in the future", domain.FormatDate(date))
	}
	if !a.ActiveOn(date) {
		return logTarget{}, domain.NewValidationError("date", "%q is not active on %s", a.Name, domain.FormatDate(date))
	}

	snaps, err := repository.NewSQLiteSnapshotRepo(tx).ListByActivity(ctx, a.ID)
	if err != nil {
		return logTarget{}, err
	}
	cfg := scheduler.ResolveConfig(a, snaps, date)
	if cfg.Kind == domain.KindContainer {
		return logTarget{}, domain.NewValidationError("activity", "%q is a container; log its children instead", a.Name)
	}

	slot = strings.ToLower(strings.TrimSpace(slot))
	switch {
	case cfg.IsMultiSession():
		if slot == "" {
			return logTarget{}, domain.NewValidationError("slot", "%q has sessions %s on %s; pick one",
				a.Name, strings.Join(cfg.Slots, ", "), domain.FormatDate(date))
		}
		if !slices.Contains(cfg.Slots, slot) {
			return logTarget{}, domain.NewValidationError("slot", "slot %q is not active for %q on %s (have %s)",
				slot, a.Name, domain.FormatDate(date), strings.Join(cfg.Slots, ", "))
		}
	case slot != "":
		if !slices.Contains(cfg.Slots, slot) {
			return logTarget{}, domain.NewValidationError("slot", "%q is single-session; drop the slot", a.Name)
		}
		slot = ""
	}
	return logTarget{name: a.Name, date: date, slot: slot, cfg: cfg}, nil
}
