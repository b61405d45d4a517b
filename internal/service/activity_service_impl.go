package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/alexanderramin/habitus/internal/app"
	"github.com/alexanderramin/habitus/internal/db"
	"github.com/alexanderramin/habitus/internal/domain"
	"github.com/alexanderramin/habitus/internal/logger"
	"github.com/alexanderramin/habitus/internal/repository"
	"github.com/alexanderramin/habitus/internal/scheduler"
	"github.com/google/uuid"
)

type activityService struct {
	activities repository.ActivityRepo
	snapshots  repository.SnapshotRepo
	uow        db.UnitOfWork
	clock      Clock
	observer   UseCaseObserver
}

func NewActivityService(
	activities repository.ActivityRepo,
	snapshots repository.SnapshotRepo,
	uow db.UnitOfWork,
	clock Clock,
	observers ...UseCaseObserver,
) ActivityService {
	return &activityService{
		activities: activities,
		snapshots:  snapshots,
		uow:        uow,
		clock:      clockOrNow(clock),
		observer:   useCaseObserverOrNoop(observers),
	}
}

func (s *activityService) Create(ctx context.Context, req app.CreateActivityRequest) (a *domain.Activity, err error) {
	startedAt := time.Now()
	fields := map[string]any{"name": req.Name}
	defer observe(ctx, s.observer, "create-activity", startedAt, fields, &err)

	now := time.Now().UTC()
	created := req.CreatedDate
	if created.IsZero() {
		created = s.clock()
	}
	a = &domain.Activity{
		ID:          uuid.New().String(),
		Name:        domain.NormalizeName(req.Name),
		Description: req.Description,
		Color:       req.Color,
		Config:      normalizeConfig(req.Config),
		CreatedDate: domain.Day(created),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err = a.Validate(); err != nil {
		return nil, err
	}
	fields["kind"] = string(a.Config.Kind)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txActivities := repository.NewSQLiteActivityRepo(tx)
		if err := checkParent(ctx, txActivities, a.ID, a.Config.ParentID); err != nil {
			return err
		}
		return txActivities.Create(ctx, a)
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *activityService) GetByID(ctx context.Context, id string) (*domain.Activity, error) {
	return s.activities.GetByID(ctx, id)
}

func (s *activityService) Resolve(ctx context.Context, nameOrID string) (*domain.Activity, error) {
	a, err := s.activities.GetByID(ctx, nameOrID)
	if err == nil {
		return a, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	a, err = s.activities.GetByName(ctx, nameOrID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("activity %q: %w", nameOrID, repository.ErrNotFound)
	}
	return a, err
}

func (s *activityService) List(ctx context.Context) ([]*domain.Activity, error) {
	return s.activities.List(ctx)
}

func (s *activityService) Children(ctx context.Context, id string) ([]*domain.Activity, error) {
	return s.activities.ListChildren(ctx, id)
}

func (s *activityService) Snapshots(ctx context.Context, id string) ([]*domain.ConfigSnapshot, error) {
	return s.snapshots.ListByActivity(ctx, id)
}

func (s *activityService) UpdateDetails(ctx context.Context, req app.UpdateDetailsRequest) (*domain.Activity, error) {
	a, err := s.activities.GetByID(ctx, req.ActivityID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		a.Name = domain.NormalizeName(*req.Name)
	}
	if req.Description != nil {
		a.Description = *req.Description
	}
	if req.Color != nil {
		a.Color = *req.Color
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	a.UpdatedAt = time.Now().UTC()
	if err := s.activities.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// EditStructuralConfig replaces the live structural config. Under the
// future-only policy the old config is first frozen in a snapshot ending the
// day before EditDate; snapshot and mutation commit together. When that
// window would be empty the edit falls back to a direct mutation and says so
// in the result warnings.
func (s *activityService) EditStructuralConfig(ctx context.Context, req app.EditStructuralRequest) (res *app.EditResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"activity": req.ActivityID, "policy": string(req.Policy)}
	defer observe(ctx, s.observer, "edit-structural-config", startedAt, fields, &err)

	policy := req.Policy
	if policy == "" {
		policy = domain.EditFutureOnly
	}
	if policy != domain.EditFutureOnly && policy != domain.EditAllChanges {
		return nil, domain.NewValidationError("policy", "unknown edit policy %q", policy)
	}
	editDate := req.EditDate
	if editDate.IsZero() {
		editDate = s.clock()
	}
	editDate = domain.Day(editDate)
	cfg := normalizeConfig(req.Config)
	if err = cfg.Validate(); err != nil {
		return nil, err
	}

	res = &app.EditResult{}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txActivities := repository.NewSQLiteActivityRepo(tx)
		txSnapshots := repository.NewSQLiteSnapshotRepo(tx)

		a, err := txActivities.GetByID(ctx, req.ActivityID)
		if err != nil {
			return err
		}
		if err := checkParent(ctx, txActivities, a.ID, cfg.ParentID); err != nil {
			return err
		}
		if reflect.DeepEqual(a.Config, cfg) {
			res.Activity = a
			res.Warnings = append(res.Warnings, "structural config unchanged")
			return nil
		}
		if a.IsContainer() && cfg.Kind != domain.KindContainer {
			children, err := txActivities.ListChildren(ctx, a.ID)
			if err != nil {
				return err
			}
			if len(children) > 0 {
				res.Warnings = append(res.Warnings,
					fmt.Sprintf("%d child activities now count as top-level", len(children)))
			}
		}

		now := time.Now().UTC()
		if policy == domain.EditFutureOnly {
			existing, err := txSnapshots.ListByActivity(ctx, a.ID)
			if err != nil {
				return err
			}
			snap, err := scheduler.PlanSnapshot(a, existing, editDate, now)
			switch {
			case errors.Is(err, scheduler.ErrInvalidSnapshotWindow):
				msg := fmt.Sprintf("no history to preserve before %s; config changed for all dates", domain.FormatDate(editDate))
				logger.Warn("snapshot skipped", "activity", a.ID, "err", err)
				res.Warnings = append(res.Warnings, msg)
			case err != nil:
				return err
			default:
				snap.ID = uuid.New().String()
				if err := txSnapshots.Create(ctx, snap); err != nil {
					return err
				}
				res.Snapshot = snap
			}
		}

		a.ApplyStructural(cfg, now)
		if err := txActivities.Update(ctx, a); err != nil {
			return err
		}
		res.Activity = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["snapshot"] = res.Snapshot != nil
	return res, nil
}

func (s *activityService) Pause(ctx context.Context, id string, at time.Time) (*domain.Activity, error) {
	a, err := s.activities.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if at.IsZero() {
		at = s.clock()
	}
	if err := a.Pause(at, time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := s.activities.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *activityService) Resume(ctx context.Context, id string) (*domain.Activity, error) {
	a, err := s.activities.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	a.Resume(time.Now().UTC())
	if err := s.activities.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Delete removes an activity with its logs and snapshots. Live children are
// detached and become top-level.
func (s *activityService) Delete(ctx context.Context, id string) (err error) {
	startedAt := time.Now()
	fields := map[string]any{"activity": id}
	defer observe(ctx, s.observer, "delete-activity", startedAt, fields, &err)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txActivities := repository.NewSQLiteActivityRepo(tx)
		children, err := txActivities.ListChildren(ctx, id)
		if err != nil {
			return err
		}
		fields["detached_children"] = len(children)
		return txActivities.Delete(ctx, id)
	})
}

func normalizeConfig(cfg domain.StructuralConfig) domain.StructuralConfig {
	out := cfg.Clone()
	out.Slots = domain.NormalizeSlots(out.Slots)
	if out.Kind == "" {
		out.Kind = domain.KindCheckbox
	}
	if out.Aggregation == "" {
		out.Aggregation = domain.AggregateSum
	}
	if out.ParentID != nil && *out.ParentID == "" {
		out.ParentID = nil
	}
	return out
}

// checkParent verifies that parentID names an existing container and that
// attaching activityID to it does not close a loop.
func checkParent(ctx context.Context, activities repository.ActivityRepo, activityID string, parentID *string) error {
	if parentID == nil {
		return nil
	}
	seen := map[string]bool{activityID: true}
	id := *parentID
	for hop := 0; id != ""; hop++ {
		if seen[id] {
			return domain.NewValidationError("parent", "parent chain loops back to this activity")
		}
		seen[id] = true
		p, err := activities.GetByID(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return domain.NewValidationError("parent", "parent activity %s not found", id)
		}
		if err != nil {
			return err
		}
		if hop == 0 && !p.IsContainer() {
			return domain.NewValidationError("parent", "%q is not a container", p.Name)
		}
		id = p.Config.Parent()
	}
	return nil
}
