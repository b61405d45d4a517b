package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/habitus/internal/repository"
	"github.com/alexanderramin/habitus/internal/scheduler"
)

// stores groups the repositories an evaluation pass reads from.
type stores struct {
	activities repository.ActivityRepo
	snapshots  repository.SnapshotRepo
	logs       repository.LogRepo
	vacations  repository.VacationRepo
}

// loadDataset reads the whole store. Streaks and sticky schedules look back
// to each activity's creation day, so nothing is filtered by date.
func (s stores) loadDataset(ctx context.Context) (scheduler.Dataset, error) {
	var ds scheduler.Dataset
	var err error
	if ds.Activities, err = s.activities.List(ctx); err != nil {
		return ds, fmt.Errorf("loading activities: %w", err)
	}
	if ds.Snapshots, err = s.snapshots.ListAll(ctx); err != nil {
		return ds, fmt.Errorf("loading snapshots: %w", err)
	}
	if ds.Logs, err = s.logs.ListAll(ctx); err != nil {
		return ds, fmt.Errorf("loading logs: %w", err)
	}
	if ds.Vacations, err = s.vacations.List(ctx); err != nil {
		return ds, fmt.Errorf("loading vacation days: %w", err)
	}
	return ds, nil
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}
