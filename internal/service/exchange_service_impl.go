package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/habitus/internal/app"
	"github.com/alexanderramin/habitus/internal/db"
	"github.com/alexanderramin/habitus/internal/importer"
	"github.com/alexanderramin/habitus/internal/repository"
)

type exchangeService struct {
	stores
	uow      db.UnitOfWork
	clock    Clock
	observer UseCaseObserver
}

func NewExchangeService(
	activities repository.ActivityRepo,
	snapshots repository.SnapshotRepo,
	logs repository.LogRepo,
	vacations repository.VacationRepo,
	uow db.UnitOfWork,
	clock Clock,
	observers ...UseCaseObserver,
) ExchangeService {
	return &exchangeService{
		stores:   stores{activities: activities, snapshots: snapshots, logs: logs, vacations: vacations},
		uow:      uow,
		clock:    clockOrNow(clock),
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *exchangeService) Export(ctx context.Context) (*importer.Document, error) {
	ds, err := s.loadDataset(ctx)
	if err != nil {
		return nil, err
	}
	return importer.Build(&importer.Bundle{
		Activities: ds.Activities,
		Snapshots:  ds.Snapshots,
		Logs:       ds.Logs,
		Vacations:  ds.Vacations,
	}, s.clock()), nil
}

// Import validates and converts doc, then writes everything in one
// transaction. A name clash with an existing activity aborts the import.
func (s *exchangeService) Import(ctx context.Context, doc *importer.Document) (res *app.ImportResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{}
	defer observe(ctx, s.observer, "import", startedAt, fields, &err)

	if errs := importer.ValidateDocument(doc); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}
	bundle, err := importer.Convert(doc, s.clock())
	if err != nil {
		return nil, fmt.Errorf("converting import document: %w", err)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txActivities := repository.NewSQLiteActivityRepo(tx)
		txSnapshots := repository.NewSQLiteSnapshotRepo(tx)
		txLogs := repository.NewSQLiteLogRepo(tx)
		txVacations := repository.NewSQLiteVacationRepo(tx)

		for _, a := range bundle.Activities {
			if err := txActivities.Create(ctx, a); err != nil {
				return fmt.Errorf("creating activity %q: %w", a.Name, err)
			}
		}
		for _, snap := range bundle.Snapshots {
			if err := txSnapshots.Create(ctx, snap); err != nil {
				return fmt.Errorf("creating snapshot: %w", err)
			}
		}
		for _, l := range bundle.Logs {
			if err := txLogs.Upsert(ctx, l); err != nil {
				return fmt.Errorf("creating log: %w", err)
			}
		}
		for _, v := range bundle.Vacations {
			if err := txVacations.Add(ctx, v); err != nil {
				return fmt.Errorf("adding vacation day: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	res = &app.ImportResult{
		ActivityCount: len(bundle.Activities),
		SnapshotCount: len(bundle.Snapshots),
		LogCount:      len(bundle.Logs),
		VacationCount: len(bundle.Vacations),
	}
	fields["activities"] = res.ActivityCount
	fields["logs"] = res.LogCount
	return res, nil
}
