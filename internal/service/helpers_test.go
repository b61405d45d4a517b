package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/alexanderramin/habitus/internal/db"
	"github.com/alexanderramin/habitus/internal/domain"
	"github.com/alexanderramin/habitus/internal/repository"
	"github.com/alexanderramin/habitus/internal/scheduler"
	"github.com/alexanderramin/habitus/internal/testutil"
	"github.com/stretchr/testify/require"
)

// today is a Wednesday. Every service under test reads it through the clock.
var today = time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return today.Add(9 * time.Hour) }

func day(offset int) time.Time { return domain.AddDays(today, offset) }

type harness struct {
	db         *sql.DB
	uow        db.UnitOfWork
	activities *repository.SQLiteActivityRepo
	snapshots  *repository.SQLiteSnapshotRepo
	logs       *repository.SQLiteLogRepo
	vacations  *repository.SQLiteVacationRepo

	activitySvc ActivityService
	logSvc      LogService
	vacationSvc VacationService
	evalSvc     EvaluationService
	exchangeSvc ExchangeService
	digestSvc   DigestService
}

func setupHarness(t *testing.T) *harness {
	t.Helper()
	database := testutil.NewTestDB(t)
	h := &harness{
		db:         database,
		uow:        testutil.NewTestUoW(database),
		activities: repository.NewSQLiteActivityRepo(database),
		snapshots:  repository.NewSQLiteSnapshotRepo(database),
		logs:       repository.NewSQLiteLogRepo(database),
		vacations:  repository.NewSQLiteVacationRepo(database),
	}
	h.activitySvc = NewActivityService(h.activities, h.snapshots, h.uow, fixedClock)
	h.logSvc = NewLogService(h.logs, h.uow, fixedClock)
	h.vacationSvc = NewVacationService(h.vacations, h.uow)
	h.evalSvc = NewEvaluationService(h.activities, h.snapshots, h.logs, h.vacations, scheduler.Options{}, fixedClock)
	h.exchangeSvc = NewExchangeService(h.activities, h.snapshots, h.logs, h.vacations, h.uow, fixedClock)
	h.digestSvc = NewDigestService(h.evalSvc, fixedClock)
	return h
}

// seedActivity stores a fixture activity directly, bypassing the service.
func (h *harness) seedActivity(t *testing.T, name string, opts ...testutil.ActivityOption) *domain.Activity {
	t.Helper()
	opts = append([]testutil.ActivityOption{testutil.WithCreatedDate(day(-10))}, opts...)
	a := testutil.NewTestActivity(name, opts...)
	require.NoError(t, h.activities.Create(context.Background(), a))
	return a
}

func (h *harness) seedLog(t *testing.T, activityID string, date time.Time, opts ...testutil.LogOption) *domain.ActivityLog {
	t.Helper()
	l := testutil.NewTestLog(activityID, date, opts...)
	require.NoError(t, h.logs.Upsert(context.Background(), l))
	return l
}

func (h *harness) evaluator(t *testing.T) *scheduler.Evaluator {
	t.Helper()
	e, err := h.evalSvc.Evaluator(context.Background())
	require.NoError(t, err)
	return e
}

func ptrFloat(f float64) *float64 { return &f }
