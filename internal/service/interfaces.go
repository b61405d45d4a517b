package service

import (
	"context"
	"time"

	"github.com/alexanderramin/habitus/internal/app"
	"github.com/alexanderramin/habitus/internal/domain"
	"github.com/alexanderramin/habitus/internal/importer"
	"github.com/alexanderramin/habitus/internal/scheduler"
)

// Clock returns the current time in the user's zone.
type Clock func() time.Time

func clockOrNow(c Clock) Clock {
	if c == nil {
		return time.Now
	}
	return c
}

type ActivityService interface {
	Create(ctx context.Context, req app.CreateActivityRequest) (*domain.Activity, error)
	GetByID(ctx context.Context, id string) (*domain.Activity, error)
	// Resolve finds an activity by ID or case-insensitive name.
	Resolve(ctx context.Context, nameOrID string) (*domain.Activity, error)
	List(ctx context.Context) ([]*domain.Activity, error)
	Children(ctx context.Context, id string) ([]*domain.Activity, error)
	Snapshots(ctx context.Context, id string) ([]*domain.ConfigSnapshot, error)
	UpdateDetails(ctx context.Context, req app.UpdateDetailsRequest) (*domain.Activity, error)
	EditStructuralConfig(ctx context.Context, req app.EditStructuralRequest) (*app.EditResult, error)
	Pause(ctx context.Context, id string, at time.Time) (*domain.Activity, error)
	Resume(ctx context.Context, id string) (*domain.Activity, error)
	Delete(ctx context.Context, id string) error
}

type LogService interface {
	LogCompletion(ctx context.Context, req app.LogCompletionRequest) (*domain.ActivityLog, error)
	LogSkip(ctx context.Context, req app.LogSkipRequest) (*domain.ActivityLog, error)
	// Undo removes a log and returns what was removed.
	Undo(ctx context.Context, logID string) (*domain.ActivityLog, error)
	List(ctx context.Context, req app.ListLogsRequest) ([]*domain.ActivityLog, error)
}

type VacationService interface {
	// Add marks every day in [from, to] as vacation.
	Add(ctx context.Context, from, to time.Time, note string) (int, error)
	Remove(ctx context.Context, date time.Time) error
	List(ctx context.Context) ([]domain.VacationDay, error)
}

type EvaluationService interface {
	// Evaluator loads the full store into a fresh evaluation pass.
	Evaluator(ctx context.Context) (*scheduler.Evaluator, error)
	Today(ctx context.Context, req app.TodayRequest) (*app.TodayResponse, error)
	Stats(ctx context.Context, req app.StatsRequest) (*app.StatsResponse, error)
}

type ExchangeService interface {
	Export(ctx context.Context) (*importer.Document, error)
	Import(ctx context.Context, doc *importer.Document) (*app.ImportResult, error)
}

type DigestService interface {
	Build(ctx context.Context, date time.Time) (*app.Digest, error)
}
