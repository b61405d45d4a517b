package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/habitus/internal/domain"
)

type ActivityRepo interface {
	Create(ctx context.Context, a *domain.Activity) error
	GetByID(ctx context.Context, id string) (*domain.Activity, error)
	GetByName(ctx context.Context, name string) (*domain.Activity, error)
	List(ctx context.Context) ([]*domain.Activity, error)
	ListChildren(ctx context.Context, parentID string) ([]*domain.Activity, error)
	Update(ctx context.Context, a *domain.Activity) error
	Delete(ctx context.Context, id string) error
}

type SnapshotRepo interface {
	Create(ctx context.Context, s *domain.ConfigSnapshot) error
	ListByActivity(ctx context.Context, activityID string) ([]*domain.ConfigSnapshot, error)
	ListAll(ctx context.Context) ([]*domain.ConfigSnapshot, error)
}

type LogRepo interface {
	// Upsert inserts l or replaces the existing log with the same
	// (activity, date, slot) key.
	Upsert(ctx context.Context, l *domain.ActivityLog) error
	GetByID(ctx context.Context, id string) (*domain.ActivityLog, error)
	GetByKey(ctx context.Context, activityID string, date time.Time, slot string) (*domain.ActivityLog, error)
	ListByActivity(ctx context.Context, activityID string) ([]*domain.ActivityLog, error)
	ListRange(ctx context.Context, from, to time.Time) ([]*domain.ActivityLog, error)
	ListAll(ctx context.Context) ([]*domain.ActivityLog, error)
	Delete(ctx context.Context, id string) error
}

type VacationRepo interface {
	Add(ctx context.Context, v domain.VacationDay) error
	Remove(ctx context.Context, date time.Time) error
	List(ctx context.Context) ([]domain.VacationDay, error)
}
