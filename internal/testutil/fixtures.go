package testutil

import (
	"time"

	"github.com/alexanderramin/habitus/internal/domain"
	"github.com/google/uuid"
)

// Activity options
type ActivityOption func(*domain.Activity)

func WithSchedule(s domain.Schedule) ActivityOption {
	return func(a *domain.Activity) {
		a.Config.Schedule = s
	}
}

func WithKind(k domain.ActivityKind) ActivityOption {
	return func(a *domain.Activity) {
		a.Config.Kind = k
	}
}

func WithSlots(slots ...string) ActivityOption {
	return func(a *domain.Activity) {
		a.Config.Slots = slots
	}
}

func WithTarget(target float64, agg domain.Aggregation) ActivityOption {
	return func(a *domain.Activity) {
		a.Config.Kind = domain.KindCumulative
		a.Config.Target = &target
		a.Config.Aggregation = agg
	}
}

func WithParent(id string) ActivityOption {
	return func(a *domain.Activity) {
		a.Config.ParentID = &id
	}
}

func WithCreatedDate(d time.Time) ActivityOption {
	return func(a *domain.Activity) {
		a.CreatedDate = domain.Day(d)
	}
}

func WithStoppedAt(d time.Time) ActivityOption {
	return func(a *domain.Activity) {
		d = domain.Day(d)
		a.StoppedAt = &d
	}
}

func WithDescription(desc string) ActivityOption {
	return func(a *domain.Activity) {
		a.Description = desc
	}
}

// NewTestActivity returns a daily checkbox activity created thirty days ago.
func NewTestActivity(name string, opts ...ActivityOption) *domain.Activity {
	now := time.Now().UTC()
	a := &domain.Activity{
		ID:   uuid.New().String(),
		Name: name,
		Config: domain.StructuralConfig{
			Schedule:    domain.DailySchedule(),
			Kind:        domain.KindCheckbox,
			Aggregation: domain.AggregateSum,
		},
		CreatedDate: domain.AddDays(now, -30),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Log options
type LogOption func(*domain.ActivityLog)

func WithSlot(slot string) LogOption {
	return func(l *domain.ActivityLog) {
		l.Slot = slot
	}
}

func WithValue(v float64) LogOption {
	return func(l *domain.ActivityLog) {
		l.Value = &v
	}
}

func AsSkip(reason string) LogOption {
	return func(l *domain.ActivityLog) {
		l.Status = domain.LogSkipped
		l.SkipReason = reason
	}
}

func WithSource(s domain.LogSource) LogOption {
	return func(l *domain.ActivityLog) {
		l.Source = s
	}
}

// NewTestLog returns a completed log for activityID on date.
func NewTestLog(activityID string, date time.Time, opts ...LogOption) *domain.ActivityLog {
	l := &domain.ActivityLog{
		ID:         uuid.New().String(),
		ActivityID: activityID,
		Date:       domain.Day(date),
		Status:     domain.LogCompleted,
		Source:     domain.SourceManual,
		CreatedAt:  time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// NewTestSnapshot freezes cfg for activityID over [from, until].
func NewTestSnapshot(activityID string, cfg domain.StructuralConfig, from, until time.Time) *domain.ConfigSnapshot {
	return &domain.ConfigSnapshot{
		ID:             uuid.New().String(),
		ActivityID:     activityID,
		Config:         cfg.Clone(),
		EffectiveFrom:  domain.Day(from),
		EffectiveUntil: domain.Day(until),
		CreatedAt:      time.Now().UTC(),
	}
}
