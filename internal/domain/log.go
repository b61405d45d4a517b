package domain

import "time"

// ActivityLog records a completion or skip for one (activity, date, slot) key.
// Slot is empty for single-session activities.
type ActivityLog struct {
	ID         string
	ActivityID string
	Date       time.Time
	Slot       string
	Status     LogStatus
	Value      *float64
	SkipReason string
	Source     LogSource
	CreatedAt  time.Time
}

func (l *ActivityLog) IsCompleted() bool { return l.Status == LogCompleted }

func (l *ActivityLog) IsSkipped() bool { return l.Status == LogSkipped }

// ValueOrZero returns the logged value, or 0 when none was recorded.
func (l *ActivityLog) ValueOrZero() float64 {
	return Float64FromPtrWithDefault(0, l.Value)
}
