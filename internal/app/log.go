package app

import (
	"time"

	"github.com/alexanderramin/habitus/internal/domain"
)

// LogCompletionRequest records a completion for (activity, date, slot).
// With Accumulate set, Value is added to the value already logged for the key.
type LogCompletionRequest struct {
	ActivityID string
	Date       time.Time
	Slot       string
	Value      *float64
	Accumulate bool
	Source     domain.LogSource
}

type LogSkipRequest struct {
	ActivityID string
	Date       time.Time
	Slot       string
	Reason     string
}

type ListLogsRequest struct {
	ActivityID string // empty means every activity
	From       time.Time
	To         time.Time
}
