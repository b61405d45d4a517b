package scheduler

import (
	"time"

	"github.com/alexanderramin/habitus/internal/domain"
)

// SessionUnit is one independently completable unit of an activity on a day.
// Slot is empty for single-session activities.
type SessionUnit struct {
	ActivityID string
	Slot       string
}

// ActiveSlots returns the slots of a multi-session activity on date, in
// configured order. Single-session activities have no slots.
func (e *Evaluator) ActiveSlots(a *domain.Activity, date time.Time) []string {
	cfg := e.configAt(a, date)
	if !cfg.IsMultiSession() {
		return nil
	}
	return append([]string(nil), cfg.Slots...)
}

// SessionsPerDay returns the number of completion units a has on date (at least 1).
func (e *Evaluator) SessionsPerDay(a *domain.Activity, date time.Time) int {
	if n := len(e.ActiveSlots(a, date)); n > 1 {
		return n
	}
	return 1
}

// Expand returns one unit per active slot, or a single unslotted unit.
func (e *Evaluator) Expand(a *domain.Activity, date time.Time) []SessionUnit {
	slots := e.ActiveSlots(a, date)
	if len(slots) == 0 {
		return []SessionUnit{{ActivityID: a.ID}}
	}
	units := make([]SessionUnit, len(slots))
	for i, slot := range slots {
		units[i] = SessionUnit{ActivityID: a.ID, Slot: slot}
	}
	return units
}

// IsMultiSession reports whether a has more than one slot on date.
func (e *Evaluator) IsMultiSession(a *domain.Activity, date time.Time) bool {
	return e.configAt(a, date).IsMultiSession()
}
