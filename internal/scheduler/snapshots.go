package scheduler

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/alexanderramin/habitus/internal/domain"
)

// ErrInvalidSnapshotWindow is returned when a snapshot would end before it starts,
// e.g. a second structural edit on the same day or an edit on the creation day.
var ErrInvalidSnapshotWindow = errors.New("snapshot window is empty")

// ResolveConfig returns the structural config that applied to a on date:
// the snapshot whose window covers date, otherwise the live config.
// snapshots must belong to a; order does not matter.
func ResolveConfig(a *domain.Activity, snapshots []*domain.ConfigSnapshot, date time.Time) domain.StructuralConfig {
	for _, s := range snapshots {
		if s.ActivityID == a.ID && s.Covers(date) {
			return s.Config
		}
	}
	return a.Config
}

// Resolve returns the effective config of an activity on date. The second
// result is false when the activity is unknown.
func (e *Evaluator) Resolve(activityID string, date time.Time) (domain.StructuralConfig, bool) {
	a, ok := e.activities[activityID]
	if !ok {
		return domain.StructuralConfig{}, false
	}
	return e.configAt(a, date), true
}

// configAt resolves config for a known activity. Snapshots are sorted by
// window start, so the search stops as soon as windows pass date.
func (e *Evaluator) configAt(a *domain.Activity, date time.Time) domain.StructuralConfig {
	date = domain.Day(date)
	for _, s := range e.snapshots[a.ID] {
		if date.Before(domain.Day(s.EffectiveFrom)) {
			break
		}
		if s.Covers(date) {
			return s.Config
		}
	}
	return a.Config
}

// PlanSnapshot freezes a's current live config ahead of an edit effective on
// editDate. The window starts the day after the latest existing snapshot ends
// (or on the creation day) and ends the day before editDate.
func PlanSnapshot(a *domain.Activity, existing []*domain.ConfigSnapshot, editDate, now time.Time) (*domain.ConfigSnapshot, error) {
	from := domain.Day(a.CreatedDate)
	if last := latestSnapshot(existing); last != nil {
		from = domain.AddDays(last.EffectiveUntil, 1)
	}
	until := domain.AddDays(editDate, -1)

	if from.After(until) {
		return nil, fmt.Errorf("%w: from %s until %s", ErrInvalidSnapshotWindow,
			domain.FormatDate(from), domain.FormatDate(until))
	}

	return &domain.ConfigSnapshot{
		ActivityID:     a.ID,
		Config:         a.Config.Clone(),
		EffectiveFrom:  from,
		EffectiveUntil: until,
		CreatedAt:      now,
	}, nil
}

// ValidateSnapshots checks that an activity's snapshots form a gapless,
// non-overlapping sequence starting at the creation day.
func ValidateSnapshots(a *domain.Activity, snapshots []*domain.ConfigSnapshot) error {
	sorted := append([]*domain.ConfigSnapshot(nil), snapshots...)
	sortSnapshots(sorted)

	expected := domain.Day(a.CreatedDate)
	for _, s := range sorted {
		if s.ActivityID != a.ID {
			return fmt.Errorf("snapshot %s belongs to activity %s, not %s", s.ID, s.ActivityID, a.ID)
		}
		from, until := domain.Day(s.EffectiveFrom), domain.Day(s.EffectiveUntil)
		if from.After(until) {
			return fmt.Errorf("snapshot %s: %w", s.ID, ErrInvalidSnapshotWindow)
		}
		if !from.Equal(expected) {
			return fmt.Errorf("snapshot %s starts %s, expected %s (windows must not overlap or leave gaps)",
				s.ID, domain.FormatDate(from), domain.FormatDate(expected))
		}
		if err := s.Config.Validate(); err != nil {
			return fmt.Errorf("snapshot %s: %w", s.ID, err)
		}
		expected = domain.AddDays(until, 1)
	}
	return nil
}

func latestSnapshot(snapshots []*domain.ConfigSnapshot) *domain.ConfigSnapshot {
	var last *domain.ConfigSnapshot
	for _, s := range snapshots {
		if last == nil || s.EffectiveUntil.After(last.EffectiveUntil) {
			last = s
		}
	}
	return last
}

func sortSnapshots(snapshots []*domain.ConfigSnapshot) {
	sort.SliceStable(snapshots, func(i, j int) bool {
		return snapshots[i].EffectiveFrom.Before(snapshots[j].EffectiveFrom)
	})
}
