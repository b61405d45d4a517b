package domain

import "time"

// ConfigSnapshot is an immutable copy of an activity's structural config that
// applied during [EffectiveFrom, EffectiveUntil], both inclusive.
type ConfigSnapshot struct {
	ID             string
	ActivityID     string
	Config         StructuralConfig
	EffectiveFrom  time.Time
	EffectiveUntil time.Time
	CreatedAt      time.Time
}

// Covers reports whether date falls inside the snapshot window.
func (s *ConfigSnapshot) Covers(date time.Time) bool {
	date = Day(date)
	return !date.Before(Day(s.EffectiveFrom)) && !date.After(Day(s.EffectiveUntil))
}

// Overlaps reports whether two snapshot windows share at least one day.
func (s *ConfigSnapshot) Overlaps(other *ConfigSnapshot) bool {
	return !Day(s.EffectiveUntil).Before(Day(other.EffectiveFrom)) &&
		!Day(other.EffectiveUntil).Before(Day(s.EffectiveFrom))
}
