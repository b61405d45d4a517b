package domain

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// StructuralConfig is the part of an activity that decides due-ness and
// completion. It is what a ConfigSnapshot freezes.
type StructuralConfig struct {
	Schedule    Schedule
	Kind        ActivityKind
	Slots       []string // ordered; more than one means multi-session
	Target      *float64 // cumulative kind only
	Aggregation Aggregation
	ParentID    *string // container this activity belongs to
}

// IsMultiSession reports whether the config has more than one active slot.
func (c StructuralConfig) IsMultiSession() bool {
	return len(c.Slots) > 1
}

// HasTarget reports whether a positive cumulative target is set.
func (c StructuralConfig) HasTarget() bool {
	return c.Target != nil && *c.Target > 0
}

// Parent returns the parent container ID, or "" if the activity is top-level.
func (c StructuralConfig) Parent() string {
	return StrFromPtr(c.ParentID)
}

// Clone returns a deep copy of the config.
func (c StructuralConfig) Clone() StructuralConfig {
	out := StructuralConfig{
		Schedule:    c.Schedule.Clone(),
		Kind:        c.Kind,
		Aggregation: c.Aggregation,
	}
	if c.Slots != nil {
		out.Slots = append([]string(nil), c.Slots...)
	}
	if c.Target != nil {
		t := *c.Target
		out.Target = &t
	}
	if c.ParentID != nil {
		p := *c.ParentID
		out.ParentID = &p
	}
	return out
}

// Validate checks kind, schedule, slots and aggregation.
func (c StructuralConfig) Validate() error {
	if !ValidActivityKinds[string(c.Kind)] {
		return NewValidationError("kind", "unknown activity kind %q", c.Kind)
	}
	if err := c.Schedule.Validate(); err != nil {
		return err
	}
	seen := make(map[string]bool, len(c.Slots))
	for _, s := range c.Slots {
		if s == "" {
			return NewValidationError("slots", "slot name cannot be empty")
		}
		if strings.ContainsAny(s, ", ") {
			return NewValidationError("slots", "slot %q must be a single word", s)
		}
		if seen[s] {
			return NewValidationError("slots", "duplicate slot %q", s)
		}
		seen[s] = true
	}
	switch c.Aggregation {
	case "", AggregateSum, AggregateAverage:
	default:
		return NewValidationError("aggregation", "unknown aggregation %q", c.Aggregation)
	}
	if c.Kind == KindContainer && c.IsMultiSession() {
		return NewValidationError("slots", "container activities cannot be multi-session")
	}
	return nil
}

// Activity is a tracked recurring activity. Config holds the live structural
// settings, which apply to every date not covered by a ConfigSnapshot.
type Activity struct {
	ID          string
	Name        string
	Description string
	Color       string
	Config      StructuralConfig
	CreatedDate time.Time
	StoppedAt   *time.Time // exclusive: the activity is not due on or after this day
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Kind returns the live activity kind.
func (a *Activity) Kind() ActivityKind {
	return a.Config.Kind
}

// IsContainer reports whether the live config is a container.
func (a *Activity) IsContainer() bool {
	return a.Config.Kind == KindContainer
}

// ActiveOn reports whether date lies in [CreatedDate, StoppedAt).
func (a *Activity) ActiveOn(date time.Time) bool {
	date = Day(date)
	if date.Before(Day(a.CreatedDate)) {
		return false
	}
	if a.StoppedAt != nil && !date.Before(Day(*a.StoppedAt)) {
		return false
	}
	return true
}

// IsPaused reports whether the activity is stopped as of date.
func (a *Activity) IsPaused(date time.Time) bool {
	return a.StoppedAt != nil && !Day(date).Before(Day(*a.StoppedAt))
}

// Pause stops the activity from the given day onward.
func (a *Activity) Pause(at time.Time, now time.Time) error {
	at = Day(at)
	if at.Before(Day(a.CreatedDate)) {
		return NewValidationError("stopped_at", "cannot pause before the activity was created (%s)", FormatDate(a.CreatedDate))
	}
	a.StoppedAt = &at
	a.UpdatedAt = now
	return nil
}

// Resume clears the pause point.
func (a *Activity) Resume(now time.Time) {
	a.StoppedAt = nil
	a.UpdatedAt = now
}

// ApplyStructural replaces the live structural config.
func (a *Activity) ApplyStructural(cfg StructuralConfig, now time.Time) {
	a.Config = cfg.Clone()
	a.UpdatedAt = now
}

// Validate checks the activity's name, config and dates.
func (a *Activity) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return NewValidationError("name", "activity name is required")
	}
	if a.CreatedDate.IsZero() {
		return NewValidationError("created_date", "created date is required")
	}
	if a.Config.ParentID != nil && *a.Config.ParentID == a.ID {
		return NewValidationError("parent", "an activity cannot be its own parent")
	}
	return a.Config.Validate()
}

// NormalizeName trims and NFC-normalizes a display name.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// NameKey returns the case-folded key used for case-insensitive name lookup.
func NameKey(name string) string {
	return cases.Fold().String(NormalizeName(name))
}

// NormalizeSlots lower-cases, trims and de-duplicates slot names, keeping order.
func NormalizeSlots(slots []string) []string {
	var out []string
	seen := make(map[string]bool, len(slots))
	for _, s := range slots {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
