package scheduler

import (
	"math"
	"time"

	"github.com/alexanderramin/habitus/internal/domain"
)

// Score is the per-day completion breakdown of one activity. DayScore is the
// only place activity kinds are told apart; completion status, rates,
// streaks and carry-forward all read from it.
type Score struct {
	Total     int     // units before skips are removed
	Units     int     // units left in the denominator once skips are removed
	Credit    float64 // completed units, partial credit included
	Completed int     // units fully completed
	Skipped   int     // units excused by an explicit skip

	// Excluded scores never count toward any aggregate: cumulative activities
	// without a target, and containers with no due children.
	Excluded bool

	FullyCompleted bool
	FullySkipped   bool
}

// Fraction returns Credit over the non-skipped units, or 0 when none remain.
func (s Score) Fraction() float64 {
	if s.Units == 0 {
		return 0
	}
	return s.Credit / float64(s.Units)
}

// Resolved reports whether the day needs no further action.
func (s Score) Resolved() bool {
	return s.FullyCompleted || s.FullySkipped
}

type unitState int

const (
	unitPending unitState = iota
	unitCompleted
	unitSkipped
)

type tally struct {
	total     int
	completed int
	skipped   int
	credit    float64
}

func (t *tally) add(state unitState, credit float64) {
	t.total++
	switch state {
	case unitCompleted:
		t.completed++
		t.credit++
	case unitSkipped:
		t.skipped++
	default:
		t.credit += credit
	}
}

// score converts the tally. A day is fully skipped only when every unit was
// skipped: mixing completions and skips leaves it pending, so the completed
// part is never hidden behind an excuse.
func (t tally) score() Score {
	return Score{
		Total:          t.total,
		Units:          t.total - t.skipped,
		Credit:         t.credit,
		Completed:      t.completed,
		Skipped:        t.skipped,
		FullyCompleted: t.total > 0 && t.completed == t.total,
		FullySkipped:   t.total > 0 && t.skipped == t.total,
	}
}

// DayScore evaluates a on date using the config effective on that date. It
// does not check due-ness; callers pair it with IsScheduled.
func (e *Evaluator) DayScore(a *domain.Activity, date time.Time) Score {
	date = domain.Day(date)
	key := dayKey{activityID: a.ID, day: dayNumber(date)}
	if s, ok := e.scores[key]; ok {
		return s
	}
	if e.visiting[key] {
		// Parent cycle: treat the repeated container as having no children.
		return Score{Excluded: true}
	}
	e.visiting[key] = true
	defer delete(e.visiting, key)

	cfg := e.configAt(a, date)
	var s Score
	switch {
	case cfg.Kind == domain.KindContainer:
		s = e.containerScore(a, date)
	case cfg.Kind == domain.KindCumulative && !cfg.HasTarget():
		// Excluded whether or not it has slots.
		s = Score{Excluded: true}
	case cfg.IsMultiSession():
		s = e.slotScore(a, cfg, date)
	case cfg.Kind == domain.KindCumulative:
		s = e.cumulativeScore(a, cfg, date)
	default:
		s = e.singleScore(a, date)
	}

	e.scores[key] = s
	return s
}

func (e *Evaluator) singleScore(a *domain.Activity, date time.Time) Score {
	var t tally
	t.add(stateOf(e.unslottedLog(a.ID, date)), 0)
	return t.score()
}

func (e *Evaluator) slotScore(a *domain.Activity, cfg domain.StructuralConfig, date time.Time) Score {
	var t tally
	for _, slot := range cfg.Slots {
		t.add(stateOf(e.logAt(a.ID, date, slot)), 0)
	}
	return t.score()
}

func (e *Evaluator) cumulativeScore(a *domain.Activity, cfg domain.StructuralConfig, date time.Time) Score {
	if !cfg.HasTarget() {
		return Score{Excluded: true}
	}

	var values []float64
	skipped := false
	for _, l := range e.LogsOn(a.ID, date) {
		switch {
		case l.IsCompleted():
			values = append(values, l.ValueOrZero())
		case l.IsSkipped():
			skipped = true
		}
	}

	var t tally
	switch {
	case len(values) > 0:
		progress := aggregate(values, cfg.Aggregation)
		if progress >= *cfg.Target {
			t.add(unitCompleted, 1)
		} else {
			t.add(unitPending, math.Min(math.Max(progress, 0) / *cfg.Target, 1))
		}
	case skipped:
		t.add(unitSkipped, 0)
	default:
		t.add(unitPending, 0)
	}
	return t.score()
}

func (e *Evaluator) containerScore(a *domain.Activity, date time.Time) Score {
	var t tally
	for _, child := range e.ChildrenAsOf(a.ID, date) {
		if !e.IsScheduled(child, date) {
			continue
		}
		cs := e.DayScore(child, date)
		switch {
		case cs.Excluded:
			continue
		case cs.FullyCompleted:
			t.add(unitCompleted, 1)
		case cs.FullySkipped:
			t.add(unitSkipped, 0)
		default:
			t.add(unitPending, cs.Fraction())
		}
	}
	s := t.score()
	s.Excluded = t.total == 0
	return s
}

// unslottedLog returns the log for a single-session day. Logs tagged with a
// slot still count, so a change from multi- to single-session under the
// "all changes" policy does not orphan earlier entries.
func (e *Evaluator) unslottedLog(activityID string, date time.Time) *domain.ActivityLog {
	if l := e.logAt(activityID, date, ""); l != nil {
		return l
	}
	var skipped *domain.ActivityLog
	for _, l := range e.LogsOn(activityID, date) {
		if l.IsCompleted() {
			return l
		}
		if l.IsSkipped() && skipped == nil {
			skipped = l
		}
	}
	return skipped
}

func stateOf(l *domain.ActivityLog) unitState {
	switch {
	case l == nil:
		return unitPending
	case l.IsCompleted():
		return unitCompleted
	case l.IsSkipped():
		return unitSkipped
	}
	return unitPending
}

func aggregate(values []float64, how domain.Aggregation) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	if how == domain.AggregateAverage {
		return sum / float64(len(values))
	}
	return sum
}

// Progress returns the aggregated value logged for a on date under the
// aggregation effective that day. The second result is false when no
// completed log exists.
func (e *Evaluator) Progress(a *domain.Activity, date time.Time) (float64, bool) {
	var values []float64
	for _, l := range e.LogsOn(a.ID, date) {
		if l.IsCompleted() {
			values = append(values, l.ValueOrZero())
		}
	}
	if len(values) == 0 {
		return 0, false
	}
	return aggregate(values, e.configAt(a, date).Aggregation), true
}

// IsSlotCompleted reports whether a completed log exists for exactly
// (activity, date, slot). Use an empty slot for single-session activities.
func (e *Evaluator) IsSlotCompleted(a *domain.Activity, date time.Time, slot string) bool {
	l := e.logAt(a.ID, date, slot)
	return l != nil && l.IsCompleted()
}

// IsSlotSkipped reports whether a skip log exists for exactly (activity, date, slot).
func (e *Evaluator) IsSlotSkipped(a *domain.Activity, date time.Time, slot string) bool {
	l := e.logAt(a.ID, date, slot)
	return l != nil && l.IsSkipped()
}

// IsFullyCompleted reports whether every unit of a on date is completed.
// Containers with no due children are never fully completed.
func (e *Evaluator) IsFullyCompleted(a *domain.Activity, date time.Time) bool {
	return e.DayScore(a, date).FullyCompleted
}

// IsFullySkipped reports whether a has at least one unit on date and all of them were skipped.
func (e *Evaluator) IsFullySkipped(a *domain.Activity, date time.Time) bool {
	return e.DayScore(a, date).FullySkipped
}

// parentAt returns the container a belongs to on date, or "" when a is
// top-level on that date. A parent that is unknown, not yet created, stopped
// or no longer a container does not claim the child.
func (e *Evaluator) parentAt(a *domain.Activity, date time.Time) string {
	pid := e.configAt(a, date).Parent()
	if pid == "" || pid == a.ID {
		return ""
	}
	p, ok := e.activities[pid]
	if !ok || !p.ActiveOn(date) || e.configAt(p, date).Kind != domain.KindContainer {
		return ""
	}
	return pid
}

// ChildrenAsOf returns the children of a container as they were on date:
// parent resolved from each child's effective config, and only children that
// existed and were not stopped on date. Use it for evaluation and analytics.
func (e *Evaluator) ChildrenAsOf(containerID string, date time.Time) []*domain.Activity {
	date = domain.Day(date)
	var out []*domain.Activity
	for _, c := range e.ordered {
		if c.ID == containerID || !c.ActiveOn(date) {
			continue
		}
		if e.parentAt(c, date) == containerID {
			out = append(out, c)
		}
	}
	return out
}

// CurrentChildren returns the children named by the live configs, including
// paused ones. Use it for editing, never for historical evaluation.
func (e *Evaluator) CurrentChildren(containerID string) []*domain.Activity {
	var out []*domain.Activity
	for _, c := range e.ordered {
		if c.ID != containerID && c.Config.Parent() == containerID {
			out = append(out, c)
		}
	}
	return out
}

// IsTopLevel reports whether a is counted on its own on date rather than
// through a container.
func (e *Evaluator) IsTopLevel(a *domain.Activity, date time.Time) bool {
	return e.parentAt(a, date) == ""
}
