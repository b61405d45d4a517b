package scheduler

import (
	"sort"
	"time"

	"github.com/alexanderramin/habitus/internal/domain"
)

// DefaultCarryForwardLookbackDays bounds how far back a missed occurrence is
// searched when no explicit lookback is configured.
const DefaultCarryForwardLookbackDays = 30

// Dataset is the immutable input of one evaluation pass.
type Dataset struct {
	Activities []*domain.Activity
	Logs       []*domain.ActivityLog
	Snapshots  []*domain.ConfigSnapshot
	Vacations  []domain.VacationDay
}

// Options tunes an Evaluator.
type Options struct {
	CarryForwardLookbackDays int
}

type dayKey struct {
	activityID string
	day        int64
}

type logKey struct {
	activityID string
	day        int64
	slot       string
}

// Evaluator answers due-ness, completion, carry-forward and streak questions
// over a Dataset. Results are memoized for the lifetime of the Evaluator, so
// build a new one for every evaluation pass. An Evaluator is not safe for
// concurrent use.
type Evaluator struct {
	opts Options

	activities map[string]*domain.Activity
	ordered    []*domain.Activity
	snapshots  map[string][]*domain.ConfigSnapshot
	logs       map[logKey]*domain.ActivityLog
	dayLogs    map[dayKey][]*domain.ActivityLog
	firstDone  map[string]time.Time
	vacations  map[int64]bool

	scores   map[dayKey]Score
	visiting map[dayKey]bool
}

// NewEvaluator indexes ds for evaluation.
func NewEvaluator(ds Dataset, opts Options) *Evaluator {
	if opts.CarryForwardLookbackDays <= 0 {
		opts.CarryForwardLookbackDays = DefaultCarryForwardLookbackDays
	}

	e := &Evaluator{
		opts:       opts,
		activities: make(map[string]*domain.Activity, len(ds.Activities)),
		snapshots:  make(map[string][]*domain.ConfigSnapshot),
		logs:       make(map[logKey]*domain.ActivityLog, len(ds.Logs)),
		dayLogs:    make(map[dayKey][]*domain.ActivityLog),
		firstDone:  make(map[string]time.Time),
		vacations:  make(map[int64]bool, len(ds.Vacations)),
		scores:     make(map[dayKey]Score),
		visiting:   make(map[dayKey]bool),
	}

	for _, a := range ds.Activities {
		if a == nil {
			continue
		}
		e.activities[a.ID] = a
		e.ordered = append(e.ordered, a)
	}
	sort.SliceStable(e.ordered, func(i, j int) bool {
		if e.ordered[i].Name != e.ordered[j].Name {
			return e.ordered[i].Name < e.ordered[j].Name
		}
		return e.ordered[i].ID < e.ordered[j].ID
	})

	for _, s := range ds.Snapshots {
		if s == nil {
			continue
		}
		e.snapshots[s.ActivityID] = append(e.snapshots[s.ActivityID], s)
	}
	for id := range e.snapshots {
		sortSnapshots(e.snapshots[id])
	}

	for _, l := range ds.Logs {
		if l == nil {
			continue
		}
		e.addLog(l)
	}
	for _, l := range e.logs {
		if !l.IsCompleted() {
			continue
		}
		d := domain.Day(l.Date)
		if first, ok := e.firstDone[l.ActivityID]; !ok || d.Before(first) {
			e.firstDone[l.ActivityID] = d
		}
	}

	for _, v := range ds.Vacations {
		e.vacations[dayNumber(v.Date)] = true
	}
	return e
}

// addLog indexes a log. Should two logs share a key, the later one wins,
// mirroring the insert-or-replace write path.
func (e *Evaluator) addLog(l *domain.ActivityLog) {
	k := logKey{activityID: l.ActivityID, day: dayNumber(l.Date), slot: l.Slot}
	if prev, ok := e.logs[k]; ok {
		if prev.CreatedAt.After(l.CreatedAt) {
			return
		}
		e.removeDayLog(prev)
	}
	e.logs[k] = l

	dk := dayKey{activityID: l.ActivityID, day: k.day}
	e.dayLogs[dk] = append(e.dayLogs[dk], l)
}

func (e *Evaluator) removeDayLog(l *domain.ActivityLog) {
	dk := dayKey{activityID: l.ActivityID, day: dayNumber(l.Date)}
	logs := e.dayLogs[dk]
	for i, candidate := range logs {
		if candidate == l {
			e.dayLogs[dk] = append(logs[:i], logs[i+1:]...)
			break
		}
	}
}

// Activity returns the activity with the given ID.
func (e *Evaluator) Activity(id string) (*domain.Activity, bool) {
	a, ok := e.activities[id]
	return a, ok
}

// Activities returns every activity ordered by name.
func (e *Evaluator) Activities() []*domain.Activity {
	return e.ordered
}

// IsVacation reports whether date is a vacation day.
func (e *Evaluator) IsVacation(date time.Time) bool {
	return e.vacations[dayNumber(date)]
}

// LogsOn returns the logs recorded for an activity on date.
func (e *Evaluator) LogsOn(activityID string, date time.Time) []*domain.ActivityLog {
	return e.dayLogs[dayKey{activityID: activityID, day: dayNumber(date)}]
}

func (e *Evaluator) logAt(activityID string, date time.Time, slot string) *domain.ActivityLog {
	return e.logs[logKey{activityID: activityID, day: dayNumber(date), slot: slot}]
}

func dayNumber(t time.Time) int64 {
	return domain.Day(t).Unix() / 86400
}
