package scheduler

import (
	"fmt"
	"testing"
	"time"

	"github.com/alexanderramin/habitus/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2026-06-03 is a Wednesday.
var wed = time.Date(2026, 6, 3, 0, 0, 0, 0, time.UTC)

func day(offset int) time.Time { return domain.AddDays(wed, offset) }

type actOpt func(*domain.Activity)

func withKind(k domain.ActivityKind) actOpt {
	return func(a *domain.Activity) { a.Config.Kind = k }
}

func withSlots(slots ...string) actOpt {
	return func(a *domain.Activity) { a.Config.Slots = slots }
}

func withTarget(target float64, agg domain.Aggregation) actOpt {
	return func(a *domain.Activity) {
		a.Config.Kind = domain.KindCumulative
		a.Config.Target = &target
		a.Config.Aggregation = agg
	}
}

func withParent(id string) actOpt {
	return func(a *domain.Activity) { a.Config.ParentID = &id }
}

func withStopped(at time.Time) actOpt {
	return func(a *domain.Activity) { a.StoppedAt = &at }
}

func newAct(id string, created time.Time, sched domain.Schedule, opts ...actOpt) *domain.Activity {
	a := &domain.Activity{
		ID:          id,
		Name:        id,
		CreatedDate: domain.Day(created),
		Config:      domain.StructuralConfig{Schedule: sched, Kind: domain.KindCheckbox},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

var logSeq int

func newLog(activityID string, d time.Time, slot string, status domain.LogStatus) *domain.ActivityLog {
	logSeq++
	return &domain.ActivityLog{
		ID:         fmt.Sprintf("log-%d", logSeq),
		ActivityID: activityID,
		Date:       domain.Day(d),
		Slot:       slot,
		Status:     status,
		Source:     domain.SourceManual,
		CreatedAt:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(logSeq) * time.Second),
	}
}

func done(activityID string, d time.Time, slot string) *domain.ActivityLog {
	return newLog(activityID, d, slot, domain.LogCompleted)
}

func doneValue(activityID string, d time.Time, slot string, v float64) *domain.ActivityLog {
	l := newLog(activityID, d, slot, domain.LogCompleted)
	l.Value = &v
	return l
}

func skip(activityID string, d time.Time, slot string) *domain.ActivityLog {
	l := newLog(activityID, d, slot, domain.LogSkipped)
	l.SkipReason = "sick"
	return l
}

func eval(acts []*domain.Activity, logs []*domain.ActivityLog, extra ...func(*Dataset)) *Evaluator {
	ds := Dataset{Activities: acts, Logs: logs}
	for _, fn := range extra {
		fn(&ds)
	}
	return NewEvaluator(ds, Options{})
}

func vacations(days ...time.Time) func(*Dataset) {
	return func(ds *Dataset) {
		for _, d := range days {
			ds.Vacations = append(ds.Vacations, domain.VacationDay{Date: domain.Day(d)})
		}
	}
}

func snapshots(snaps ...*domain.ConfigSnapshot) func(*Dataset) {
	return func(ds *Dataset) { ds.Snapshots = append(ds.Snapshots, snaps...) }
}

func TestFixtureWednesday(t *testing.T) {
	require.Equal(t, time.Wednesday, wed.Weekday())
}

func TestNewEvaluator_LaterLogReplacesEarlier(t *testing.T) {
	a := newAct("a", day(-10), domain.DailySchedule())
	first := done("a", wed, "")
	second := skip("a", wed, "")

	e := eval([]*domain.Activity{a}, []*domain.ActivityLog{second, first})
	// Order of input does not matter, CreatedAt decides.
	assert.True(t, e.IsSlotSkipped(a, wed, ""))
	assert.False(t, e.IsSlotCompleted(a, wed, ""))
	assert.Len(t, e.LogsOn("a", wed), 1)
}

func TestNewEvaluator_DefaultsLookback(t *testing.T) {
	e := NewEvaluator(Dataset{}, Options{})
	assert.Equal(t, DefaultCarryForwardLookbackDays, e.opts.CarryForwardLookbackDays)
}

func TestActivities_OrderedByName(t *testing.T) {
	b := newAct("b", wed, domain.DailySchedule())
	b.Name = "Yoga"
	a := newAct("a", wed, domain.DailySchedule())
	a.Name = "Meditate"

	e := eval([]*domain.Activity{b, a}, nil)
	acts := e.Activities()
	require.Len(t, acts, 2)
	assert.Equal(t, "Meditate", acts[0].Name)
	assert.Equal(t, "Yoga", acts[1].Name)
}

func TestResolve_SnapshotRoundTrip(t *testing.T) {
	created := day(-30)
	a := newAct("a", created, domain.DailySchedule())
	t2 := day(-10)
	s1 := a.Config.Clone()
	s2 := domain.StructuralConfig{Schedule: domain.WeeklySchedule(time.Monday), Kind: domain.KindCheckbox}

	snap, err := PlanSnapshot(a, nil, t2, time.Now())
	require.NoError(t, err)
	snap.ID = "snap-1"
	assert.Equal(t, created, snap.EffectiveFrom)
	assert.Equal(t, day(-11), snap.EffectiveUntil)
	a.ApplyStructural(s2, time.Now())

	e := eval([]*domain.Activity{a}, nil, snapshots(snap))
	for _, d := range domain.DateRange(created, day(10)) {
		got, ok := e.Resolve("a", d)
		require.True(t, ok)
		if d.Before(t2) {
			assert.Equal(t, s1, got, "before edit on %s", domain.FormatDate(d))
		} else {
			assert.Equal(t, s2, got, "after edit on %s", domain.FormatDate(d))
		}
	}
	assert.Equal(t, s1, ResolveConfig(a, []*domain.ConfigSnapshot{snap}, day(-20)))
	assert.Equal(t, s2, ResolveConfig(a, []*domain.ConfigSnapshot{snap}, t2))
}

func TestPlanSnapshot_ChainsWindows(t *testing.T) {
	a := newAct("a", day(-30), domain.DailySchedule())
	first, err := PlanSnapshot(a, nil, day(-20), time.Now())
	require.NoError(t, err)
	first.ID = "s1"

	a.ApplyStructural(domain.StructuralConfig{Schedule: domain.WeeklySchedule(time.Friday), Kind: domain.KindCheckbox}, time.Now())
	second, err := PlanSnapshot(a, []*domain.ConfigSnapshot{first}, day(-5), time.Now())
	require.NoError(t, err)
	second.ID = "s2"

	assert.Equal(t, day(-20), second.EffectiveFrom)
	assert.Equal(t, day(-6), second.EffectiveUntil)
	assert.Equal(t, domain.ScheduleWeekly, second.Config.Schedule.Type)
	assert.NoError(t, ValidateSnapshots(a, []*domain.ConfigSnapshot{second, first}))
}

func TestPlanSnapshot_InvalidWindow(t *testing.T) {
	a := newAct("a", wed, domain.DailySchedule())

	_, err := PlanSnapshot(a, nil, wed, time.Now())
	assert.ErrorIs(t, err, ErrInvalidSnapshotWindow)

	first, err := PlanSnapshot(a, nil, day(5), time.Now())
	require.NoError(t, err)
	// A second edit on the same day has nothing left to freeze.
	_, err = PlanSnapshot(a, []*domain.ConfigSnapshot{first}, day(5), time.Now())
	assert.ErrorIs(t, err, ErrInvalidSnapshotWindow)
}

func TestValidateSnapshots_RejectsGapsAndOverlaps(t *testing.T) {
	a := newAct("a", day(-30), domain.DailySchedule())
	cfg := a.Config.Clone()

	gap := []*domain.ConfigSnapshot{
		{ID: "s1", ActivityID: "a", Config: cfg, EffectiveFrom: day(-30), EffectiveUntil: day(-20)},
		{ID: "s2", ActivityID: "a", Config: cfg, EffectiveFrom: day(-15), EffectiveUntil: day(-10)},
	}
	assert.Error(t, ValidateSnapshots(a, gap))

	overlap := []*domain.ConfigSnapshot{
		{ID: "s1", ActivityID: "a", Config: cfg, EffectiveFrom: day(-30), EffectiveUntil: day(-20)},
		{ID: "s2", ActivityID: "a", Config: cfg, EffectiveFrom: day(-25), EffectiveUntil: day(-10)},
	}
	assert.Error(t, ValidateSnapshots(a, overlap))

	foreign := []*domain.ConfigSnapshot{
		{ID: "s1", ActivityID: "b", Config: cfg, EffectiveFrom: day(-30), EffectiveUntil: day(-20)},
	}
	assert.Error(t, ValidateSnapshots(a, foreign))

	inverted := []*domain.ConfigSnapshot{
		{ID: "s1", ActivityID: "a", Config: cfg, EffectiveFrom: day(-30), EffectiveUntil: day(-31)},
	}
	assert.ErrorIs(t, ValidateSnapshots(a, inverted), ErrInvalidSnapshotWindow)

	assert.NoError(t, ValidateSnapshots(a, nil))
}

func TestResolve_UnknownActivity(t *testing.T) {
	e := eval(nil, nil)
	_, ok := e.Resolve("missing", wed)
	assert.False(t, ok)
}

func TestSessions_FromResolvedConfig(t *testing.T) {
	a := newAct("a", day(-30), domain.DailySchedule(), withSlots("morning", "evening"))
	snap, err := PlanSnapshot(a, nil, day(-5), time.Now())
	require.NoError(t, err)
	a.Config.Slots = []string{"morning", "afternoon", "evening"}

	e := eval([]*domain.Activity{a}, nil, snapshots(snap))

	assert.Equal(t, []string{"morning", "evening"}, e.ActiveSlots(a, day(-10)))
	assert.Equal(t, 2, e.SessionsPerDay(a, day(-10)))
	assert.Equal(t, 3, e.SessionsPerDay(a, wed))
	assert.Equal(t, []SessionUnit{
		{ActivityID: "a", Slot: "morning"},
		{ActivityID: "a", Slot: "afternoon"},
		{ActivityID: "a", Slot: "evening"},
	}, e.Expand(a, wed))
}

func TestSessions_SingleSession(t *testing.T) {
	tests := []struct {
		name  string
		slots []string
	}{
		{"no slots", nil},
		{"one slot", []string{"morning"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newAct("a", wed, domain.DailySchedule(), withSlots(tt.slots...))
			e := eval([]*domain.Activity{a}, nil)
			assert.Nil(t, e.ActiveSlots(a, wed))
			assert.Equal(t, 1, e.SessionsPerDay(a, wed))
			assert.False(t, e.IsMultiSession(a, wed))
			assert.Equal(t, []SessionUnit{{ActivityID: "a"}}, e.Expand(a, wed))
		})
	}
}
