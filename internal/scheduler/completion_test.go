package scheduler

import (
	"testing"
	"time"

	"github.com/alexanderramin/habitus/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsScheduled_Table(t *testing.T) {
	created := day(-60)
	tests := []struct {
		name  string
		sched domain.Schedule
		opts  []actOpt
		date  time.Time
		want  bool
	}{
		{"daily", domain.DailySchedule(), nil, wed, true},
		{"before created", domain.DailySchedule(), nil, day(-61), false},
		{"on stopped day", domain.DailySchedule(), []actOpt{withStopped(wed)}, wed, false},
		{"day before stopped", domain.DailySchedule(), []actOpt{withStopped(wed)}, day(-1), true},
		{"weekly match", domain.WeeklySchedule(time.Monday, time.Wednesday), nil, wed, true},
		{"weekly miss", domain.WeeklySchedule(time.Monday, time.Wednesday), nil, day(1), false},
		{"monthly match", domain.MonthlySchedule(1, 3), nil, wed, true},
		{"monthly miss", domain.MonthlySchedule(1, 15), nil, wed, false},
		{"adhoc match", domain.AdhocSchedule(wed), nil, wed, true},
		{"adhoc miss", domain.AdhocSchedule(wed), nil, day(1), false},
		{"sticky without logs", domain.StickySchedule(), nil, wed, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newAct("a", created, tt.sched, tt.opts...)
			e := eval([]*domain.Activity{a}, nil)
			assert.Equal(t, tt.want, e.IsScheduled(a, tt.date))
		})
	}
}

func TestIsScheduled_NilActivity(t *testing.T) {
	e := eval(nil, nil)
	assert.False(t, e.IsScheduled(nil, wed))
	assert.False(t, e.ShouldShow(nil, wed))
}

func TestIsScheduled_StickyUntilFirstCompletion(t *testing.T) {
	a := newAct("a", day(-10), domain.StickySchedule())
	e := eval([]*domain.Activity{a}, []*domain.ActivityLog{
		skip("a", day(-5), ""),
		done("a", day(-3), ""),
		done("a", day(2), ""),
	})

	assert.True(t, e.IsScheduled(a, day(-10)))
	assert.True(t, e.IsScheduled(a, day(-5)), "a skip does not clear the backlog")
	assert.True(t, e.IsScheduled(a, day(-3)), "due on the completion day itself")
	assert.False(t, e.IsScheduled(a, day(-2)))
	assert.False(t, e.IsScheduled(a, day(5)))
}

func TestIsScheduled_UsesHistoricalSchedule(t *testing.T) {
	a := newAct("a", day(-30), domain.DailySchedule())
	snap, err := PlanSnapshot(a, nil, day(-7), time.Now())
	require.NoError(t, err)
	a.ApplyStructural(domain.StructuralConfig{Schedule: domain.WeeklySchedule(time.Friday), Kind: domain.KindCheckbox}, time.Now())

	e := eval([]*domain.Activity{a}, nil, snapshots(snap))
	assert.True(t, e.IsScheduled(a, day(-10)), "Sunday under the old daily schedule")
	assert.False(t, e.IsScheduled(a, wed), "Wednesday under the new Friday schedule")
	assert.True(t, e.IsScheduled(a, day(2)))
}

func TestIsFullyCompleted_MultiSessionNeedsAllSlots(t *testing.T) {
	a := newAct("a", day(-5), domain.DailySchedule(), withSlots("morning", "afternoon", "evening"))

	e := eval([]*domain.Activity{a}, []*domain.ActivityLog{done("a", wed, "morning")})
	require.Equal(t, 3, e.SessionsPerDay(a, wed))
	assert.True(t, e.IsSlotCompleted(a, wed, "morning"))
	assert.False(t, e.IsSlotCompleted(a, wed, "evening"))
	assert.False(t, e.IsFullyCompleted(a, wed))

	e = eval([]*domain.Activity{a}, []*domain.ActivityLog{
		done("a", wed, "morning"),
		done("a", wed, "afternoon"),
		done("a", wed, "evening"),
	})
	assert.True(t, e.IsFullyCompleted(a, wed))
}

func TestIsFullyCompleted_SingleSessionKinds(t *testing.T) {
	for _, kind := range []domain.ActivityKind{domain.KindCheckbox, domain.KindValue, domain.KindMetric} {
		t.Run(string(kind), func(t *testing.T) {
			a := newAct("a", day(-5), domain.DailySchedule(), withKind(kind))
			e := eval([]*domain.Activity{a}, []*domain.ActivityLog{doneValue("a", wed, "", 7)})
			assert.True(t, e.IsFullyCompleted(a, wed))
			assert.False(t, e.IsFullyCompleted(a, day(-1)))
		})
	}
}

func TestIsFullyCompleted_SingleSessionAcceptsSlottedLog(t *testing.T) {
	a := newAct("a", day(-5), domain.DailySchedule())
	e := eval([]*domain.Activity{a}, []*domain.ActivityLog{done("a", wed, "morning")})
	assert.True(t, e.IsFullyCompleted(a, wed))
}

func TestCumulative(t *testing.T) {
	tests := []struct {
		name       string
		agg        domain.Aggregation
		values     []float64
		wantFull   bool
		wantCredit float64
	}{
		{"sum reaches target", domain.AggregateSum, []float64{3, 5}, true, 1},
		{"sum short of target", domain.AggregateSum, []float64{2, 1}, false, 0.375},
		{"average reaches target", domain.AggregateAverage, []float64{8, 10}, true, 1},
		{"average short of target", domain.AggregateAverage, []float64{2, 6}, false, 0.5},
		{"overshoot caps at one", domain.AggregateSum, []float64{40}, true, 1},
		{"nothing logged", domain.AggregateSum, nil, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newAct("water", day(-5), domain.DailySchedule(), withTarget(8, tt.agg))
			var logs []*domain.ActivityLog
			for i, v := range tt.values {
				// Slot-tagged entries left by an earlier multi-session config all
				// feed the aggregate of a single-session day.
				logs = append(logs, doneValue("water", wed, string(rune('a'+i)), v))
			}
			e := eval([]*domain.Activity{a}, logs)
			s := e.DayScore(a, wed)
			assert.Equal(t, tt.wantFull, s.FullyCompleted)
			assert.InDelta(t, tt.wantCredit, s.Credit, 1e-9)
			assert.Equal(t, 1, s.Units)
		})
	}
}

func TestProgress(t *testing.T) {
	a := newAct("water", day(-5), domain.DailySchedule(), withTarget(8, domain.AggregateAverage))
	e := eval([]*domain.Activity{a}, []*domain.ActivityLog{
		doneValue("water", wed, "a", 4),
		doneValue("water", wed, "b", 6),
		skip("water", day(-1), ""),
	})

	v, ok := e.Progress(a, wed)
	assert.True(t, ok)
	assert.InDelta(t, 5.0, v, 1e-9)

	_, ok = e.Progress(a, day(-1))
	assert.False(t, ok, "skips carry no value")
}

func TestCumulative_WithoutTargetExcluded(t *testing.T) {
	a := newAct("steps", day(-5), domain.DailySchedule(), withKind(domain.KindCumulative))
	b := newAct("read", day(-5), domain.DailySchedule())
	e := eval([]*domain.Activity{a, b}, []*domain.ActivityLog{
		doneValue("steps", wed, "", 12000),
		done("read", wed, ""),
	})

	assert.True(t, e.DayScore(a, wed).Excluded)
	assert.False(t, e.IsFullyCompleted(a, wed))

	st := e.CompletionStatus(wed)
	assert.Equal(t, 1, st.Total)
	assert.InDelta(t, 1.0, st.Rate, 1e-9)
}

func TestCumulative_MultiSessionWithoutTargetExcluded(t *testing.T) {
	a := newAct("steps", day(-5), domain.DailySchedule(), withKind(domain.KindCumulative), withSlots("am", "pm"))
	e := eval([]*domain.Activity{a}, []*domain.ActivityLog{doneValue("steps", wed, "am", 4000)})

	assert.True(t, e.DayScore(a, wed).Excluded)
	st := e.CompletionStatus(wed)
	assert.Zero(t, st.Total)
	assert.Zero(t, st.Rate)
	_, ok := e.CarriedForwardDate(a, wed)
	assert.False(t, ok)
}

func TestIsFullySkipped(t *testing.T) {
	a := newAct("a", day(-5), domain.DailySchedule(), withSlots("morning", "evening"))

	tests := []struct {
		name        string
		logs        []*domain.ActivityLog
		wantSkipped bool
		wantDone    bool
	}{
		{"all skipped", []*domain.ActivityLog{skip("a", wed, "morning"), skip("a", wed, "evening")}, true, false},
		{"one skipped one open", []*domain.ActivityLog{skip("a", wed, "morning")}, false, false},
		{"one skipped one completed", []*domain.ActivityLog{skip("a", wed, "morning"), done("a", wed, "evening")}, false, false},
		{"nothing", nil, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := eval([]*domain.Activity{a}, tt.logs)
			assert.Equal(t, tt.wantSkipped, e.IsFullySkipped(a, wed))
			assert.Equal(t, tt.wantDone, e.IsFullyCompleted(a, wed))
		})
	}
}

func TestPartialSkip_RemovedFromDenominator(t *testing.T) {
	a := newAct("a", day(-5), domain.DailySchedule(), withSlots("morning", "evening"))
	e := eval([]*domain.Activity{a}, []*domain.ActivityLog{skip("a", wed, "morning"), done("a", wed, "evening")})

	s := e.DayScore(a, wed)
	assert.Equal(t, 1, s.Units)
	assert.Equal(t, 1, s.Skipped)
	assert.InDelta(t, 1.0, s.Fraction(), 1e-9)
	assert.False(t, s.Resolved(), "mixed completion and skip stays pending")
}

func TestMeditateScenario(t *testing.T) {
	nextWed := day(7)
	require.Equal(t, time.Wednesday, nextWed.Weekday())
	meditate := newAct("meditate", day(-14), domain.WeeklySchedule(time.Wednesday), withSlots("morning", "evening"))
	meditate.Name = "Meditate"

	firstWeek := []*domain.ActivityLog{
		done("meditate", day(-14), "morning"),
		done("meditate", day(-14), "evening"),
		done("meditate", day(-7), "morning"),
		done("meditate", day(-7), "evening"),
		done("meditate", wed, "morning"),
	}
	e := eval([]*domain.Activity{meditate}, firstWeek)

	assert.False(t, e.IsFullyCompleted(meditate, wed))
	st := e.CompletionStatus(wed)
	assert.Equal(t, 2, st.Total)
	assert.InDelta(t, 1.0, st.Completed, 1e-9)
	assert.InDelta(t, 0.5, st.Rate, 1e-9)

	before := e.CurrentStreak(meditate, nextWed)

	withNext := append(append([]*domain.ActivityLog(nil), firstWeek...),
		done("meditate", nextWed, "morning"),
		done("meditate", nextWed, "evening"),
	)
	after := eval([]*domain.Activity{meditate}, withNext).CurrentStreak(meditate, nextWed)

	assert.Equal(t, 0, before, "the half-done Wednesday ends the streak")
	assert.Equal(t, before+1, after, "two slots on one day add one to the streak")
}

func TestContainerScenario_MorningRoutine(t *testing.T) {
	routine := newAct("routine", day(-10), domain.DailySchedule(), withKind(domain.KindContainer))
	routine.Name = "Morning Routine"
	stretch := newAct("stretch", day(-10), domain.DailySchedule(), withParent("routine"))
	brush := newAct("brush", day(-10), domain.DailySchedule(), withParent("routine"), withSlots("morning", "evening"))

	e := eval([]*domain.Activity{routine, stretch, brush}, []*domain.ActivityLog{
		done("stretch", wed, ""),
		done("brush", wed, "morning"),
	})

	s := e.DayScore(routine, wed)
	assert.Equal(t, 2, s.Units)
	assert.InDelta(t, 0.75, s.Fraction(), 1e-9)
	assert.False(t, e.IsFullyCompleted(routine, wed))

	st := e.CompletionStatus(wed)
	assert.Equal(t, 2, st.Total, "children are counted through the container only")
	assert.InDelta(t, 0.75, st.Rate, 1e-9)
}

func TestContainer_NoDueChildrenIsNeverComplete(t *testing.T) {
	routine := newAct("routine", day(-10), domain.DailySchedule(), withKind(domain.KindContainer))
	weekend := newAct("weekend", day(-10), domain.WeeklySchedule(time.Saturday), withParent("routine"))

	e := eval([]*domain.Activity{routine, weekend}, nil)
	assert.False(t, e.IsFullyCompleted(routine, wed))
	assert.True(t, e.DayScore(routine, wed).Excluded)
	assert.Equal(t, 0, e.CompletionStatus(wed).Total)

	empty := newAct("empty", day(-10), domain.DailySchedule(), withKind(domain.KindContainer))
	e = eval([]*domain.Activity{empty}, nil)
	assert.False(t, e.IsFullyCompleted(empty, wed))
}

func TestContainer_FullyCompletedAndSkipped(t *testing.T) {
	routine := newAct("routine", day(-10), domain.DailySchedule(), withKind(domain.KindContainer))
	a := newAct("a", day(-10), domain.DailySchedule(), withParent("routine"))
	b := newAct("b", day(-10), domain.DailySchedule(), withParent("routine"))
	acts := []*domain.Activity{routine, a, b}

	e := eval(acts, []*domain.ActivityLog{done("a", wed, ""), done("b", wed, "")})
	assert.True(t, e.IsFullyCompleted(routine, wed))

	e = eval(acts, []*domain.ActivityLog{skip("a", wed, ""), skip("b", wed, "")})
	assert.True(t, e.IsFullySkipped(routine, wed))
	assert.False(t, e.IsFullyCompleted(routine, wed))
}

func TestContainer_NestedRecursion(t *testing.T) {
	outer := newAct("outer", day(-10), domain.DailySchedule(), withKind(domain.KindContainer))
	inner := newAct("inner", day(-10), domain.DailySchedule(), withKind(domain.KindContainer), withParent("outer"))
	leaf1 := newAct("leaf1", day(-10), domain.DailySchedule(), withParent("inner"))
	leaf2 := newAct("leaf2", day(-10), domain.DailySchedule(), withParent("inner"))
	solo := newAct("solo", day(-10), domain.DailySchedule(), withParent("outer"))

	e := eval([]*domain.Activity{outer, inner, leaf1, leaf2, solo}, []*domain.ActivityLog{
		done("leaf1", wed, ""),
		done("solo", wed, ""),
	})
	assert.InDelta(t, 0.5, e.DayScore(inner, wed).Fraction(), 1e-9)
	assert.InDelta(t, 0.75, e.DayScore(outer, wed).Fraction(), 1e-9)
	assert.Equal(t, 2, e.CompletionStatus(wed).Total)
}

func TestChildrenAsOf_VersusCurrentChildren(t *testing.T) {
	routine := newAct("routine", day(-30), domain.DailySchedule(), withKind(domain.KindContainer))
	old := newAct("old", day(-30), domain.DailySchedule(), withParent("routine"), withStopped(day(-10)))
	late := newAct("late", day(-5), domain.DailySchedule(), withParent("routine"))

	moved := newAct("moved", day(-30), domain.DailySchedule(), withParent("routine"))
	snap, err := PlanSnapshot(moved, nil, day(-3), time.Now())
	require.NoError(t, err)
	moved.Config.ParentID = nil

	e := eval([]*domain.Activity{routine, old, late, moved}, nil, snapshots(snap))

	ids := func(acts []*domain.Activity) []string {
		var out []string
		for _, a := range acts {
			out = append(out, a.ID)
		}
		return out
	}
	assert.ElementsMatch(t, []string{"old", "moved"}, ids(e.ChildrenAsOf("routine", day(-20))))
	assert.ElementsMatch(t, []string{"late", "moved"}, ids(e.ChildrenAsOf("routine", day(-4))))
	assert.ElementsMatch(t, []string{"late"}, ids(e.ChildrenAsOf("routine", wed)))
	assert.ElementsMatch(t, []string{"old", "late"}, ids(e.CurrentChildren("routine")))

	assert.False(t, e.IsTopLevel(moved, day(-20)))
	assert.True(t, e.IsTopLevel(moved, wed))
}

func TestChildrenAsOf_OrphanIsTopLevel(t *testing.T) {
	orphan := newAct("orphan", day(-5), domain.DailySchedule(), withParent("deleted"))
	e := eval([]*domain.Activity{orphan}, []*domain.ActivityLog{done("orphan", wed, "")})

	assert.True(t, e.IsTopLevel(orphan, wed))
	st := e.CompletionStatus(wed)
	assert.Equal(t, 1, st.Total)
	assert.InDelta(t, 1.0, st.Rate, 1e-9)
}

func TestContainer_CycleIsSafe(t *testing.T) {
	a := newAct("a", day(-5), domain.DailySchedule(), withKind(domain.KindContainer), withParent("b"))
	b := newAct("b", day(-5), domain.DailySchedule(), withKind(domain.KindContainer), withParent("a"))
	e := eval([]*domain.Activity{a, b}, nil)

	assert.NotPanics(t, func() {
		e.DayScore(a, wed)
		e.CompletionStatus(wed)
	})
	assert.False(t, e.IsFullyCompleted(a, wed))
}

func TestCompletionStatus_AllSkippedRatesZero(t *testing.T) {
	a := newAct("a", day(-5), domain.DailySchedule())
	b := newAct("b", day(-5), domain.DailySchedule(), withSlots("morning", "evening"))
	e := eval([]*domain.Activity{a, b}, []*domain.ActivityLog{
		skip("a", wed, ""),
		skip("b", wed, "morning"),
		skip("b", wed, "evening"),
	})

	st := e.CompletionStatus(wed)
	assert.Equal(t, 0, st.Total)
	assert.Equal(t, 3, st.Skipped)
	assert.Zero(t, st.Rate)
}

func TestCompletionStatus_FlagsVacation(t *testing.T) {
	a := newAct("a", day(-5), domain.DailySchedule())
	e := eval([]*domain.Activity{a}, nil, vacations(wed))

	st := e.CompletionStatus(wed)
	assert.True(t, st.Vacation)
	assert.Equal(t, wed, st.Date)
	assert.False(t, e.CompletionStatus(day(1)).Vacation)
}
