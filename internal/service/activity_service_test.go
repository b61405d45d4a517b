package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alexanderramin/habitus/internal/app"
	"github.com/alexanderramin/habitus/internal/domain"
	"github.com/alexanderramin/habitus/internal/repository"
	"github.com/alexanderramin/habitus/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateActivity_Defaults(t *testing.T) {
	h := setupHarness(t)
	ctx := context.Background()

	a, err := h.activitySvc.Create(ctx, app.CreateActivityRequest{
		Name:   "  Stretch  ",
		Config: domain.StructuralConfig{Schedule: domain.DailySchedule(), Slots: []string{"Morning", " evening "}},
	})
	require.NoError(t, err)

	assert.Equal(t, "Stretch", a.Name)
	assert.Equal(t, domain.KindCheckbox, a.Config.Kind)
	assert.Equal(t, domain.AggregateSum, a.Config.Aggregation)
	assert.Equal(t, []string{"morning", "evening"}, a.Config.Slots)
	assert.Equal(t, today, a.CreatedDate, "created date defaults to the clock's day")

	got, err := h.activities.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.Config, got.Config)
}

func TestCreateActivity_Validation(t *testing.T) {
	h := setupHarness(t)
	ctx := context.Background()
	plain := h.seedActivity(t, "Plain")

	tests := []struct {
		name string
		req  app.CreateActivityRequest
	}{
		{"empty name", app.CreateActivityRequest{Config: domain.StructuralConfig{Schedule: domain.DailySchedule()}}},
		{"unknown kind", app.CreateActivityRequest{Name: "x", Config: domain.StructuralConfig{Schedule: domain.DailySchedule(), Kind: "bogus"}}},
		{"missing parent", app.CreateActivityRequest{Name: "x", Config: domain.StructuralConfig{
			Schedule: domain.DailySchedule(), ParentID: domain.StrPtr("nope"),
		}}},
		{"parent is not a container", app.CreateActivityRequest{Name: "x", Config: domain.StructuralConfig{
			Schedule: domain.DailySchedule(), ParentID: domain.StrPtr(plain.ID),
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.activitySvc.Create(ctx, tt.req)
			require.Error(t, err)
			assert.True(t, domain.IsValidationError(err), "got %v", err)
		})
	}
}

func TestCreateActivity_DuplicateNameIsCaseInsensitive(t *testing.T) {
	h := setupHarness(t)
	ctx := context.Background()
	h.seedActivity(t, "Meditate")

	_, err := h.activitySvc.Create(ctx, app.CreateActivityRequest{
		Name:   "MEDITATE",
		Config: domain.StructuralConfig{Schedule: domain.DailySchedule()},
	})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestResolve_ByIDOrName(t *testing.T) {
	h := setupHarness(t)
	ctx := context.Background()
	a := h.seedActivity(t, "Journal")

	byID, err := h.activitySvc.Resolve(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, byID.ID)

	byName, err := h.activitySvc.Resolve(ctx, "journal")
	require.NoError(t, err)
	assert.Equal(t, a.ID, byName.ID)

	_, err = h.activitySvc.Resolve(ctx, "nothing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUpdateDetails_LeavesStructureAlone(t *testing.T) {
	h := setupHarness(t)
	ctx := context.Background()
	a := h.seedActivity(t, "Walk", testutil.WithSlots("morning", "evening"))

	got, err := h.activitySvc.UpdateDetails(ctx, app.UpdateDetailsRequest{
		ActivityID:  a.ID,
		Name:        domain.StrPtr("Evening walk"),
		Description: domain.StrPtr("around the block"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Evening walk", got.Name)
	assert.Equal(t, "around the block", got.Description)
	assert.Equal(t, a.Config, got.Config)

	snaps, err := h.snapshots.ListByActivity(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, snaps, "cosmetic edits never snapshot")
}

func TestEditStructural_FutureOnlyPreservesHistory(t *testing.T) {
	h := setupHarness(t)
	ctx := context.Background()
	a := h.seedActivity(t, "Run")
	h.seedLog(t, a.ID, day(-3))

	res, err := h.activitySvc.EditStructuralConfig(ctx, app.EditStructuralRequest{
		ActivityID: a.ID,
		Config:     domain.StructuralConfig{Schedule: domain.WeeklySchedule(time.Friday)},
		Policy:     domain.EditFutureOnly,
	})
	require.NoError(t, err)
	require.NotNil(t, res.Snapshot)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, day(-10), res.Snapshot.EffectiveFrom)
	assert.Equal(t, day(-1), res.Snapshot.EffectiveUntil)
	assert.Equal(t, domain.ScheduleDaily, res.Snapshot.Config.Schedule.Type)

	e := h.evaluator(t)
	stored, ok := e.Activity(a.ID)
	require.True(t, ok)
	// day(-3) is a Sunday: due under the old daily config only.
	assert.True(t, e.IsScheduled(stored, day(-3)))
	assert.True(t, e.IsFullyCompleted(stored, day(-3)))
	assert.False(t, e.IsScheduled(stored, today))
	assert.True(t, e.IsScheduled(stored, day(2)))
}

func TestEditStructural_AllChangesRewritesHistory(t *testing.T) {
	h := setupHarness(t)
	ctx := context.Background()
	a := h.seedActivity(t, "Run")

	res, err := h.activitySvc.EditStructuralConfig(ctx, app.EditStructuralRequest{
		ActivityID: a.ID,
		Config:     domain.StructuralConfig{Schedule: domain.WeeklySchedule(time.Friday)},
		Policy:     domain.EditAllChanges,
	})
	require.NoError(t, err)
	assert.Nil(t, res.Snapshot)

	e := h.evaluator(t)
	stored, _ := e.Activity(a.ID)
	assert.False(t, e.IsScheduled(stored, day(-3)))
	assert.True(t, e.IsScheduled(stored, day(-5)), "a Friday")
}

func TestEditStructural_FallsBackWhenNoHistory(t *testing.T) {
	h := setupHarness(t)
	ctx := context.Background()
	a := h.seedActivity(t, "Fresh", testutil.WithCreatedDate(today))

	res, err := h.activitySvc.EditStructuralConfig(ctx, app.EditStructuralRequest{
		ActivityID: a.ID,
		Config:     domain.StructuralConfig{Schedule: domain.DailySchedule(), Slots: []string{"am", "pm"}},
	})
	require.NoError(t, err)
	assert.Nil(t, res.Snapshot)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "no history to preserve")
	assert.Equal(t, []string{"am", "pm"}, res.Activity.Config.Slots)
}

func TestEditStructural_SecondEditChainsSnapshots(t *testing.T) {
	h := setupHarness(t)
	ctx := context.Background()
	a := h.seedActivity(t, "Read")

	_, err := h.activitySvc.EditStructuralConfig(ctx, app.EditStructuralRequest{
		ActivityID: a.ID,
		Config:     domain.StructuralConfig{Schedule: domain.WeeklySchedule(time.Monday)},
		EditDate:   day(-5),
	})
	require.NoError(t, err)
	res, err := h.activitySvc.EditStructuralConfig(ctx, app.EditStructuralRequest{
		ActivityID: a.ID,
		Config:     domain.StructuralConfig{Schedule: domain.WeeklySchedule(time.Friday)},
	})
	require.NoError(t, err)
	require.NotNil(t, res.Snapshot)
	assert.Equal(t, day(-5), res.Snapshot.EffectiveFrom)
	assert.Equal(t, day(-1), res.Snapshot.EffectiveUntil)

	snaps, err := h.snapshots.ListByActivity(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, snaps, 2)
}

func TestEditStructural_UnchangedIsNoop(t *testing.T) {
	h := setupHarness(t)
	ctx := context.Background()
	a := h.seedActivity(t, "Same")

	res, err := h.activitySvc.EditStructuralConfig(ctx, app.EditStructuralRequest{
		ActivityID: a.ID,
		Config:     a.Config,
	})
	require.NoError(t, err)
	assert.Nil(t, res.Snapshot)
	assert.Contains(t, res.Warnings, "structural config unchanged")
}

func TestEditStructural_ContainerLosingKindWarns(t *testing.T) {
	h := setupHarness(t)
	ctx := context.Background()
	routine := h.seedActivity(t, "Routine", testutil.WithKind(domain.KindContainer))
	h.seedActivity(t, "Floss", testutil.WithParent(routine.ID))

	res, err := h.activitySvc.EditStructuralConfig(ctx, app.EditStructuralRequest{
		ActivityID: routine.ID,
		Config:     domain.StructuralConfig{Schedule: domain.DailySchedule()},
		Policy:     domain.EditAllChanges,
	})
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "1 child activities")
}

func TestEditStructural_RejectsParentLoop(t *testing.T) {
	h := setupHarness(t)
	ctx := context.Background()
	outer := h.seedActivity(t, "Outer", testutil.WithKind(domain.KindContainer))
	inner := h.seedActivity(t, "Inner", testutil.WithKind(domain.KindContainer), testutil.WithParent(outer.ID))

	_, err := h.activitySvc.EditStructuralConfig(ctx, app.EditStructuralRequest{
		ActivityID: outer.ID,
		Config: domain.StructuralConfig{
			Schedule: domain.DailySchedule(), Kind: domain.KindContainer, ParentID: domain.StrPtr(inner.ID),
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loops back")
}

func TestEditStructural_RollsBackSnapshotWhenUpdateFails(t *testing.T) {
	h := setupHarness(t)
	ctx := context.Background()
	a := h.seedActivity(t, "Atomic")

	// Exec #1 creates the snapshot, exec #2 updates the activity.
	failUoW := &testutil.FailOnNthExecUoW{DB: h.db, FailOn: 2, Err: fmt.Errorf("injected update failure")}
	svc := NewActivityService(h.activities, h.snapshots, failUoW, fixedClock)

	_, err := svc.EditStructuralConfig(ctx, app.EditStructuralRequest{
		ActivityID: a.ID,
		Config:     domain.StructuralConfig{Schedule: domain.WeeklySchedule(time.Friday)},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected update failure")

	snaps, err := h.snapshots.ListByActivity(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, snaps, "snapshot must not outlive a failed edit")
	got, err := h.activities.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ScheduleDaily, got.Config.Schedule.Type)
}

func TestPauseResume(t *testing.T) {
	h := setupHarness(t)
	ctx := context.Background()
	a := h.seedActivity(t, "Swim")

	paused, err := h.activitySvc.Pause(ctx, a.ID, time.Time{})
	require.NoError(t, err)
	require.NotNil(t, paused.StoppedAt)
	assert.Equal(t, today, *paused.StoppedAt)

	e := h.evaluator(t)
	stored, _ := e.Activity(a.ID)
	assert.False(t, e.ShouldShow(stored, today))
	assert.True(t, e.IsScheduled(stored, day(-1)))

	_, err = h.activitySvc.Pause(ctx, a.ID, day(-20))
	assert.True(t, domain.IsValidationError(err), "cannot pause before creation")

	resumed, err := h.activitySvc.Resume(ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, resumed.StoppedAt)
}

func TestDelete_CascadesAndDetachesChildren(t *testing.T) {
	h := setupHarness(t)
	ctx := context.Background()
	routine := h.seedActivity(t, "Routine", testutil.WithKind(domain.KindContainer))
	child := h.seedActivity(t, "Teeth", testutil.WithParent(routine.ID))
	h.seedLog(t, child.ID, day(-1))

	require.NoError(t, h.activitySvc.Delete(ctx, routine.ID))

	_, err := h.activities.GetByID(ctx, routine.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	got, err := h.activities.GetByID(ctx, child.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Config.ParentID)

	logs, err := h.logs.ListByActivity(ctx, child.ID)
	require.NoError(t, err)
	assert.Len(t, logs, 1, "the child's own history is kept")

	assert.ErrorIs(t, h.activitySvc.Delete(ctx, routine.ID), repository.ErrNotFound)
}
