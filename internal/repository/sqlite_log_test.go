package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/habitus/internal/domain"
	"github.com/alexanderramin/habitus/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logTestSetup(t *testing.T) (*SQLiteLogRepo, string) {
	t.Helper()
	db := testutil.NewTestDB(t)
	a := testutil.NewTestActivity("Pushups")
	require.NoError(t, NewSQLiteActivityRepo(db).Create(context.Background(), a))
	return NewSQLiteLogRepo(db), a.ID
}

var logDay = time.Date(2026, 6, 3, 0, 0, 0, 0, time.UTC)

func TestLogRepo_UpsertAndGet(t *testing.T) {
	repo, actID := logTestSetup(t)
	ctx := context.Background()

	l := testutil.NewTestLog(actID, logDay, testutil.WithValue(25))
	require.NoError(t, repo.Upsert(ctx, l))

	got, err := repo.GetByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, actID, got.ActivityID)
	assert.Equal(t, logDay, got.Date)
	assert.Equal(t, "", got.Slot)
	assert.True(t, got.IsCompleted())
	require.NotNil(t, got.Value)
	assert.InDelta(t, 25.0, *got.Value, 1e-9)
	assert.Equal(t, domain.SourceManual, got.Source)

	byKey, err := repo.GetByKey(ctx, actID, logDay, "")
	require.NoError(t, err)
	assert.Equal(t, l.ID, byKey.ID)
}

func TestLogRepo_UpsertReplacesSameKey(t *testing.T) {
	repo, actID := logTestSetup(t)
	ctx := context.Background()

	first := testutil.NewTestLog(actID, logDay, testutil.WithSlot("morning"))
	require.NoError(t, repo.Upsert(ctx, first))
	second := testutil.NewTestLog(actID, logDay, testutil.WithSlot("morning"), testutil.AsSkip("sick"))
	require.NoError(t, repo.Upsert(ctx, second))

	logs, err := repo.ListByActivity(ctx, actID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, second.ID, logs[0].ID)
	assert.True(t, logs[0].IsSkipped())
	assert.Equal(t, "sick", logs[0].SkipReason)
	assert.Nil(t, logs[0].Value)

	_, err = repo.GetByID(ctx, first.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLogRepo_SlotsAreSeparateKeys(t *testing.T) {
	repo, actID := logTestSetup(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, testutil.NewTestLog(actID, logDay, testutil.WithSlot("morning"))))
	require.NoError(t, repo.Upsert(ctx, testutil.NewTestLog(actID, logDay, testutil.WithSlot("evening"))))

	logs, err := repo.ListByActivity(ctx, actID)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "evening", logs[0].Slot)
}

func TestLogRepo_ListRangeInclusive(t *testing.T) {
	repo, actID := logTestSetup(t)
	ctx := context.Background()

	for i := -3; i <= 3; i++ {
		require.NoError(t, repo.Upsert(ctx, testutil.NewTestLog(actID, domain.AddDays(logDay, i))))
	}

	logs, err := repo.ListRange(ctx, domain.AddDays(logDay, -1), domain.AddDays(logDay, 1))
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, domain.AddDays(logDay, -1), logs[0].Date)
	assert.Equal(t, domain.AddDays(logDay, 1), logs[2].Date)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 7)
}

func TestLogRepo_Delete(t *testing.T) {
	repo, actID := logTestSetup(t)
	ctx := context.Background()

	l := testutil.NewTestLog(actID, logDay, testutil.WithSource(domain.SourceImport))
	require.NoError(t, repo.Upsert(ctx, l))
	require.NoError(t, repo.Delete(ctx, l.ID))

	_, err := repo.GetByKey(ctx, actID, logDay, "")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, l.ID), ErrNotFound)
}

func TestLogRepo_CascadeOnActivityDelete(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	acts := NewSQLiteActivityRepo(db)
	logs := NewSQLiteLogRepo(db)

	a := testutil.NewTestActivity("Stretch")
	require.NoError(t, acts.Create(ctx, a))
	require.NoError(t, logs.Upsert(ctx, testutil.NewTestLog(a.ID, logDay)))
	require.NoError(t, acts.Delete(ctx, a.ID))

	all, err := logs.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
