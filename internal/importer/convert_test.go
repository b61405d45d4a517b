package importer

import (
	"testing"
	"time"

	"github.com/alexanderramin/habitus/internal/domain"
	"github.com/alexanderramin/habitus/internal/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var convertNow = time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

func TestConvert_MinimalDocument(t *testing.T) {
	b, err := Convert(validMinimalDocument(), convertNow)
	require.NoError(t, err)
	require.Len(t, b.Activities, 1)

	a := b.Activities[0]
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, "read", a.ID)
	assert.Equal(t, "Read", a.Name)
	assert.Equal(t, domain.ScheduleDaily, a.Config.Schedule.Type)
	assert.Equal(t, domain.AggregateSum, a.Config.Aggregation)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), a.CreatedDate)
	assert.Nil(t, a.StoppedAt)
}

func TestConvert_FullDocument(t *testing.T) {
	b, err := Convert(validFullDocument(), convertNow)
	require.NoError(t, err)
	require.Len(t, b.Activities, 4)

	byName := make(map[string]*domain.Activity)
	for _, a := range b.Activities {
		byName[a.Name] = a
	}
	routine, stretch := byName["Morning Routine"], byName["Stretch"]
	require.NotNil(t, routine)
	require.NotNil(t, stretch)
	assert.Equal(t, routine.ID, stretch.Config.Parent())

	require.Len(t, b.Snapshots, 1)
	assert.Equal(t, stretch.ID, b.Snapshots[0].ActivityID)
	assert.Equal(t, domain.ScheduleDaily, b.Snapshots[0].Config.Schedule.Type)

	require.Len(t, b.Logs, 5)
	for _, l := range b.Logs {
		if l.Slot == "morning" {
			assert.Equal(t, domain.SourceSync, l.Source)
		} else {
			assert.Equal(t, domain.SourceImport, l.Source)
		}
	}

	require.Len(t, b.Vacations, 1)
	assert.Equal(t, "trip", b.Vacations[0].Note)
}

func TestConvert_ParentsFirst(t *testing.T) {
	doc := validFullDocument()
	// Move the container to the end.
	doc.Activities = append(doc.Activities[1:], doc.Activities[0])

	b, err := Convert(doc, convertNow)
	require.NoError(t, err)
	seen := make(map[string]bool)
	for _, a := range b.Activities {
		if p := a.Config.Parent(); p != "" {
			assert.True(t, seen[p], "%s placed before its parent", a.Name)
		}
		seen[a.ID] = true
	}
}

func TestConvert_RejectsOverlappingSnapshots(t *testing.T) {
	doc := validFullDocument()
	doc.Activities[1].Snapshots = append(doc.Activities[1].Snapshots, SnapshotDoc{
		ConfigDoc:      ConfigDoc{Kind: "checkbox", Schedule: "weekly:sat"},
		EffectiveFrom:  "2026-01-20",
		EffectiveUntil: "2026-02-10",
	})
	_, err := Convert(doc, convertNow)
	assert.Error(t, err)
}

func TestBuild_RoundTrip(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			first, err := Convert(validFullDocument(), convertNow)
			require.NoError(t, err)

			data, err := Encode(Build(first, convertNow), format)
			require.NoError(t, err)
			decoded, err := Decode(data, format)
			require.NoError(t, err)
			require.Empty(t, ValidateDocument(decoded))

			second, err := Convert(decoded, convertNow)
			require.NoError(t, err)
			assertSameBundle(t, first, second)
		})
	}
}

// assertSameBundle compares two bundles up to ID assignment by checking that
// both evaluate identically, plus the raw fields the engine ignores.
func assertSameBundle(t *testing.T, want, got *Bundle) {
	t.Helper()
	require.Len(t, got.Activities, len(want.Activities))
	require.Len(t, got.Snapshots, len(want.Snapshots))
	require.Len(t, got.Logs, len(want.Logs))
	assert.Equal(t, want.Vacations, got.Vacations)

	ew := scheduler.NewEvaluator(datasetOf(want), scheduler.Options{})
	eg := scheduler.NewEvaluator(datasetOf(got), scheduler.Options{})

	gotByName := make(map[string]*domain.Activity)
	for _, a := range got.Activities {
		gotByName[a.Name] = a
	}
	for _, wa := range want.Activities {
		ga := gotByName[wa.Name]
		require.NotNil(t, ga, wa.Name)
		assert.Equal(t, wa.CreatedDate, ga.CreatedDate)
		assert.Equal(t, wa.StoppedAt, ga.StoppedAt)
		assert.Equal(t, wa.Config.Slots, ga.Config.Slots)
		assert.Equal(t, wa.Config.Schedule, ga.Config.Schedule)

		for _, d := range domain.DateRange(wa.CreatedDate, time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)) {
			assert.Equal(t, ew.IsScheduled(wa, d), eg.IsScheduled(ga, d), "%s on %s", wa.Name, domain.FormatDate(d))
			assert.Equal(t, ew.DayScore(wa, d), eg.DayScore(ga, d), "%s on %s", wa.Name, domain.FormatDate(d))
		}
	}
}

func datasetOf(b *Bundle) scheduler.Dataset {
	return scheduler.Dataset{
		Activities: b.Activities,
		Logs:       b.Logs,
		Snapshots:  b.Snapshots,
		Vacations:  b.Vacations,
	}
}
