package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSchedule_RoundTrip(t *testing.T) {
	cases := []string{
		"daily",
		"sticky",
		"weekly:mon,wed,fri",
		"monthly:1,15,31",
		"adhoc:2026-03-01",
	}
	for _, raw := range cases {
		s, err := ParseSchedule(raw)
		require.NoError(t, err, "parse %q", raw)
		assert.Equal(t, raw, s.String())
	}
}

func TestParseSchedule_NormalizesWeekdays(t *testing.T) {
	s, err := ParseSchedule("Weekly: Friday, mon, MON")
	require.NoError(t, err)
	assert.Equal(t, []time.Weekday{time.Monday, time.Friday}, s.Weekdays)
}

func TestParseSchedule_Invalid(t *testing.T) {
	cases := []string{"", "hourly", "weekly", "weekly:funday", "monthly:0", "monthly:32", "monthly:x", "adhoc:tomorrow"}
	for _, raw := range cases {
		_, err := ParseSchedule(raw)
		require.Error(t, err, "should reject %q", raw)
		assert.True(t, IsValidationError(err), "%q should be a validation error", raw)
	}
}

func TestSchedule_CloneDoesNotAlias(t *testing.T) {
	s := WeeklySchedule(time.Monday)
	c := s.Clone()
	c.Weekdays[0] = time.Sunday
	assert.Equal(t, time.Monday, s.Weekdays[0])
}

func TestFormatScheduleHuman(t *testing.T) {
	assert.Equal(t, "Daily", FormatScheduleHuman(DailySchedule()))
	assert.Equal(t, "Weekly: Mon, Wed", FormatScheduleHuman(WeeklySchedule(time.Wednesday, time.Monday)))
	assert.Equal(t, "Monthly: 1, 15", FormatScheduleHuman(MonthlySchedule(15, 1)))
	assert.Equal(t, "Once on 2026-03-01", FormatScheduleHuman(AdhocSchedule(time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC))))
}

func TestParseEditPolicy(t *testing.T) {
	p, err := ParseEditPolicy("future")
	require.NoError(t, err)
	assert.Equal(t, EditFutureOnly, p)

	p, err = ParseEditPolicy("all")
	require.NoError(t, err)
	assert.Equal(t, EditAllChanges, p)

	_, err = ParseEditPolicy("sometimes")
	assert.Error(t, err)
}
