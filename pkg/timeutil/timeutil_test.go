package timeutil

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWeekStartAndEnd(t *testing.T) {
	wednesday := date(2025, time.September, 3)
	assert.Equal(t, date(2025, time.September, 1), WeekStart(wednesday))
	assert.Equal(t, date(2025, time.September, 7), WeekEnd(wednesday))

	// Monday and Sunday map to themselves.
	assert.Equal(t, date(2025, time.September, 1), WeekStart(date(2025, time.September, 1)))
	assert.Equal(t, date(2025, time.September, 7), WeekEnd(date(2025, time.September, 7)))
}

func TestWeeksInRange(t *testing.T) {
	weeks := WeeksInRange(date(2025, time.September, 1), date(2025, time.September, 21))
	require.Len(t, weeks, 3)
	assert.Equal(t, date(2025, time.September, 1), weeks[0].Monday)
	assert.Equal(t, date(2025, time.September, 7), weeks[0].Sunday)
	assert.Equal(t, date(2025, time.September, 15), weeks[2].Monday)
	assert.Equal(t, date(2025, time.September, 21), weeks[2].Sunday)

	// Mid-week boundaries expand to full weeks.
	weeks = WeeksInRange(date(2025, time.September, 3), date(2025, time.September, 10))
	require.Len(t, weeks, 2)
	assert.Equal(t, date(2025, time.September, 1), weeks[0].Monday)
	assert.Equal(t, date(2025, time.September, 14), weeks[1].Sunday)
}

func TestIsFirstThursdayOfMonth(t *testing.T) {
	assert.True(t, IsFirstThursdayOfMonth(date(2025, time.September, 4)))
	assert.False(t, IsFirstThursdayOfMonth(date(2025, time.September, 11)), "second Thursday")
	assert.False(t, IsFirstThursdayOfMonth(date(2025, time.September, 5)), "Friday")
}

func TestClockArithmetic(t *testing.T) {
	start := NewClock(7, 0)
	assert.Equal(t, "09:00", start.AddHours(2).String())
	assert.Equal(t, "08:30", start.AddHours(1.5).String())

	// Wraps modulo 24h without tracking the date.
	late := NewClock(23, 0)
	assert.Equal(t, "01:00", late.AddHours(2).String())

	assert.InDelta(t, 4.5, NewClock(7, 0).HoursUntil(NewClock(11, 30)), 1e-9)
	// end before start counts as next day
	assert.InDelta(t, 2.0, NewClock(23, 0).HoursUntil(NewClock(1, 0)), 1e-9)
}

func TestClockJSONRoundTrip(t *testing.T) {
	raw, err := json.Marshal(NewClock(7, 5))
	require.NoError(t, err)
	assert.Equal(t, `"07:05"`, string(raw))

	var parsed ClockTime
	require.NoError(t, json.Unmarshal([]byte(`"16:00"`), &parsed))
	assert.Equal(t, ClockTime{Hour: 16, Minute: 0}, parsed)

	assert.Error(t, json.Unmarshal([]byte(`"25:00"`), &parsed))
	assert.Error(t, json.Unmarshal([]byte(`"0700"`), &parsed))
}
