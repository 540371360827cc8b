package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDay(t *testing.T) {
	day, err := ParseDay("2024-05-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC), day)

	_, err = ParseDay("15-05-2024")
	assert.Error(t, err)

	_, err = ParseDay("2024-5-15")
	assert.Error(t, err)

	_, err = ParseDay("")
	assert.Error(t, err)
}

func TestWeekBounds(t *testing.T) {
	tests := []struct {
		name      string
		date      string
		wantStart string
		wantEnd   string
	}{
		{name: "wednesday", date: "2024-05-15", wantStart: "2024-05-13", wantEnd: "2024-05-19"},
		{name: "monday is its own start", date: "2024-05-13", wantStart: "2024-05-13", wantEnd: "2024-05-19"},
		{name: "sunday belongs to the prior monday", date: "2024-05-19", wantStart: "2024-05-13", wantEnd: "2024-05-19"},
		{name: "week spanning a month boundary", date: "2024-06-01", wantStart: "2024-05-27", wantEnd: "2024-06-02"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			day, err := ParseDay(tt.date)
			require.NoError(t, err)
			start, end := WeekBounds(day)
			assert.Equal(t, tt.wantStart, FormatDay(start))
			assert.Equal(t, tt.wantEnd, FormatDay(end))
		})
	}
}

func TestMonthBounds(t *testing.T) {
	day, err := ParseDay("2024-02-10")
	require.NoError(t, err)
	start, end := MonthBounds(day)
	assert.Equal(t, "2024-02-01", FormatDay(start))
	assert.Equal(t, "2024-02-29", FormatDay(end))

	day, err = ParseDay("2023-02-10")
	require.NoError(t, err)
	_, end = MonthBounds(day)
	assert.Equal(t, "2023-02-28", FormatDay(end))

	day, err = ParseDay("2024-12-31")
	require.NoError(t, err)
	start, end = MonthBounds(day)
	assert.Equal(t, "2024-12-01", FormatDay(start))
	assert.Equal(t, "2024-12-31", FormatDay(end))
}

func TestDaysBetween(t *testing.T) {
	a, err := ParseDay("2024-05-13")
	require.NoError(t, err)
	b, err := ParseDay("2024-05-19")
	require.NoError(t, err)

	assert.Equal(t, 6, DaysBetween(a, b))
	assert.Equal(t, -6, DaysBetween(b, a))
	assert.Equal(t, 0, DaysBetween(a, a))
}
