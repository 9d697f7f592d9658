package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expectErr bool
	}{
		{name: "Valid date", raw: "2024-06-10"},
		{name: "Leap day", raw: "2024-02-29"},
		{name: "Non-leap Feb 29", raw: "2023-02-29", expectErr: true},
		{name: "Month out of range", raw: "2024-13-01", expectErr: true},
		{name: "Missing padding", raw: "2024-6-1", expectErr: true},
		{name: "Empty", raw: "", expectErr: true},
		{name: "Time instead of date", raw: "2024-06-10T00:00:00Z", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := ParseDate(tc.raw)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, Date(tc.raw), d)
			assert.True(t, d.Valid())
		})
	}
}

func TestWeekOf(t *testing.T) {
	testCases := []struct {
		name   string
		date   Date
		monday Date
	}{
		{name: "Monday maps to itself", date: "2024-06-10", monday: "2024-06-10"},
		{name: "Midweek", date: "2024-06-12", monday: "2024-06-10"},
		{name: "Sunday belongs to the preceding Monday", date: "2024-06-16", monday: "2024-06-10"},
		{name: "Week spanning a month boundary", date: "2024-07-01", monday: "2024-07-01"},
		{name: "Week spanning a year boundary", date: "2025-01-01", monday: "2024-12-30"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			week := WeekOf(tc.date)
			require.Len(t, week, 7)
			assert.Equal(t, tc.monday, week[0])
			assert.Equal(t, time.Monday, week[0].Time().Weekday())

			// Seven consecutive dates containing the input.
			found := false
			for i, d := range week {
				if i > 0 {
					assert.Equal(t, week[i-1].AddDays(1), d)
				}
				if d == tc.date {
					found = true
				}
			}
			assert.True(t, found, "input date falls inside its own week")
		})
	}
}

func TestAddDays(t *testing.T) {
	assert.Equal(t, Date("2024-03-01"), Date("2024-02-29").AddDays(1))
	assert.Equal(t, Date("2024-02-29"), Date("2024-03-01").AddDays(-1))
	assert.Equal(t, Date("2025-01-01"), Date("2024-12-31").AddDays(1))
}
