package caldate

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAndString(t *testing.T) {
	d, err := Parse("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 2024, Month: time.February, Day: 29}, d)
	assert.Equal(t, "2024-02-29", d.String())

	_, err = Parse("2023-02-29")
	assert.Error(t, err)

	_, err = Parse("29/02/2024")
	assert.Error(t, err)
}

func TestWeekday(t *testing.T) {
	tests := []struct {
		date     string
		expected time.Weekday
	}{
		{"1970-01-01", time.Thursday},
		{"2024-01-07", time.Sunday},
		{"2024-01-08", time.Monday},
		{"2025-10-18", time.Saturday},
		{"1969-12-31", time.Wednesday},
		{"2000-02-29", time.Tuesday},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			assert.Equal(t, tt.expected, MustParse(tt.date).Weekday())
		})
	}
}

func TestWeekdayMatchesTimePackage(t *testing.T) {
	start := MustParse("1999-12-01")
	for i := 0; i < 800; i++ {
		d := start.AddDays(i)
		assert.Equal(t, d.Time().Weekday(), d.Weekday(), d.String())
	}
}

func TestAddDays(t *testing.T) {
	tests := []struct {
		name     string
		date     string
		days     int
		expected string
	}{
		{"next day", "2024-01-01", 1, "2024-01-02"},
		{"month rollover", "2024-01-31", 1, "2024-02-01"},
		{"leap day", "2024-02-28", 1, "2024-02-29"},
		{"non leap year", "2023-02-28", 1, "2023-03-01"},
		{"year rollover", "2024-12-31", 1, "2025-01-01"},
		{"backwards across year", "2025-01-01", -1, "2024-12-31"},
		{"large jump", "2024-01-01", 366, "2025-01-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MustParse(tt.date).AddDays(tt.days).String())
		})
	}
}

func TestDaysUntil(t *testing.T) {
	a := MustParse("2024-03-09")
	b := MustParse("2024-03-11")
	assert.Equal(t, 2, a.DaysUntil(b))
	assert.Equal(t, -2, b.DaysUntil(a))
	assert.Equal(t, 0, a.DaysUntil(a))

	assert.Equal(t, 366, MustParse("2024-01-01").DaysUntil(MustParse("2025-01-01")))
	assert.Equal(t, 1, MustParse("1969-12-31").DaysUntil(MustParse("1970-01-01")))
}

func TestZeroDate(t *testing.T) {
	var d Date
	assert.True(t, d.IsZero())
	assert.False(t, MustParse("2024-01-01").IsZero())
}

func TestWeekStart(t *testing.T) {
	// Saturday belongs to the week starting the previous Sunday
	assert.Equal(t, "2024-01-07", MustParse("2024-01-13").WeekStart().String())
	// Sunday starts its own week
	assert.Equal(t, "2024-01-14", MustParse("2024-01-14").WeekStart().String())
	// Week spanning a month boundary
	assert.Equal(t, "2024-01-28", MustParse("2024-02-01").WeekStart().String())
}

func TestMonthOf(t *testing.T) {
	assert.Equal(t, Month{Year: 2024, Month: time.February}, MustParse("2024-02-29").MonthOf())
	assert.NotEqual(t, MustParse("2024-01-31").MonthOf(), MustParse("2024-02-01").MonthOf())
	assert.Equal(t, "2024-02", MustParse("2024-02-01").MonthOf().String())
}

func TestNewNormalises(t *testing.T) {
	assert.Equal(t, "2024-02-01", New(2024, time.January, 32).String())
	assert.Equal(t, "2024-03-01", New(2024, time.February, 30).String())
}

func TestRange(t *testing.T) {
	dates := Range(MustParse("2024-02-27"), MustParse("2024-03-02"))
	require.Len(t, dates, 5)
	assert.Equal(t, "2024-02-27", dates[0].String())
	assert.Equal(t, "2024-02-29", dates[2].String())
	assert.Equal(t, "2024-03-02", dates[4].String())

	assert.Nil(t, Range(MustParse("2024-03-02"), MustParse("2024-03-01")))
	assert.Len(t, Range(MustParse("2024-03-02"), MustParse("2024-03-02")), 1)
}

func TestCompare(t *testing.T) {
	a := MustParse("2024-01-01")
	b := MustParse("2024-01-02")
	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.True(t, a.Equal(MustParse("2024-01-01")))
	assert.Equal(t, 0, a.Compare(a))
}

func TestJSONRoundTrip(t *testing.T) {
	type wrapper struct {
		Date Date `json:"date"`
	}

	data, err := json.Marshal(wrapper{Date: MustParse("2024-05-06")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-05-06"}`, string(data))

	var w wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-12-25"}`), &w))
	assert.Equal(t, MustParse("2024-12-25"), w.Date)

	assert.Error(t, json.Unmarshal([]byte(`{"date":"not-a-date"}`), &w))
}

func TestParseMonth(t *testing.T) {
	m, err := ParseMonth("2024-02")
	require.NoError(t, err)
	assert.Equal(t, Month{Year: 2024, Month: time.February}, m)
	assert.Equal(t, "2024-02", m.String())

	_, err = ParseMonth("2024-13")
	assert.Error(t, err)
	_, err = ParseMonth("2024-02-01")
	assert.Error(t, err)
}

func TestMonthBounds(t *testing.T) {
	tests := []struct {
		month Month
		first string
		last  string
	}{
		{Month{2024, time.February}, "2024-02-01", "2024-02-29"},
		{Month{2023, time.February}, "2023-02-01", "2023-02-28"},
		{Month{2024, time.April}, "2024-04-01", "2024-04-30"},
		{Month{2024, time.December}, "2024-12-01", "2024-12-31"},
	}

	for _, tt := range tests {
		t.Run(tt.month.String(), func(t *testing.T) {
			assert.Equal(t, tt.first, tt.month.First().String())
			assert.Equal(t, tt.last, tt.month.Last().String())
		})
	}
}
