package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkload_Empty(t *testing.T) {
	w := NewWorkload()

	assert.Equal(t, 0, w.Streak("alice"))
	assert.Equal(t, 0.0, w.WeeklyHours("alice", date("2024-01-10")))
	assert.Equal(t, 0.0, w.MonthlyHours("alice", date("2024-01-10")))
	assert.False(t, w.IsAssigned("alice", date("2024-01-10")))

	_, worked := w.LastWorked("alice")
	assert.False(t, worked)
}

func TestWorkload_UpdateAccumulatesHours(t *testing.T) {
	w := NewWorkload()

	// Sun 7 Jan 2024 through Sat 13 Jan 2024 is one week
	w.Update("alice", date("2024-01-07"), 8*60)
	w.Update("alice", date("2024-01-13"), 4*60)
	// Sunday 14th starts the next week
	w.Update("alice", date("2024-01-14"), 6*60)

	assert.Equal(t, 12.0, w.WeeklyHours("alice", date("2024-01-10")))
	assert.Equal(t, 6.0, w.WeeklyHours("alice", date("2024-01-14")))
	assert.Equal(t, 18.0, w.MonthlyHours("alice", date("2024-01-31")))
	assert.Equal(t, 0.0, w.MonthlyHours("alice", date("2024-02-01")))

	// Other staff are unaffected
	assert.Equal(t, 0.0, w.WeeklyHours("bob", date("2024-01-10")))
}

func TestWorkload_WeekSpanningMonths(t *testing.T) {
	w := NewWorkload()

	// Wed 31 Jan and Thu 1 Feb 2024 share a week but not a month
	w.Update("alice", date("2024-01-31"), 8*60)
	w.Update("alice", date("2024-02-01"), 8*60)

	assert.Equal(t, 16.0, w.WeeklyHours("alice", date("2024-02-01")))
	assert.Equal(t, 8.0, w.MonthlyHours("alice", date("2024-01-31")))
	assert.Equal(t, 8.0, w.MonthlyHours("alice", date("2024-02-01")))
}

func TestWorkload_StreakIncrementsAndResets(t *testing.T) {
	w := NewWorkload()

	w.Update("alice", date("2024-01-01"), 60)
	assert.Equal(t, 1, w.Streak("alice"))

	w.Update("alice", date("2024-01-02"), 60)
	w.Update("alice", date("2024-01-03"), 60)
	assert.Equal(t, 3, w.Streak("alice"))

	// Gap of a day resets
	w.Update("alice", date("2024-01-05"), 60)
	assert.Equal(t, 1, w.Streak("alice"))

	last, worked := w.LastWorked("alice")
	assert.True(t, worked)
	assert.Equal(t, date("2024-01-05"), last)
}

func TestWorkload_StreakAcrossMonthBoundary(t *testing.T) {
	w := NewWorkload()

	w.Update("alice", date("2024-02-28"), 60)
	w.Update("alice", date("2024-02-29"), 60)
	w.Update("alice", date("2024-03-01"), 60)

	assert.Equal(t, 3, w.Streak("alice"))
}

func TestWorkload_AssignedDatesAndRuns(t *testing.T) {
	w := NewWorkload()

	w.Update("alice", date("2024-01-02"), 60)
	w.Update("alice", date("2024-01-03"), 60)
	w.Update("alice", date("2024-01-05"), 60)
	w.Update("alice", date("2024-01-06"), 60)

	assert.True(t, w.IsAssigned("alice", date("2024-01-03")))
	assert.False(t, w.IsAssigned("alice", date("2024-01-04")))

	assert.Equal(t, 2, w.RunBefore("alice", date("2024-01-04")))
	assert.Equal(t, 2, w.RunAfter("alice", date("2024-01-04")))
	assert.Equal(t, 0, w.RunBefore("alice", date("2024-01-02")))
	assert.Equal(t, 0, w.RunAfter("alice", date("2024-01-06")))
}
