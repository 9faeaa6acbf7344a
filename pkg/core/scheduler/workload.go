package scheduler

import (
	"github.com/jakechorley/staff-rota/pkg/core/caldate"
)

type weekKey struct {
	staffID string
	week    caldate.Date
}

type monthKey struct {
	staffID string
	month   caldate.Month
}

// Workload is the run-scoped ledger of hours, streaks and booked dates per staff member.
//
// It is created empty (or seeded from existing assignments) at the start of a run and
// mutated only through Update, strictly in the order assignments are decided. Every
// eligibility decision reads it, so it must never be shared between concurrent runs.
type Workload struct {
	weeklyMinutes  map[weekKey]int
	monthlyMinutes map[monthKey]int

	// streak is the number of consecutive days ending at lastWorked
	streak     map[string]int
	lastWorked map[string]caldate.Date

	assignedDates map[string]map[caldate.Date]bool
}

// NewWorkload returns an empty workload
func NewWorkload() *Workload {
	return &Workload{
		weeklyMinutes:  make(map[weekKey]int),
		monthlyMinutes: make(map[monthKey]int),
		streak:         make(map[string]int),
		lastWorked:     make(map[string]caldate.Date),
		assignedDates:  make(map[string]map[caldate.Date]bool),
	}
}

// Update records a shift of durationMinutes for the staff member on date
func (w *Workload) Update(staffID string, date caldate.Date, durationMinutes int) {
	w.weeklyMinutes[weekKey{staffID, date.WeekStart()}] += durationMinutes
	w.monthlyMinutes[monthKey{staffID, date.MonthOf()}] += durationMinutes

	last, worked := w.lastWorked[staffID]
	if worked && last.AddDays(1).Equal(date) {
		w.streak[staffID]++
	} else {
		w.streak[staffID] = 1
	}
	w.lastWorked[staffID] = date

	dates, ok := w.assignedDates[staffID]
	if !ok {
		dates = make(map[caldate.Date]bool)
		w.assignedDates[staffID] = dates
	}
	dates[date] = true
}

// WeeklyMinutes returns minutes worked in the Sunday-start week containing date
func (w *Workload) WeeklyMinutes(staffID string, date caldate.Date) int {
	return w.weeklyMinutes[weekKey{staffID, date.WeekStart()}]
}

// MonthlyMinutes returns minutes worked in the calendar month containing date
func (w *Workload) MonthlyMinutes(staffID string, date caldate.Date) int {
	return w.monthlyMinutes[monthKey{staffID, date.MonthOf()}]
}

func (w *Workload) WeeklyHours(staffID string, date caldate.Date) float64 {
	return float64(w.WeeklyMinutes(staffID, date)) / 60
}

func (w *Workload) MonthlyHours(staffID string, date caldate.Date) float64 {
	return float64(w.MonthlyMinutes(staffID, date)) / 60
}

// Streak returns the consecutive-day counter as of the last worked date (0 if never worked)
func (w *Workload) Streak(staffID string) int {
	return w.streak[staffID]
}

// LastWorked returns the most recently recorded work date
func (w *Workload) LastWorked(staffID string) (caldate.Date, bool) {
	d, ok := w.lastWorked[staffID]
	return d, ok
}

// IsAssigned reports whether the staff member already has a shift on date
func (w *Workload) IsAssigned(staffID string, date caldate.Date) bool {
	return w.assignedDates[staffID][date]
}

// RunBefore counts consecutive booked dates ending the day before date
func (w *Workload) RunBefore(staffID string, date caldate.Date) int {
	dates := w.assignedDates[staffID]
	run := 0
	for d := date.AddDays(-1); dates[d]; d = d.AddDays(-1) {
		run++
	}
	return run
}

// RunAfter counts consecutive booked dates starting the day after date.
// Only non-zero when the workload was seeded with assignments later than date.
func (w *Workload) RunAfter(staffID string, date caldate.Date) int {
	dates := w.assignedDates[staffID]
	run := 0
	for d := date.AddDays(1); dates[d]; d = d.AddDays(1) {
		run++
	}
	return run
}
