package scheduler

import (
	"fmt"
	"sort"

	"github.com/jakechorley/staff-rota/pkg/core/caldate"
	"github.com/jakechorley/staff-rota/pkg/core/model"
)

// Names of the checks ValidateOutcome runs
const (
	CheckDoubleBooking   = "DoubleBooking"
	CheckStaffRole       = "StaffRole"
	CheckTimeOff         = "TimeOff"
	CheckDateRange       = "DateRange"
	CheckWeeklyHours     = "WeeklyHours"
	CheckMonthlyHours    = "MonthlyHours"
	CheckConsecutiveDays = "ConsecutiveDays"
	CheckHeadcount       = "Headcount"
	CheckShortageCounts  = "ShortageCounts"
)

// ValidationError describes an invariant the outcome breaks
type ValidationError struct {
	Check       string       `json:"check"`
	StaffID     string       `json:"staffId,omitempty"`
	Date        caldate.Date `json:"date"`
	Description string       `json:"description"`
}

// ValidateOutcome re-derives the hard constraints from the produced shifts and returns
// every violation found. An empty slice means the outcome is safe to persist.
//
// In augment mode existing assignments take part in the per-day, hours and streak
// checks, but only buckets that contain a new shift are reported so that violations
// already present in the stored schedule are not blamed on this run.
func ValidateOutcome(input Input, opts Options, outcome *Outcome) []ValidationError {
	errors := []ValidationError{}
	if outcome == nil {
		return errors
	}

	constraints := NewConstraints(input.Availability, input.WorkLimits, input.Unavailability, opts.RequireAvailabilityRule)

	all := make([]model.ShiftAssignment, 0, len(outcome.Shifts)+len(input.ExistingAssignments))
	if opts.Mode == model.ModeAugment {
		all = append(all, input.ExistingAssignments...)
	}
	all = append(all, outcome.Shifts...)

	newDates := make(map[staffDateKey]bool)
	for _, shift := range outcome.Shifts {
		newDates[staffDateKey{shift.StaffID, shift.Date}] = true
	}

	errors = append(errors, validateShifts(input, opts, constraints, outcome.Shifts)...)
	errors = append(errors, validateDoubleBooking(all, newDates)...)
	errors = append(errors, validateHours(all, newDates, constraints)...)
	errors = append(errors, validateStreaks(all, newDates, constraints)...)
	errors = append(errors, validateHeadcount(input, opts, outcome)...)

	return errors
}

// validateShifts checks each new shift on its own
func validateShifts(input Input, opts Options, constraints *Constraints, shifts []model.ShiftAssignment) []ValidationError {
	var errors []ValidationError

	staffByID := make(map[string]model.StaffMember)
	for _, s := range input.Staff {
		if _, exists := staffByID[s.ID]; !exists {
			staffByID[s.ID] = s
		}
	}

	closed := make(map[caldate.Date]bool)
	for _, d := range input.ClosedDates {
		closed[d] = true
	}

	for _, shift := range shifts {
		staff, known := staffByID[shift.StaffID]
		switch {
		case !known:
			errors = append(errors, ValidationError{
				Check: CheckStaffRole, StaffID: shift.StaffID, Date: shift.Date,
				Description: "Shift assigned to unknown staff member",
			})
		case staff.Role != shift.Role:
			errors = append(errors, ValidationError{
				Check: CheckStaffRole, StaffID: shift.StaffID, Date: shift.Date,
				Description: fmt.Sprintf("Staff role %q does not match shift role %q", staff.Role, shift.Role),
			})
		case !staff.IsActive:
			errors = append(errors, ValidationError{
				Check: CheckStaffRole, StaffID: shift.StaffID, Date: shift.Date,
				Description: "Shift assigned to inactive staff member",
			})
		}

		if constraints.BlockedByTimeOff(shift.StaffID, shift.Date, shift.TimeSlotID) {
			errors = append(errors, ValidationError{
				Check: CheckTimeOff, StaffID: shift.StaffID, Date: shift.Date,
				Description: fmt.Sprintf("Shift in slot %s overlaps approved time off", shift.TimeSlotID),
			})
		}

		if shift.Date.Before(opts.StartDate) || shift.Date.After(opts.EndDate) || closed[shift.Date] {
			errors = append(errors, ValidationError{
				Check: CheckDateRange, StaffID: shift.StaffID, Date: shift.Date,
				Description: "Shift falls outside the open dates of the run",
			})
		}
	}

	return errors
}

func validateDoubleBooking(all []model.ShiftAssignment, newDates map[staffDateKey]bool) []ValidationError {
	var errors []ValidationError

	counts := make(map[staffDateKey]int)
	var order []staffDateKey
	for _, shift := range all {
		key := staffDateKey{shift.StaffID, shift.Date}
		if counts[key] == 0 {
			order = append(order, key)
		}
		counts[key]++
	}

	for _, key := range order {
		if counts[key] > 1 && newDates[key] {
			errors = append(errors, ValidationError{
				Check: CheckDoubleBooking, StaffID: key.staffID, Date: key.date,
				Description: fmt.Sprintf("Staff member has %d shifts on the same day", counts[key]),
			})
		}
	}

	return errors
}

func validateHours(all []model.ShiftAssignment, newDates map[staffDateKey]bool, constraints *Constraints) []ValidationError {
	var errors []ValidationError

	weekly := make(map[weekKey]int)
	monthly := make(map[monthKey]int)
	weeksWithNew := make(map[weekKey]caldate.Date)
	monthsWithNew := make(map[monthKey]caldate.Date)
	var weekOrder []weekKey
	var monthOrder []monthKey

	for _, shift := range all {
		duration := model.SlotDurationMinutes(shift.Start, shift.End)
		wk := weekKey{shift.StaffID, shift.Date.WeekStart()}
		mk := monthKey{shift.StaffID, shift.Date.MonthOf()}

		weekly[wk] += duration
		monthly[mk] += duration

		if newDates[staffDateKey{shift.StaffID, shift.Date}] {
			if _, seen := weeksWithNew[wk]; !seen {
				weeksWithNew[wk] = wk.week
				weekOrder = append(weekOrder, wk)
			}
			if _, seen := monthsWithNew[mk]; !seen {
				monthsWithNew[mk] = shift.Date
				monthOrder = append(monthOrder, mk)
			}
		}
	}

	for _, wk := range weekOrder {
		limit, ok := constraints.WorkLimit(wk.staffID)
		if !ok || limit.MaxWeeklyHours == nil {
			continue
		}
		if float64(weekly[wk]) > *limit.MaxWeeklyHours*60 {
			errors = append(errors, ValidationError{
				Check: CheckWeeklyHours, StaffID: wk.staffID, Date: wk.week,
				Description: fmt.Sprintf("Week starting %s has %.2f hours, limit is %.2f",
					wk.week, float64(weekly[wk])/60, *limit.MaxWeeklyHours),
			})
		}
	}

	for _, mk := range monthOrder {
		limit, ok := constraints.WorkLimit(mk.staffID)
		if !ok || limit.MaxMonthlyHours == nil {
			continue
		}
		if float64(monthly[mk]) > *limit.MaxMonthlyHours*60 {
			errors = append(errors, ValidationError{
				Check: CheckMonthlyHours, StaffID: mk.staffID, Date: monthsWithNew[mk],
				Description: fmt.Sprintf("Month %s has %.2f hours, limit is %.2f",
					mk.month, float64(monthly[mk])/60, *limit.MaxMonthlyHours),
			})
		}
	}

	return errors
}

func validateStreaks(all []model.ShiftAssignment, newDates map[staffDateKey]bool, constraints *Constraints) []ValidationError {
	var errors []ValidationError

	datesByStaff := make(map[string][]caldate.Date)
	var staffOrder []string
	for _, shift := range all {
		if _, seen := datesByStaff[shift.StaffID]; !seen {
			staffOrder = append(staffOrder, shift.StaffID)
		}
		datesByStaff[shift.StaffID] = append(datesByStaff[shift.StaffID], shift.Date)
	}

	for _, staffID := range staffOrder {
		limit, ok := constraints.WorkLimit(staffID)
		if !ok || limit.MaxConsecutiveDays == nil {
			continue
		}

		dates := datesByStaff[staffID]
		sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

		runStart := 0
		for i := 1; i <= len(dates); i++ {
			if i < len(dates) && dates[i-1].DaysUntil(dates[i]) <= 1 {
				continue
			}

			run := dates[runStart:i]
			length := run[0].DaysUntil(run[len(run)-1]) + 1
			if length > *limit.MaxConsecutiveDays && runHasNew(staffID, run, newDates) {
				errors = append(errors, ValidationError{
					Check: CheckConsecutiveDays, StaffID: staffID, Date: run[0],
					Description: fmt.Sprintf("Works %d consecutive days from %s, limit is %d",
						length, run[0], *limit.MaxConsecutiveDays),
				})
			}
			runStart = i
		}
	}

	return errors
}

func runHasNew(staffID string, run []caldate.Date, newDates map[staffDateKey]bool) bool {
	for _, d := range run {
		if newDates[staffDateKey{staffID, d}] {
			return true
		}
	}
	return false
}

// validateHeadcount checks that no demand was overfilled by this run and that shortage
// records are internally consistent
func validateHeadcount(input Input, opts Options, outcome *Outcome) []ValidationError {
	var errors []ValidationError

	occupancy := make(map[caldate.Date]*model.OccupancyRecord)
	for i := range input.Occupancy {
		if _, exists := occupancy[input.Occupancy[i].Date]; !exists {
			occupancy[input.Occupancy[i].Date] = &input.Occupancy[i]
		}
	}

	required := make(map[demandKey]int)
	for _, req := range input.Demand {
		if req.Date.Before(opts.StartDate) || req.Date.After(opts.EndDate) {
			continue
		}
		required[demandKey{req.Date, req.TimeSlotID, req.Role}] += AdjustedRequired(req, occupancy[req.Date])
	}

	assigned := make(map[demandKey]int)
	var order []demandKey
	for _, shift := range outcome.Shifts {
		key := demandKey{shift.Date, shift.TimeSlotID, shift.Role}
		if assigned[key] == 0 {
			order = append(order, key)
		}
		assigned[key]++
	}

	for _, key := range order {
		if assigned[key] > required[key] {
			errors = append(errors, ValidationError{
				Check: CheckHeadcount, Date: key.date,
				Description: fmt.Sprintf("Slot %s role %s has %d new shifts but requires %d",
					key.slotID, key.role, assigned[key], required[key]),
			})
		}
	}

	for _, s := range outcome.Shortages {
		if s.AssignedCount > s.RequiredCount || s.ShortageCount != s.RequiredCount-s.AssignedCount || s.ShortageCount <= 0 {
			errors = append(errors, ValidationError{
				Check: CheckShortageCounts, Date: s.Date,
				Description: fmt.Sprintf("Inconsistent shortage for slot %s role %s: required %d, assigned %d, short %d",
					s.TimeSlotID, s.Role, s.RequiredCount, s.AssignedCount, s.ShortageCount),
			})
		}
	}

	return errors
}
