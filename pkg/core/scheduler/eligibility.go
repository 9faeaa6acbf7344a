package scheduler

import (
	"github.com/jakechorley/staff-rota/pkg/core/caldate"
	"github.com/jakechorley/staff-rota/pkg/core/model"
)

// Reason identifies the hard constraint that rejected a placement
type Reason string

const (
	ReasonNone            Reason = ""
	ReasonRoleMismatch    Reason = "role_mismatch"
	ReasonInactive        Reason = "inactive"
	ReasonTimeOff         Reason = "time_off"
	ReasonNotAvailableDay Reason = "not_available"
	ReasonOutsideWindow   Reason = "outside_window"
	ReasonAlreadyAssigned Reason = "already_assigned"
	ReasonWeeklyLimit     Reason = "weekly_limit"
	ReasonMonthlyLimit    Reason = "monthly_limit"
	ReasonConsecutiveDays Reason = "consecutive_days"
)

type availabilityKey struct {
	staffID   string
	dayOfWeek int
}

type staffDateKey struct {
	staffID string
	date    caldate.Date
}

// Constraints indexes the per-staff rule inputs the eligibility filter consults
type Constraints struct {
	availability            map[availabilityKey]model.AvailabilityRule
	workLimits              map[string]model.WorkLimit
	unavailability          map[staffDateKey][]model.UnavailabilityRequest
	requireAvailabilityRule bool
}

// NewConstraints indexes availability, limits and approved time off.
// When several availability rules exist for the same staff/day the first one wins.
func NewConstraints(
	availability []model.AvailabilityRule,
	workLimits []model.WorkLimit,
	unavailability []model.UnavailabilityRequest,
	requireAvailabilityRule bool,
) *Constraints {
	c := &Constraints{
		availability:            make(map[availabilityKey]model.AvailabilityRule),
		workLimits:              make(map[string]model.WorkLimit),
		unavailability:          make(map[staffDateKey][]model.UnavailabilityRequest),
		requireAvailabilityRule: requireAvailabilityRule,
	}

	for _, rule := range availability {
		key := availabilityKey{rule.StaffID, rule.DayOfWeek}
		if _, exists := c.availability[key]; !exists {
			c.availability[key] = rule
		}
	}

	for _, limit := range workLimits {
		if _, exists := c.workLimits[limit.StaffID]; !exists {
			c.workLimits[limit.StaffID] = limit
		}
	}

	for _, req := range unavailability {
		if req.Status != model.StatusApproved {
			continue
		}
		key := staffDateKey{req.StaffID, req.Date}
		c.unavailability[key] = append(c.unavailability[key], req)
	}

	return c
}

// WorkLimit returns the staff member's limits, if any
func (c *Constraints) WorkLimit(staffID string) (model.WorkLimit, bool) {
	limit, ok := c.workLimits[staffID]
	return limit, ok
}

// BlockedByTimeOff reports whether approved time off covers the slot on date
func (c *Constraints) BlockedByTimeOff(staffID string, date caldate.Date, slotID string) bool {
	for _, req := range c.unavailability[staffDateKey{staffID, date}] {
		if req.Blocks(slotID) {
			return true
		}
	}
	return false
}

// CanAssign reports whether staff may be placed into slot on date for role
func CanAssign(
	staff model.StaffMember,
	date caldate.Date,
	slot model.TimeSlot,
	role string,
	constraints *Constraints,
	workload *Workload,
) bool {
	return CheckEligibility(staff, date, slot, role, constraints, workload) == ReasonNone
}

// CheckEligibility runs the hard constraints in order and returns the first that fails,
// or ReasonNone when the placement is allowed
func CheckEligibility(
	staff model.StaffMember,
	date caldate.Date,
	slot model.TimeSlot,
	role string,
	constraints *Constraints,
	workload *Workload,
) Reason {
	if staff.Role != role {
		return ReasonRoleMismatch
	}
	if !staff.IsActive {
		return ReasonInactive
	}

	if constraints.BlockedByTimeOff(staff.ID, date, slot.ID) {
		return ReasonTimeOff
	}

	if reason := checkAvailability(staff.ID, date, slot, constraints); reason != ReasonNone {
		return reason
	}

	// One shift per person per day, whatever the slot
	if workload.IsAssigned(staff.ID, date) {
		return ReasonAlreadyAssigned
	}

	limit, hasLimit := constraints.WorkLimit(staff.ID)
	if !hasLimit {
		return ReasonNone
	}

	duration := model.SlotDurationMinutes(slot.Start, slot.End)

	if limit.MaxWeeklyHours != nil {
		if float64(workload.WeeklyMinutes(staff.ID, date)+duration) > *limit.MaxWeeklyHours*60 {
			return ReasonWeeklyLimit
		}
	}

	if limit.MaxMonthlyHours != nil {
		if float64(workload.MonthlyMinutes(staff.ID, date)+duration) > *limit.MaxMonthlyHours*60 {
			return ReasonMonthlyLimit
		}
	}

	if limit.MaxConsecutiveDays != nil && !withinStreakLimit(staff.ID, date, *limit.MaxConsecutiveDays, workload) {
		return ReasonConsecutiveDays
	}

	return ReasonNone
}

func checkAvailability(staffID string, date caldate.Date, slot model.TimeSlot, constraints *Constraints) Reason {
	rule, ok := constraints.availability[availabilityKey{staffID, int(date.Weekday())}]
	if !ok {
		if constraints.requireAvailabilityRule {
			return ReasonNotAvailableDay
		}
		return ReasonNone
	}

	if !rule.IsAvailable {
		return ReasonNotAvailableDay
	}

	if rule.HasWindow() && !slotWithinWindow(slot, *rule.AvailableStart, *rule.AvailableEnd) {
		return ReasonOutsideWindow
	}

	return ReasonNone
}

// slotWithinWindow requires the whole slot inside the window; partial overlap is rejected.
// Both intervals may cross midnight, and a slot starting after midnight may sit in the
// tail of an overnight window.
func slotWithinWindow(slot model.TimeSlot, windowStart, windowEnd model.ClockTime) bool {
	slotStart, slotEnd := model.Interval(slot.Start, slot.End)
	winStart, winEnd := model.Interval(windowStart, windowEnd)

	if slotStart >= winStart && slotEnd <= winEnd {
		return true
	}

	return slotStart+model.MinutesPerDay >= winStart && slotEnd+model.MinutesPerDay <= winEnd
}

// withinStreakLimit checks that working date would not push a consecutive-day run past
// maxDays. When the last worked date is the day before, the running streak must be below
// the limit; after a gap the streak restarts and the check passes. Booked dates after
// date (only present when seeded from existing assignments) join the run as well.
func withinStreakLimit(staffID string, date caldate.Date, maxDays int, workload *Workload) bool {
	before := 0
	if last, ok := workload.LastWorked(staffID); ok && last.AddDays(1).Equal(date) {
		before = workload.Streak(staffID)
	}
	before = max(before, workload.RunBefore(staffID, date))

	return before+1+workload.RunAfter(staffID, date) <= maxDays
}
