package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jakechorley/staff-rota/pkg/core/model"
)

func TestCheckEligibility(t *testing.T) {
	// Wednesday
	wed := date("2024-01-10")
	morning := slot("morning", "09:00", "13:00", 1)

	tests := []struct {
		name           string
		staff          model.StaffMember
		role           string
		availability   []model.AvailabilityRule
		workLimits     []model.WorkLimit
		unavailability []model.UnavailabilityRequest
		seed           func(w *Workload)
		requireRule    bool
		expected       Reason
	}{
		{
			name:     "eligible with no rules",
			staff:    staff("alice", "server"),
			role:     "server",
			expected: ReasonNone,
		},
		{
			name:     "role mismatch",
			staff:    staff("alice", "chef"),
			role:     "server",
			expected: ReasonRoleMismatch,
		},
		{
			name:     "inactive",
			staff:    model.StaffMember{ID: "alice", Role: "server", IsActive: false},
			role:     "server",
			expected: ReasonInactive,
		},
		{
			name:  "approved all day time off",
			staff: staff("alice", "server"),
			role:  "server",
			unavailability: []model.UnavailabilityRequest{
				{StaffID: "alice", Date: wed, Type: model.UnavailabilityAllDay, Status: model.StatusApproved},
			},
			expected: ReasonTimeOff,
		},
		{
			name:  "pending time off is ignored",
			staff: staff("alice", "server"),
			role:  "server",
			unavailability: []model.UnavailabilityRequest{
				{StaffID: "alice", Date: wed, Type: model.UnavailabilityAllDay, Status: model.StatusPending},
			},
			expected: ReasonNone,
		},
		{
			name:  "slot specific time off covering the slot",
			staff: staff("alice", "server"),
			role:  "server",
			unavailability: []model.UnavailabilityRequest{
				{StaffID: "alice", Date: wed, Type: model.UnavailabilitySlotSpecific, TimeSlotIDs: []string{"morning"}, Status: model.StatusApproved},
			},
			expected: ReasonTimeOff,
		},
		{
			name:  "slot specific time off for another slot",
			staff: staff("alice", "server"),
			role:  "server",
			unavailability: []model.UnavailabilityRequest{
				{StaffID: "alice", Date: wed, Type: model.UnavailabilitySlotSpecific, TimeSlotIDs: []string{"evening"}, Status: model.StatusApproved},
			},
			expected: ReasonNone,
		},
		{
			name:  "not available on weekday",
			staff: staff("alice", "server"),
			role:  "server",
			availability: []model.AvailabilityRule{
				{StaffID: "alice", DayOfWeek: 3, IsAvailable: false},
			},
			expected: ReasonNotAvailableDay,
		},
		{
			name:  "rule for another weekday does not apply",
			staff: staff("alice", "server"),
			role:  "server",
			availability: []model.AvailabilityRule{
				{StaffID: "alice", DayOfWeek: 4, IsAvailable: false},
			},
			expected: ReasonNone,
		},
		{
			name:        "missing rule rejected when rules are required",
			staff:       staff("alice", "server"),
			role:        "server",
			requireRule: true,
			expected:    ReasonNotAvailableDay,
		},
		{
			name:  "first rule for the weekday wins",
			staff: staff("alice", "server"),
			role:  "server",
			availability: []model.AvailabilityRule{
				{StaffID: "alice", DayOfWeek: 3, IsAvailable: true},
				{StaffID: "alice", DayOfWeek: 3, IsAvailable: false},
			},
			expected: ReasonNone,
		},
		{
			name:  "slot within window",
			staff: staff("alice", "server"),
			role:  "server",
			availability: []model.AvailabilityRule{
				{StaffID: "alice", DayOfWeek: 3, IsAvailable: true, AvailableStart: clockPtr("09:00"), AvailableEnd: clockPtr("17:00")},
			},
			expected: ReasonNone,
		},
		{
			name:  "slot partly outside window",
			staff: staff("alice", "server"),
			role:  "server",
			availability: []model.AvailabilityRule{
				{StaffID: "alice", DayOfWeek: 3, IsAvailable: true, AvailableStart: clockPtr("10:00"), AvailableEnd: clockPtr("17:00")},
			},
			expected: ReasonOutsideWindow,
		},
		{
			name:  "already working that day",
			staff: staff("alice", "server"),
			role:  "server",
			seed: func(w *Workload) {
				w.Update("alice", wed, 4*60)
			},
			expected: ReasonAlreadyAssigned,
		},
		{
			name:       "weekly limit would be exceeded",
			staff:      staff("alice", "server"),
			role:       "server",
			workLimits: []model.WorkLimit{{StaffID: "alice", MaxWeeklyHours: hours(10)}},
			seed: func(w *Workload) {
				w.Update("alice", date("2024-01-08"), 8*60)
			},
			expected: ReasonWeeklyLimit,
		},
		{
			name:       "weekly limit reached exactly",
			staff:      staff("alice", "server"),
			role:       "server",
			workLimits: []model.WorkLimit{{StaffID: "alice", MaxWeeklyHours: hours(12)}},
			seed: func(w *Workload) {
				w.Update("alice", date("2024-01-08"), 8*60)
			},
			expected: ReasonNone,
		},
		{
			name:       "hours from the previous week do not count",
			staff:      staff("alice", "server"),
			role:       "server",
			workLimits: []model.WorkLimit{{StaffID: "alice", MaxWeeklyHours: hours(10)}},
			seed: func(w *Workload) {
				w.Update("alice", date("2024-01-06"), 8*60)
			},
			expected: ReasonNone,
		},
		{
			name:       "monthly limit would be exceeded",
			staff:      staff("alice", "server"),
			role:       "server",
			workLimits: []model.WorkLimit{{StaffID: "alice", MaxMonthlyHours: hours(18)}},
			seed: func(w *Workload) {
				w.Update("alice", date("2024-01-02"), 8*60)
				w.Update("alice", date("2024-01-04"), 8*60)
			},
			expected: ReasonMonthlyLimit,
		},
		{
			name:       "streak below the limit",
			staff:      staff("alice", "server"),
			role:       "server",
			workLimits: []model.WorkLimit{{StaffID: "alice", MaxConsecutiveDays: days(3)}},
			seed: func(w *Workload) {
				w.Update("alice", date("2024-01-08"), 60)
				w.Update("alice", date("2024-01-09"), 60)
			},
			expected: ReasonNone,
		},
		{
			name:       "streak at the limit",
			staff:      staff("alice", "server"),
			role:       "server",
			workLimits: []model.WorkLimit{{StaffID: "alice", MaxConsecutiveDays: days(2)}},
			seed: func(w *Workload) {
				w.Update("alice", date("2024-01-08"), 60)
				w.Update("alice", date("2024-01-09"), 60)
			},
			expected: ReasonConsecutiveDays,
		},
		{
			name:       "streak broken by a gap",
			staff:      staff("alice", "server"),
			role:       "server",
			workLimits: []model.WorkLimit{{StaffID: "alice", MaxConsecutiveDays: days(2)}},
			seed: func(w *Workload) {
				w.Update("alice", date("2024-01-07"), 60)
				w.Update("alice", date("2024-01-08"), 60)
			},
			expected: ReasonNone,
		},
		{
			name:       "booked days after the date join the run",
			staff:      staff("alice", "server"),
			role:       "server",
			workLimits: []model.WorkLimit{{StaffID: "alice", MaxConsecutiveDays: days(2)}},
			seed: func(w *Workload) {
				w.Update("alice", date("2024-01-11"), 60)
				w.Update("alice", date("2024-01-12"), 60)
			},
			expected: ReasonConsecutiveDays,
		},
		{
			name:       "limits for another staff member do not apply",
			staff:      staff("alice", "server"),
			role:       "server",
			workLimits: []model.WorkLimit{{StaffID: "bob", MaxWeeklyHours: hours(0)}},
			expected:   ReasonNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			constraints := NewConstraints(tt.availability, tt.workLimits, tt.unavailability, tt.requireRule)
			workload := NewWorkload()
			if tt.seed != nil {
				tt.seed(workload)
			}

			reason := CheckEligibility(tt.staff, wed, morning, tt.role, constraints, workload)
			assert.Equal(t, tt.expected, reason)
			assert.Equal(t, tt.expected == ReasonNone, CanAssign(tt.staff, wed, morning, tt.role, constraints, workload))
		})
	}
}

func TestCheckEligibility_FiveDayStreakBlocksSixthDay(t *testing.T) {
	alice := staff("alice", "server")
	constraints := NewConstraints(nil, []model.WorkLimit{{StaffID: "alice", MaxConsecutiveDays: days(5)}}, nil, false)
	workload := NewWorkload()

	for _, d := range []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05"} {
		workload.Update("alice", date(d), 8*60)
	}
	assert.Equal(t, 5, workload.Streak("alice"))

	s := slot("day", "09:00", "17:00", 1)
	assert.Equal(t, ReasonConsecutiveDays, CheckEligibility(alice, date("2024-01-06"), s, "server", constraints, workload))
	// A day off later resets the run
	assert.Equal(t, ReasonNone, CheckEligibility(alice, date("2024-01-07"), s, "server", constraints, workload))
}

func TestCheckEligibility_SlotStartingBeforeWindow(t *testing.T) {
	alice := staff("alice", "server")
	// 2024-01-10 is a Wednesday
	constraints := NewConstraints([]model.AvailabilityRule{
		{StaffID: "alice", DayOfWeek: 3, IsAvailable: true, AvailableStart: clockPtr("09:00"), AvailableEnd: clockPtr("17:00")},
	}, nil, nil, false)

	early := slot("early", "08:00", "12:00", 1)
	assert.Equal(t, ReasonOutsideWindow, CheckEligibility(alice, date("2024-01-10"), early, "server", constraints, NewWorkload()))
}

func TestSlotWithinWindow(t *testing.T) {
	tests := []struct {
		name        string
		slotStart   string
		slotEnd     string
		windowStart string
		windowEnd   string
		expected    bool
	}{
		{"exact match", "09:00", "17:00", "09:00", "17:00", true},
		{"inside", "10:00", "12:00", "09:00", "17:00", true},
		{"starts early", "08:00", "12:00", "09:00", "17:00", false},
		{"ends late", "15:00", "18:00", "09:00", "17:00", false},
		{"disjoint", "18:00", "20:00", "09:00", "17:00", false},
		{"overnight slot in overnight window", "22:00", "02:00", "20:00", "04:00", true},
		{"overnight slot ending after window", "22:00", "05:00", "20:00", "04:00", false},
		{"early morning slot in tail of overnight window", "01:00", "03:00", "20:00", "04:00", true},
		{"overnight slot in daytime window", "22:00", "02:00", "09:00", "23:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := slot("s", tt.slotStart, tt.slotEnd, 1)
			assert.Equal(t, tt.expected, slotWithinWindow(s, clock(tt.windowStart), clock(tt.windowEnd)))
		})
	}
}
