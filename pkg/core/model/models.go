package model

import (
	"slices"

	"github.com/jakechorley/staff-rota/pkg/core/caldate"
)

// Mode controls how a generation run treats assignments that already exist in the range
type Mode string

const (
	// ModeOverwrite ignores existing assignments; the caller replaces them on save
	ModeOverwrite Mode = "overwrite"
	// ModeAugment keeps existing assignments and only fills the remaining demand
	ModeAugment Mode = "augment"
)

func (m Mode) IsValid() bool {
	return m == ModeOverwrite || m == ModeAugment
}

type UnavailabilityType string

const (
	UnavailabilityAllDay       UnavailabilityType = "all_day"
	UnavailabilitySlotSpecific UnavailabilityType = "slot_specific"
)

func (t UnavailabilityType) IsValid() bool {
	return t == UnavailabilityAllDay || t == UnavailabilitySlotSpecific
}

type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusRejected RequestStatus = "rejected"
)

func (s RequestStatus) IsValid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// StaffMember represents a member of staff who can be scheduled
type StaffMember struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	IsActive bool   `json:"isActive"`
}

// TimeSlot is a named, ordered interval of the day
type TimeSlot struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Start        ClockTime `json:"start"`
	End          ClockTime `json:"end"`
	DisplayOrder int       `json:"displayOrder"`
	IsActive     bool      `json:"isActive"`
}

// DurationHours returns the slot length, treating end < start as crossing midnight
func (s TimeSlot) DurationHours() float64 {
	return float64(SlotDurationMinutes(s.Start, s.End)) / 60
}

// DemandRequirement is the base headcount for a role in a date/slot
type DemandRequirement struct {
	Date       caldate.Date `json:"date"`
	TimeSlotID string       `json:"timeSlotId"`
	Role       string       `json:"role"`
	BaseCount  int          `json:"baseCount"`

	// OccupancyBonus is added once per full 10 percentage points of occupancy
	OccupancyBonus int `json:"occupancyBonus"`

	// BanquetBonus is added when the date has a banquet
	BanquetBonus int `json:"banquetBonus"`
}

// OccupancyRecord carries the occupancy signals for a date
type OccupancyRecord struct {
	Date          caldate.Date `json:"date"`
	OccupancyRate float64      `json:"occupancyRate"`
	HasBanquet    bool         `json:"hasBanquet"`
}

// AvailabilityRule is a staff member's weekly availability for one day of the week
type AvailabilityRule struct {
	StaffID     string `json:"staffId"`
	DayOfWeek   int    `json:"dayOfWeek"` // 0 = Sunday
	IsAvailable bool   `json:"isAvailable"`

	// AvailableStart and AvailableEnd bound the working window. Both nil means all day.
	AvailableStart *ClockTime `json:"availableStart,omitempty"`
	AvailableEnd   *ClockTime `json:"availableEnd,omitempty"`
}

// HasWindow reports whether the rule restricts the time of day
func (r AvailabilityRule) HasWindow() bool {
	return r.AvailableStart != nil && r.AvailableEnd != nil
}

// UnavailabilityRequest is a time-off request for a single date
type UnavailabilityRequest struct {
	ID          string             `json:"id"`
	StaffID     string             `json:"staffId"`
	Date        caldate.Date       `json:"date"`
	Type        UnavailabilityType `json:"type"`
	TimeSlotIDs []string           `json:"timeSlotIds,omitempty"`
	Status      RequestStatus      `json:"status"`
}

// Blocks reports whether this request prevents working the given slot.
// Only approved requests block.
func (r UnavailabilityRequest) Blocks(slotID string) bool {
	if r.Status != StatusApproved {
		return false
	}
	switch r.Type {
	case UnavailabilityAllDay:
		return true
	case UnavailabilitySlotSpecific:
		return slices.Contains(r.TimeSlotIDs, slotID)
	}
	return false
}

// WorkLimit holds a staff member's legal work-time limits. A nil field is unconstrained.
type WorkLimit struct {
	StaffID            string   `json:"staffId"`
	MaxWeeklyHours     *float64 `json:"maxWeeklyHours,omitempty"`
	MaxMonthlyHours    *float64 `json:"maxMonthlyHours,omitempty"`
	MaxConsecutiveDays *int     `json:"maxConsecutiveDays,omitempty"`
}

// ShiftAssignment places one staff member into one slot on one date
type ShiftAssignment struct {
	StaffID    string       `json:"staffId"`
	Date       caldate.Date `json:"date"`
	TimeSlotID string       `json:"timeSlotId,omitempty"`
	Role       string       `json:"role"`
	Start      ClockTime    `json:"start"`
	End        ClockTime    `json:"end"`
}

// DurationHours returns the assignment length, treating end < start as crossing midnight
func (a ShiftAssignment) DurationHours() float64 {
	return float64(SlotDurationMinutes(a.Start, a.End)) / 60
}

// ShortageRecord reports demand that could not be filled
type ShortageRecord struct {
	Date          caldate.Date `json:"date"`
	TimeSlotID    string       `json:"timeSlotId"`
	Role          string       `json:"role"`
	RequiredCount int          `json:"requiredCount"`
	AssignedCount int          `json:"assignedCount"`
	ShortageCount int          `json:"shortageCount"`

	// Rejections counts, per reason, staff of the right role who were not eligible
	Rejections map[string]int `json:"rejections,omitempty"`
}
