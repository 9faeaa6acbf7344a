package db

// Rows are stored with dates as "2006-01-02" and clock times as "15:04" strings.
// Conversion into engine types (and the precondition checks that go with it) happens in
// the services layer.

// Staff represents a database staff record
type Staff struct {
	ID       string
	Name     string
	Role     string
	IsActive bool
}

// TimeSlot represents a named shift window
type TimeSlot struct {
	ID           string
	Name         string
	StartTime    string
	EndTime      string
	DisplayOrder int
	IsActive     bool
}

// DemandRequirement represents the staffing need for one date/slot/role
type DemandRequirement struct {
	ID             string
	Date           string
	TimeSlotID     string
	Role           string
	BaseCount      int
	OccupancyBonus int
	BanquetBonus   int
}

// Occupancy represents the forecast occupancy for a date
type Occupancy struct {
	Date          string
	OccupancyRate float64
	HasBanquet    bool
}

// AvailabilityRule represents a staff member's recurring weekday availability
type AvailabilityRule struct {
	ID             string
	StaffID        string
	DayOfWeek      int
	IsAvailable    bool
	AvailableStart string // empty when no window
	AvailableEnd   string
}

// UnavailabilityRequest represents a time off request
type UnavailabilityRequest struct {
	ID          string
	StaffID     string
	Date        string
	Type        string
	TimeSlotIDs []string
	Status      string
}

// WorkLimit represents a staff member's legal limits. Nil fields are unconstrained.
type WorkLimit struct {
	StaffID            string
	MaxWeeklyHours     *float64
	MaxMonthlyHours    *float64
	MaxConsecutiveDays *int
}

// ShiftAssignment represents a saved shift
type ShiftAssignment struct {
	ID         string
	RunID      string // empty for assignments entered outside a generation run
	StaffID    string
	Date       string
	TimeSlotID string
	Role       string
	StartTime  string
	EndTime    string
}

// Shortage represents an unfilled demand row recorded by a run
type Shortage struct {
	ID            string
	RunID         string
	Date          string
	TimeSlotID    string
	Role          string
	RequiredCount int
	AssignedCount int
	ShortageCount int
}

// ScheduleRun represents one persisted generation run
type ScheduleRun struct {
	ID              string
	StartDate       string
	EndDate         string
	Mode            string
	ShiftCount      int
	ShortageCount   int
	Forced          bool
	CreatedDatetime string // RFC3339, set by the database
}
