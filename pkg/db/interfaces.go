package db

import "context"

// ScheduleInputStore defines the reads a generation run needs.
// Date arguments are inclusive "2006-01-02" bounds.
type ScheduleInputStore interface {
	GetStaff(ctx context.Context) ([]Staff, error)
	GetTimeSlots(ctx context.Context) ([]TimeSlot, error)
	GetDemandRequirements(ctx context.Context, start, end string) ([]DemandRequirement, error)
	GetOccupancy(ctx context.Context, start, end string) ([]Occupancy, error)
	GetAvailabilityRules(ctx context.Context) ([]AvailabilityRule, error)
	GetUnavailabilityRequests(ctx context.Context, start, end string) ([]UnavailabilityRequest, error)
	GetWorkLimits(ctx context.Context) ([]WorkLimit, error)
	GetShiftAssignments(ctx context.Context, start, end string) ([]ShiftAssignment, error)
}

// ScheduleWriteStore defines the writes that persist a generation run
type ScheduleWriteStore interface {
	// SaveSchedule stores the run with its assignments and shortages in one transaction.
	// When replace is true, assignments already stored in the run's range are deleted first.
	SaveSchedule(ctx context.Context, run *ScheduleRun, assignments []ShiftAssignment, shortages []Shortage, replace bool) error
}

// ScheduleRunStore defines reads over past runs
type ScheduleRunStore interface {
	GetScheduleRuns(ctx context.Context) ([]ScheduleRun, error)
	GetShortages(ctx context.Context, runID string) ([]Shortage, error)
}

// Database defines the interface for all database operations.
// postgres.DB implements this interface.
type Database interface {
	ScheduleInputStore
	ScheduleWriteStore
	ScheduleRunStore
}
