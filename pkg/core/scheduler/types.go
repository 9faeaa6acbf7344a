package scheduler

import (
	"github.com/jakechorley/staff-rota/pkg/core/caldate"
	"github.com/jakechorley/staff-rota/pkg/core/model"
)

// Input is the in-memory snapshot a generation run works from.
// It is read-only for the duration of the run.
type Input struct {
	// Staff is the roster. Its order is the tie-break order for equal priority scores.
	Staff []model.StaffMember

	// TimeSlots may include inactive slots; they are skipped
	TimeSlots []model.TimeSlot

	// Demand rows for the target range. Rows outside the range are ignored.
	Demand []model.DemandRequirement

	Occupancy    []model.OccupancyRecord
	Availability []model.AvailabilityRule

	// WorkLimits is optional per staff member; a missing entry is unconstrained
	WorkLimits []model.WorkLimit

	// Unavailability may contain requests of any status; only approved ones block
	Unavailability []model.UnavailabilityRequest

	// ExistingAssignments seed the workload in augment mode and are ignored otherwise
	ExistingAssignments []model.ShiftAssignment

	// ClosedDates are skipped entirely: no shifts and no shortages are produced for them
	ClosedDates []caldate.Date
}

// Options parameterise a generation run
type Options struct {
	StartDate caldate.Date
	EndDate   caldate.Date

	// Mode defaults to overwrite
	Mode model.Mode

	// RequireAvailabilityRule makes a missing day-of-week rule mean "not available".
	// By default a staff member with no rule for the day is available all day.
	RequireAvailabilityRule bool
}

// Stats summarises a run
type Stats struct {
	Dates         int `json:"dates"`
	ClosedDates   int `json:"closedDates"`
	DemandRows    int `json:"demandRows"`
	RequiredTotal int `json:"requiredTotal"`
	AssignedTotal int `json:"assignedTotal"`
	ShortageTotal int `json:"shortageTotal"`
}

// Outcome is the result of a generation run
type Outcome struct {
	// Success is true when no shortages were recorded
	Success bool `json:"success"`

	// Shifts are the newly generated assignments in the order they were decided
	Shifts []model.ShiftAssignment `json:"shifts"`

	// Shortages list every demand row that could not be fully staffed
	Shortages []model.ShortageRecord `json:"shortages"`

	Message string `json:"message"`
	Stats   Stats  `json:"stats"`
}
