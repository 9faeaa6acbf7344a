package services

import (
	"context"

	"github.com/jakechorley/staff-rota/pkg/clients/sheetsclient"
	"github.com/jakechorley/staff-rota/pkg/db"
)

// mockScheduleStore implements db.Database for testing
type mockScheduleStore struct {
	staff          []db.Staff
	timeSlots      []db.TimeSlot
	demand         []db.DemandRequirement
	occupancy      []db.Occupancy
	availability   []db.AvailabilityRule
	unavailability []db.UnavailabilityRequest
	workLimits     []db.WorkLimit
	assignments    []db.ShiftAssignment
	runs           []db.ScheduleRun
	shortages      map[string][]db.Shortage

	// Recorded calls
	assignmentRanges [][2]string
	savedRun         *db.ScheduleRun
	savedAssignments []db.ShiftAssignment
	savedShortages   []db.Shortage
	savedReplace     bool
	saveCalls        int

	getStaffErr       error
	getDemandErr      error
	getAssignmentsErr error
	getRunsErr        error
	saveErr           error
}

var _ db.Database = (*mockScheduleStore)(nil)

func (m *mockScheduleStore) GetStaff(ctx context.Context) ([]db.Staff, error) {
	if m.getStaffErr != nil {
		return nil, m.getStaffErr
	}
	return m.staff, nil
}

func (m *mockScheduleStore) GetTimeSlots(ctx context.Context) ([]db.TimeSlot, error) {
	return m.timeSlots, nil
}

func (m *mockScheduleStore) GetDemandRequirements(ctx context.Context, start, end string) ([]db.DemandRequirement, error) {
	if m.getDemandErr != nil {
		return nil, m.getDemandErr
	}
	var rows []db.DemandRequirement
	for _, r := range m.demand {
		if r.Date >= start && r.Date <= end {
			rows = append(rows, r)
		}
	}
	return rows, nil
}

func (m *mockScheduleStore) GetOccupancy(ctx context.Context, start, end string) ([]db.Occupancy, error) {
	var rows []db.Occupancy
	for _, r := range m.occupancy {
		if r.Date >= start && r.Date <= end {
			rows = append(rows, r)
		}
	}
	return rows, nil
}

func (m *mockScheduleStore) GetAvailabilityRules(ctx context.Context) ([]db.AvailabilityRule, error) {
	return m.availability, nil
}

func (m *mockScheduleStore) GetUnavailabilityRequests(ctx context.Context, start, end string) ([]db.UnavailabilityRequest, error) {
	var rows []db.UnavailabilityRequest
	for _, r := range m.unavailability {
		if r.Date >= start && r.Date <= end {
			rows = append(rows, r)
		}
	}
	return rows, nil
}

func (m *mockScheduleStore) GetWorkLimits(ctx context.Context) ([]db.WorkLimit, error) {
	return m.workLimits, nil
}

func (m *mockScheduleStore) GetShiftAssignments(ctx context.Context, start, end string) ([]db.ShiftAssignment, error) {
	m.assignmentRanges = append(m.assignmentRanges, [2]string{start, end})
	if m.getAssignmentsErr != nil {
		return nil, m.getAssignmentsErr
	}
	var rows []db.ShiftAssignment
	for _, r := range m.assignments {
		if r.Date >= start && r.Date <= end {
			rows = append(rows, r)
		}
	}
	return rows, nil
}

func (m *mockScheduleStore) SaveSchedule(ctx context.Context, run *db.ScheduleRun, assignments []db.ShiftAssignment, shortages []db.Shortage, replace bool) error {
	m.saveCalls++
	if m.saveErr != nil {
		return m.saveErr
	}
	run.CreatedDatetime = "2024-01-01T00:00:00Z"
	m.savedRun = run
	m.savedAssignments = assignments
	m.savedShortages = shortages
	m.savedReplace = replace
	return nil
}

func (m *mockScheduleStore) GetScheduleRuns(ctx context.Context) ([]db.ScheduleRun, error) {
	if m.getRunsErr != nil {
		return nil, m.getRunsErr
	}
	return m.runs, nil
}

func (m *mockScheduleStore) GetShortages(ctx context.Context, runID string) ([]db.Shortage, error) {
	return m.shortages[runID], nil
}

// mockPublisher implements SchedulePublisher for testing
type mockPublisher struct {
	spreadsheetID string
	tabPrefix     string
	published     *sheetsclient.PublishedSchedule
	publishErr    error
}

func (m *mockPublisher) PublishSchedule(spreadsheetID, tabPrefix string, schedule *sheetsclient.PublishedSchedule) error {
	if m.publishErr != nil {
		return m.publishErr
	}
	m.spreadsheetID = spreadsheetID
	m.tabPrefix = tabPrefix
	m.published = schedule
	return nil
}

func floatPtr(f float64) *float64 { return &f }

func intPtr(i int) *int { return &i }
