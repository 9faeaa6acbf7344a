package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/staff-rota/internal/config"
	"github.com/jakechorley/staff-rota/pkg/core/caldate"
	"github.com/jakechorley/staff-rota/pkg/core/model"
	"github.com/jakechorley/staff-rota/pkg/db"
)

func testConfig() *config.Config {
	return &config.Config{
		DatabaseURL:       "postgres://localhost/test",
		ScheduleSheetID:   "sheet-1",
		ScheduleTabPrefix: "Schedule",
		DefaultMode:       "overwrite",
		MaxRangeDays:      93,
	}
}

// newKitchenStore returns two cooks, a morning and an evening slot, and one cook needed
// every morning from 2024-01-01 to 2024-01-03
func newKitchenStore() *mockScheduleStore {
	return &mockScheduleStore{
		staff: []db.Staff{
			{ID: "alice", Name: "Alice", Role: "cook", IsActive: true},
			{ID: "bob", Name: "Bob", Role: "cook", IsActive: true},
		},
		timeSlots: []db.TimeSlot{
			{ID: "evening", Name: "Evening", StartTime: "17:00", EndTime: "22:00", DisplayOrder: 2, IsActive: true},
			{ID: "morning", Name: "Morning", StartTime: "09:00", EndTime: "13:00", DisplayOrder: 1, IsActive: true},
		},
		demand: []db.DemandRequirement{
			{ID: "d1", Date: "2024-01-01", TimeSlotID: "morning", Role: "cook", BaseCount: 1},
			{ID: "d2", Date: "2024-01-02", TimeSlotID: "morning", Role: "cook", BaseCount: 1},
			{ID: "d3", Date: "2024-01-03", TimeSlotID: "morning", Role: "cook", BaseCount: 1},
		},
		shortages: map[string][]db.Shortage{},
	}
}

func rangeRequest(start, end string) GenerateScheduleRequest {
	return GenerateScheduleRequest{Start: caldate.MustParse(start), End: caldate.MustParse(end)}
}

func TestGenerateSchedule_SavesOverwriteRun(t *testing.T) {
	store := newKitchenStore()

	result, err := GenerateSchedule(context.Background(), store, testConfig(), zap.NewNop(), rangeRequest("2024-01-01", "2024-01-03"))
	require.NoError(t, err)

	assert.True(t, result.Saved)
	assert.Equal(t, model.ModeOverwrite, result.Mode)
	assert.True(t, result.Outcome.Success)
	assert.Empty(t, result.ValidationErrors)

	// Existing assignments are not read in overwrite mode
	assert.Empty(t, store.assignmentRanges)

	require.Equal(t, 1, store.saveCalls)
	assert.True(t, store.savedReplace)
	require.NotNil(t, store.savedRun)
	assert.Equal(t, result.RunID, store.savedRun.ID)
	assert.Equal(t, "2024-01-01", store.savedRun.StartDate)
	assert.Equal(t, "2024-01-03", store.savedRun.EndDate)
	assert.Equal(t, "overwrite", store.savedRun.Mode)
	assert.Equal(t, 3, store.savedRun.ShiftCount)
	assert.False(t, store.savedRun.Forced)

	require.Len(t, store.savedAssignments, 3)
	var staffIDs []string
	for i, a := range store.savedAssignments {
		assert.NotEmpty(t, a.ID)
		assert.Equal(t, result.RunID, a.RunID)
		assert.Equal(t, "morning", a.TimeSlotID)
		assert.Equal(t, "09:00", a.StartTime)
		assert.Equal(t, "13:00", a.EndTime)
		assert.Equal(t, []string{"2024-01-01", "2024-01-02", "2024-01-03"}[i], a.Date)
		staffIDs = append(staffIDs, a.StaffID)
	}
	assert.Equal(t, []string{"alice", "bob", "alice"}, staffIDs)
	assert.Empty(t, store.savedShortages)
}

func TestGenerateSchedule_DryRunDoesNotSave(t *testing.T) {
	store := newKitchenStore()
	req := rangeRequest("2024-01-01", "2024-01-03")
	req.DryRun = true

	result, err := GenerateSchedule(context.Background(), store, testConfig(), zap.NewNop(), req)
	require.NoError(t, err)

	assert.False(t, result.Saved)
	assert.Len(t, result.Outcome.Shifts, 3)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 0, store.saveCalls)
}

func TestGenerateSchedule_ShortagesAreSaved(t *testing.T) {
	store := newKitchenStore()
	store.demand = []db.DemandRequirement{
		{ID: "d1", Date: "2024-01-01", TimeSlotID: "morning", Role: "cook", BaseCount: 3},
	}

	result, err := GenerateSchedule(context.Background(), store, testConfig(), zap.NewNop(), rangeRequest("2024-01-01", "2024-01-01"))
	require.NoError(t, err)

	assert.False(t, result.Outcome.Success)
	assert.True(t, result.Saved)
	assert.Equal(t, 1, store.savedRun.ShortageCount)

	require.Len(t, store.savedShortages, 1)
	s := store.savedShortages[0]
	assert.Equal(t, result.RunID, s.RunID)
	assert.Equal(t, "2024-01-01", s.Date)
	assert.Equal(t, "morning", s.TimeSlotID)
	assert.Equal(t, 3, s.RequiredCount)
	assert.Equal(t, 2, s.AssignedCount)
	assert.Equal(t, 1, s.ShortageCount)
}

func TestGenerateSchedule_AugmentUsesConfiguredDefaultMode(t *testing.T) {
	store := newKitchenStore()
	store.assignments = []db.ShiftAssignment{
		{ID: "a1", StaffID: "alice", Date: "2024-01-01", TimeSlotID: "morning", Role: "cook", StartTime: "09:00", EndTime: "13:00"},
	}
	cfg := testConfig()
	cfg.DefaultMode = "augment"

	result, err := GenerateSchedule(context.Background(), store, cfg, zap.NewNop(), rangeRequest("2024-01-01", "2024-01-03"))
	require.NoError(t, err)

	assert.Equal(t, model.ModeAugment, result.Mode)
	assert.True(t, result.Saved)
	assert.False(t, store.savedReplace)

	// Weeks start on Sunday 2023-12-31; the month runs to 2024-01-31
	require.Len(t, store.assignmentRanges, 1)
	assert.Equal(t, [2]string{"2023-12-31", "2024-01-31"}, store.assignmentRanges[0])

	// The existing shift covers the first morning
	require.Len(t, result.Outcome.Shifts, 2)
	assert.Equal(t, "2024-01-02", result.Outcome.Shifts[0].Date.String())
	assert.Equal(t, "bob", result.Outcome.Shifts[0].StaffID)
	assert.Equal(t, "2024-01-03", result.Outcome.Shifts[1].Date.String())
	assert.Len(t, store.savedAssignments, 2)
}

func TestGenerateSchedule_AugmentSeedsLimitsFromEarlierDays(t *testing.T) {
	store := newKitchenStore()
	store.staff = store.staff[:1]
	store.workLimits = []db.WorkLimit{{StaffID: "alice", MaxConsecutiveDays: intPtr(2)}}
	store.assignments = []db.ShiftAssignment{
		{ID: "a1", StaffID: "alice", Date: "2023-12-30", TimeSlotID: "morning", Role: "cook", StartTime: "09:00", EndTime: "13:00"},
		{ID: "a2", StaffID: "alice", Date: "2023-12-31", TimeSlotID: "morning", Role: "cook", StartTime: "09:00", EndTime: "13:00"},
	}
	req := rangeRequest("2024-01-01", "2024-01-03")
	req.Mode = model.ModeAugment

	result, err := GenerateSchedule(context.Background(), store, testConfig(), zap.NewNop(), req)
	require.NoError(t, err)

	assert.Equal(t, [2]string{"2023-12-29", "2024-02-02"}, store.assignmentRanges[0])

	// Two days worked before the range block the first day
	require.Len(t, result.Outcome.Shortages, 1)
	assert.Equal(t, "2024-01-01", result.Outcome.Shortages[0].Date.String())
	assert.Equal(t, 1, result.Outcome.Shortages[0].Rejections["consecutive_days"])
	require.Len(t, result.Outcome.Shifts, 2)
	assert.Empty(t, result.ValidationErrors)
}

func TestGenerateSchedule_ClosuresSkipDates(t *testing.T) {
	store := newKitchenStore()
	cfg := testConfig()
	cfg.Closures = []config.Closure{{RRule: "FREQ=WEEKLY;BYDAY=TU", Reason: "Kitchen deep clean"}}

	result, err := GenerateSchedule(context.Background(), store, cfg, zap.NewNop(), rangeRequest("2024-01-01", "2024-01-03"))
	require.NoError(t, err)

	assert.Equal(t, 1, result.Outcome.Stats.ClosedDates)
	require.Len(t, result.Outcome.Shifts, 2)
	assert.Equal(t, "2024-01-01", result.Outcome.Shifts[0].Date.String())
	assert.Equal(t, "2024-01-03", result.Outcome.Shifts[1].Date.String())
}

func TestGenerateSchedule_RejectsBadRequests(t *testing.T) {
	tests := []struct {
		name    string
		req     GenerateScheduleRequest
		maxDays int
		errMsg  string
	}{
		{
			name:    "start after end",
			req:     rangeRequest("2024-01-05", "2024-01-01"),
			maxDays: 93,
			errMsg:  "start must not be after end",
		},
		{
			name:    "range too long",
			req:     rangeRequest("2024-01-01", "2024-01-10"),
			maxDays: 7,
			errMsg:  "10 days exceeds the limit of 7",
		},
		{
			name:    "missing dates",
			req:     GenerateScheduleRequest{},
			maxDays: 93,
			errMsg:  "start and end dates are required",
		},
		{
			name: "unknown mode",
			req: GenerateScheduleRequest{
				Start: caldate.MustParse("2024-01-01"),
				End:   caldate.MustParse("2024-01-01"),
				Mode:  "merge",
			},
			maxDays: 93,
			errMsg:  "must be overwrite or augment",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newKitchenStore()
			cfg := testConfig()
			cfg.MaxRangeDays = tt.maxDays

			_, err := GenerateSchedule(context.Background(), store, cfg, zap.NewNop(), tt.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))
			assert.Contains(t, err.Error(), tt.errMsg)
			assert.Equal(t, 0, store.saveCalls)
		})
	}
}

func TestGenerateSchedule_InvalidRowIsInputError(t *testing.T) {
	store := newKitchenStore()
	store.timeSlots[1].StartTime = "9am"

	_, err := GenerateSchedule(context.Background(), store, testConfig(), zap.NewNop(), rangeRequest("2024-01-01", "2024-01-03"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	var inputErr *InputError
	require.True(t, errors.As(err, &inputErr))
	assert.Equal(t, "time slot", inputErr.Record)
	assert.Equal(t, "morning", inputErr.ID)
	assert.Equal(t, "start_time", inputErr.Field)
}

func TestGenerateSchedule_StoreErrors(t *testing.T) {
	t.Run("fetch error", func(t *testing.T) {
		store := newKitchenStore()
		store.getDemandErr = errors.New("connection reset")

		_, err := GenerateSchedule(context.Background(), store, testConfig(), zap.NewNop(), rangeRequest("2024-01-01", "2024-01-03"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to fetch demand requirements")
		assert.False(t, errors.Is(err, ErrInvalidInput))
	})

	t.Run("save error", func(t *testing.T) {
		store := newKitchenStore()
		store.saveErr = errors.New("deadlock detected")

		_, err := GenerateSchedule(context.Background(), store, testConfig(), zap.NewNop(), rangeRequest("2024-01-01", "2024-01-03"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to save schedule")
		assert.Equal(t, 1, store.saveCalls)
	})
}

func TestMonthRequest(t *testing.T) {
	m, err := caldate.ParseMonth("2024-02")
	require.NoError(t, err)

	req := MonthRequest(m, model.ModeAugment)

	assert.Equal(t, "2024-02-01", req.Start.String())
	assert.Equal(t, "2024-02-29", req.End.String())
	assert.Equal(t, model.ModeAugment, req.Mode)
}

func TestSeedWindow(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		limits     []model.WorkLimit
		wantFrom   string
		wantTo     string
	}{
		{
			name:     "whole month starting on a Thursday",
			start:    "2024-02-01",
			end:      "2024-02-29",
			wantFrom: "2024-01-28",
			wantTo:   "2024-03-02",
		},
		{
			name:     "mid-month range stays within its month",
			start:    "2024-02-14",
			end:      "2024-02-15",
			wantFrom: "2024-02-01",
			wantTo:   "2024-02-29",
		},
		{
			name:  "widened by the longest streak limit",
			start: "2024-02-14",
			end:   "2024-02-15",
			limits: []model.WorkLimit{
				{StaffID: "a", MaxConsecutiveDays: intPtr(3)},
				{StaffID: "b", MaxConsecutiveDays: intPtr(5)},
				{StaffID: "c"},
			},
			wantFrom: "2024-01-27",
			wantTo:   "2024-03-05",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to := seedWindow(caldate.MustParse(tt.start), caldate.MustParse(tt.end), tt.limits)
			assert.Equal(t, tt.wantFrom, from.String())
			assert.Equal(t, tt.wantTo, to.String())
		})
	}
}
