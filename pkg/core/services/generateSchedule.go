package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/staff-rota/internal/config"
	"github.com/jakechorley/staff-rota/pkg/core/caldate"
	"github.com/jakechorley/staff-rota/pkg/core/model"
	"github.com/jakechorley/staff-rota/pkg/core/scheduler"
	"github.com/jakechorley/staff-rota/pkg/db"
)

// GenerateScheduleStore defines the database operations needed for generating a schedule
type GenerateScheduleStore interface {
	db.ScheduleInputStore
	db.ScheduleWriteStore
}

// GenerateScheduleRequest describes one generation run
type GenerateScheduleRequest struct {
	Start caldate.Date
	End   caldate.Date

	// Mode falls back to the configured default when empty
	Mode model.Mode

	// DryRun skips saving
	DryRun bool

	// ForceCommit saves even when the outcome fails validation
	ForceCommit bool
}

// MonthRequest returns a request covering a whole calendar month
func MonthRequest(m caldate.Month, mode model.Mode) GenerateScheduleRequest {
	return GenerateScheduleRequest{Start: m.First(), End: m.Last(), Mode: mode}
}

// GenerateScheduleResult contains the generation results
type GenerateScheduleResult struct {
	RunID            string
	Mode             model.Mode
	Outcome          *scheduler.Outcome
	ValidationErrors []scheduler.ValidationError
	Saved            bool
}

// GenerateSchedule loads the inputs for the requested range, runs the scheduler and
// saves the run unless this is a dry run or the outcome failed validation without
// ForceCommit. Shortages never block saving.
func GenerateSchedule(
	ctx context.Context,
	store GenerateScheduleStore,
	cfg *config.Config,
	logger *zap.Logger,
	req GenerateScheduleRequest,
) (*GenerateScheduleResult, error) {
	if req.Mode == "" {
		req.Mode = model.Mode(cfg.DefaultMode)
	}
	if req.Mode == "" {
		req.Mode = model.ModeOverwrite
	}

	logger.Debug("Starting generateSchedule",
		zap.Stringer("start", req.Start),
		zap.Stringer("end", req.End),
		zap.String("mode", string(req.Mode)),
		zap.Bool("dry_run", req.DryRun),
		zap.Bool("force_commit", req.ForceCommit))

	if err := checkRequest(req, cfg.MaxRangeDays); err != nil {
		return nil, err
	}

	input, err := loadScheduleInput(ctx, store, cfg, logger, req)
	if err != nil {
		return nil, err
	}

	opts := scheduler.Options{
		StartDate:               req.Start,
		EndDate:                 req.End,
		Mode:                    req.Mode,
		RequireAvailabilityRule: cfg.RequireAvailabilityRule,
	}

	logger.Info("Running scheduler")
	outcome := scheduler.Generate(input, opts)
	logger.Info("Scheduling completed",
		zap.Bool("success", outcome.Success),
		zap.Int("shifts", len(outcome.Shifts)),
		zap.Int("shortages", len(outcome.Shortages)),
		zap.Int("closed_dates", outcome.Stats.ClosedDates))

	for _, s := range outcome.Shortages {
		logger.Warn("Shortage",
			zap.Stringer("date", s.Date),
			zap.String("time_slot_id", s.TimeSlotID),
			zap.String("role", s.Role),
			zap.Int("required", s.RequiredCount),
			zap.Int("assigned", s.AssignedCount),
			zap.Any("rejections", s.Rejections))
	}

	validationErrors := scheduler.ValidateOutcome(input, opts, outcome)
	for _, verr := range validationErrors {
		logger.Warn("Validation error",
			zap.String("check", verr.Check),
			zap.String("staff_id", verr.StaffID),
			zap.Stringer("date", verr.Date),
			zap.String("description", verr.Description))
	}

	result := &GenerateScheduleResult{
		RunID:            uuid.New().String(),
		Mode:             req.Mode,
		Outcome:          outcome,
		ValidationErrors: validationErrors,
	}

	valid := len(validationErrors) == 0
	shouldSave := !req.DryRun && (valid || req.ForceCommit)

	if !shouldSave {
		if req.DryRun {
			logger.Info("Dry run mode - schedule not saved")
		} else {
			logger.Warn("Schedule failed validation - not saving to database (use forceCommit to save anyway)")
		}
		return result, nil
	}

	run := &db.ScheduleRun{
		ID:            result.RunID,
		StartDate:     req.Start.String(),
		EndDate:       req.End.String(),
		Mode:          string(req.Mode),
		ShiftCount:    len(outcome.Shifts),
		ShortageCount: len(outcome.Shortages),
		Forced:        !valid,
	}
	newID := func() string { return uuid.New().String() }
	assignments := toDBAssignments(run.ID, outcome.Shifts, newID)
	shortages := toDBShortages(run.ID, outcome.Shortages, newID)

	logger.Info("Saving schedule to database",
		zap.String("run_id", run.ID),
		zap.Bool("replace", req.Mode == model.ModeOverwrite),
		zap.Bool("forced", run.Forced))

	if err := store.SaveSchedule(ctx, run, assignments, shortages, req.Mode == model.ModeOverwrite); err != nil {
		return nil, fmt.Errorf("failed to save schedule: %w", err)
	}

	logger.Info("Schedule saved",
		zap.Int("assignments", len(assignments)),
		zap.Int("shortages", len(shortages)))

	result.Saved = true
	return result, nil
}

func checkRequest(req GenerateScheduleRequest, maxRangeDays int) error {
	start, end := req.Start.String(), req.End.String()

	if req.Start.IsZero() || req.End.IsZero() {
		return &RangeError{Start: start, End: end, Message: "start and end dates are required"}
	}
	if req.End.Before(req.Start) {
		return &RangeError{Start: start, End: end, Message: "start must not be after end"}
	}
	if days := req.Start.DaysUntil(req.End) + 1; maxRangeDays > 0 && days > maxRangeDays {
		return &RangeError{Start: start, End: end, Message: fmt.Sprintf("%d days exceeds the limit of %d", days, maxRangeDays)}
	}
	if !req.Mode.IsValid() {
		return &InputError{Record: "request", Field: "mode", Message: fmt.Sprintf("must be overwrite or augment, got %q", req.Mode)}
	}
	return nil
}

// loadScheduleInput fetches and converts everything the scheduler reads for req
func loadScheduleInput(
	ctx context.Context,
	store db.ScheduleInputStore,
	cfg *config.Config,
	logger *zap.Logger,
	req GenerateScheduleRequest,
) (scheduler.Input, error) {
	var input scheduler.Input
	start, end := req.Start.String(), req.End.String()

	logger.Debug("Fetching staff")
	staffRows, err := store.GetStaff(ctx)
	if err != nil {
		return input, fmt.Errorf("failed to fetch staff: %w", err)
	}
	if input.Staff, err = convertStaff(staffRows); err != nil {
		return input, err
	}
	logger.Debug("Found staff", zap.Int("count", len(input.Staff)))

	logger.Debug("Fetching time slots")
	slotRows, err := store.GetTimeSlots(ctx)
	if err != nil {
		return input, fmt.Errorf("failed to fetch time slots: %w", err)
	}
	if input.TimeSlots, err = convertTimeSlots(slotRows); err != nil {
		return input, err
	}
	logger.Debug("Found time slots", zap.Int("count", len(input.TimeSlots)))

	logger.Debug("Fetching demand requirements")
	demandRows, err := store.GetDemandRequirements(ctx, start, end)
	if err != nil {
		return input, fmt.Errorf("failed to fetch demand requirements: %w", err)
	}
	if input.Demand, err = convertDemand(demandRows, input.TimeSlots); err != nil {
		return input, err
	}
	logger.Debug("Found demand requirements", zap.Int("count", len(input.Demand)))

	logger.Debug("Fetching occupancy")
	occupancyRows, err := store.GetOccupancy(ctx, start, end)
	if err != nil {
		return input, fmt.Errorf("failed to fetch occupancy: %w", err)
	}
	if input.Occupancy, err = convertOccupancy(occupancyRows); err != nil {
		return input, err
	}

	logger.Debug("Fetching availability rules")
	availabilityRows, err := store.GetAvailabilityRules(ctx)
	if err != nil {
		return input, fmt.Errorf("failed to fetch availability rules: %w", err)
	}
	if input.Availability, err = convertAvailability(availabilityRows); err != nil {
		return input, err
	}

	logger.Debug("Fetching unavailability requests")
	unavailabilityRows, err := store.GetUnavailabilityRequests(ctx, start, end)
	if err != nil {
		return input, fmt.Errorf("failed to fetch unavailability requests: %w", err)
	}
	if input.Unavailability, err = convertUnavailability(unavailabilityRows); err != nil {
		return input, err
	}

	logger.Debug("Fetching work limits")
	limitRows, err := store.GetWorkLimits(ctx)
	if err != nil {
		return input, fmt.Errorf("failed to fetch work limits: %w", err)
	}
	if input.WorkLimits, err = convertWorkLimits(limitRows); err != nil {
		return input, err
	}

	if req.Mode == model.ModeAugment {
		seedStart, seedEnd := seedWindow(req.Start, req.End, input.WorkLimits)
		logger.Debug("Fetching existing assignments",
			zap.Stringer("from", seedStart),
			zap.Stringer("to", seedEnd))
		assignmentRows, err := store.GetShiftAssignments(ctx, seedStart.String(), seedEnd.String())
		if err != nil {
			return input, fmt.Errorf("failed to fetch shift assignments: %w", err)
		}
		if input.ExistingAssignments, err = convertAssignments(assignmentRows); err != nil {
			return input, err
		}
		logger.Debug("Found existing assignments", zap.Int("count", len(input.ExistingAssignments)))
	}

	if input.ClosedDates, err = closedDates(cfg.Closures, req.Start, req.End); err != nil {
		return input, err
	}
	logger.Debug("Expanded closures", zap.Int("closed_dates", len(input.ClosedDates)))

	return input, nil
}

// seedWindow returns the span of stored assignments that can affect eligibility in
// [start, end]: the weeks and months the range touches, widened by the longest
// consecutive-day limit on both sides so streaks running into the range are seen.
func seedWindow(start, end caldate.Date, limits []model.WorkLimit) (caldate.Date, caldate.Date) {
	longest := 0
	for _, l := range limits {
		if l.MaxConsecutiveDays != nil && *l.MaxConsecutiveDays > longest {
			longest = *l.MaxConsecutiveDays
		}
	}

	from := start.MonthOf().First()
	if ws := start.WeekStart(); ws.Before(from) {
		from = ws
	}

	to := end.MonthOf().Last()
	if we := end.WeekStart().AddDays(6); we.After(to) {
		to = we
	}

	return from.AddDays(-longest), to.AddDays(longest)
}
