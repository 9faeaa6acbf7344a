package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/staff-rota/pkg/core/caldate"
	"github.com/jakechorley/staff-rota/pkg/db"
)

// ListScheduleStore defines the database operations needed for reading a saved schedule
type ListScheduleStore interface {
	GetShiftAssignments(ctx context.Context, start, end string) ([]db.ShiftAssignment, error)
	db.ScheduleRunStore
}

// ScheduleView is the saved schedule for a range
type ScheduleView struct {
	Start       caldate.Date
	End         caldate.Date
	Assignments []db.ShiftAssignment

	// Run is the latest run covering the whole range, nil if there is none
	Run *db.ScheduleRun

	// Shortages are the Run's shortages that fall inside the range
	Shortages []db.Shortage
}

// ListSchedule returns the saved assignments in [start, end] along with the shortages
// recorded by the most recent run that covered the range
func ListSchedule(ctx context.Context, store ListScheduleStore, logger *zap.Logger, start, end caldate.Date) (*ScheduleView, error) {
	if end.Before(start) {
		return nil, &RangeError{Start: start.String(), End: end.String(), Message: "start must not be after end"}
	}

	logger.Debug("Fetching shift assignments", zap.Stringer("start", start), zap.Stringer("end", end))
	assignments, err := store.GetShiftAssignments(ctx, start.String(), end.String())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shift assignments: %w", err)
	}
	logger.Debug("Found shift assignments", zap.Int("count", len(assignments)))

	view := &ScheduleView{
		Start:       start,
		End:         end,
		Assignments: assignments,
		Shortages:   []db.Shortage{},
	}

	logger.Debug("Fetching schedule runs")
	runs, err := store.GetScheduleRuns(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedule runs: %w", err)
	}

	run, ok := db.LatestRunCovering(runs, start.String(), end.String())
	if !ok {
		logger.Debug("No run covers the range")
		return view, nil
	}
	view.Run = &run
	logger.Debug("Using latest covering run", zap.String("run_id", run.ID), zap.String("created", run.CreatedDatetime))

	shortages, err := store.GetShortages(ctx, run.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shortages: %w", err)
	}
	for _, s := range shortages {
		if s.Date >= start.String() && s.Date <= end.String() {
			view.Shortages = append(view.Shortages, s)
		}
	}

	return view, nil
}
