package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/jakechorley/staff-rota/pkg/db"
)

// GetShiftAssignments retrieves saved assignments dated within [start, end]
func (d *DB) GetShiftAssignments(ctx context.Context, start, end string) ([]db.ShiftAssignment, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, run_id, staff_id, shift_date, time_slot_id, role, start_time, end_time
		FROM shift_assignment
		WHERE shift_date BETWEEN $1 AND $2
		ORDER BY shift_date, start_time, staff_id
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query shift assignments: %w", err)
	}
	defer rows.Close()

	var assignments []db.ShiftAssignment
	for rows.Next() {
		var a db.ShiftAssignment
		var runID, slotID *string
		var date time.Time
		var startTime, endTime pgtype.Time
		if err := rows.Scan(&a.ID, &runID, &a.StaffID, &date, &slotID, &a.Role, &startTime, &endTime); err != nil {
			return nil, fmt.Errorf("failed to scan shift assignment: %w", err)
		}
		if runID != nil {
			a.RunID = *runID
		}
		if slotID != nil {
			a.TimeSlotID = *slotID
		}
		a.Date = formatDate(date)
		a.StartTime = formatClock(startTime)
		a.EndTime = formatClock(endTime)
		assignments = append(assignments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shift assignments: %w", err)
	}

	return assignments, nil
}

// SaveSchedule stores a run, its assignments and its shortages in one transaction.
// With replace set, assignments already saved in the run's range are deleted first.
func (d *DB) SaveSchedule(ctx context.Context, run *db.ScheduleRun, assignments []db.ShiftAssignment, shortages []db.Shortage, replace bool) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if replace {
		if _, err := tx.Exec(ctx, `
			DELETE FROM shift_assignment WHERE shift_date BETWEEN $1 AND $2
		`, run.StartDate, run.EndDate); err != nil {
			return fmt.Errorf("failed to delete existing assignments: %w", err)
		}
	}

	var created time.Time
	err = tx.QueryRow(ctx, `
		INSERT INTO schedule_run (id, start_date, end_date, mode, shift_count, shortage_count, forced)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_datetime
	`, run.ID, run.StartDate, run.EndDate, run.Mode, run.ShiftCount, run.ShortageCount, run.Forced).Scan(&created)
	if err != nil {
		return fmt.Errorf("failed to insert schedule run: %w", err)
	}

	batch := &pgx.Batch{}
	for _, a := range assignments {
		var runID, slotID *string
		if a.RunID != "" {
			runID = &a.RunID
		}
		if a.TimeSlotID != "" {
			slotID = &a.TimeSlotID
		}
		batch.Queue(`
			INSERT INTO shift_assignment (id, run_id, staff_id, shift_date, time_slot_id, role, start_time, end_time)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, a.ID, runID, a.StaffID, a.Date, slotID, a.Role, a.StartTime, a.EndTime)
	}
	for _, s := range shortages {
		batch.Queue(`
			INSERT INTO shortage (id, run_id, shortage_date, time_slot_id, role, required_count, assigned_count, shortage_count)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, s.ID, s.RunID, s.Date, s.TimeSlotID, s.Role, s.RequiredCount, s.AssignedCount, s.ShortageCount)
	}

	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to insert schedule rows: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	run.CreatedDatetime = created.UTC().Format(time.RFC3339)
	return nil
}

// GetScheduleRuns retrieves all runs, newest first
func (d *DB) GetScheduleRuns(ctx context.Context) ([]db.ScheduleRun, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, start_date, end_date, mode, shift_count, shortage_count, forced, created_datetime
		FROM schedule_run
		ORDER BY created_datetime DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule runs: %w", err)
	}
	defer rows.Close()

	var runs []db.ScheduleRun
	for rows.Next() {
		var r db.ScheduleRun
		var start, end, created time.Time
		if err := rows.Scan(&r.ID, &start, &end, &r.Mode, &r.ShiftCount, &r.ShortageCount, &r.Forced, &created); err != nil {
			return nil, fmt.Errorf("failed to scan schedule run: %w", err)
		}
		r.StartDate = formatDate(start)
		r.EndDate = formatDate(end)
		r.CreatedDatetime = created.UTC().Format(time.RFC3339)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating schedule runs: %w", err)
	}

	return runs, nil
}

// GetShortages retrieves the shortages recorded by a run
func (d *DB) GetShortages(ctx context.Context, runID string) ([]db.Shortage, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, run_id, shortage_date, time_slot_id, role, required_count, assigned_count, shortage_count
		FROM shortage
		WHERE run_id = $1
		ORDER BY shortage_date, time_slot_id, role
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query shortages: %w", err)
	}

	shortages, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (db.Shortage, error) {
		var s db.Shortage
		var date time.Time
		if err := row.Scan(&s.ID, &s.RunID, &date, &s.TimeSlotID, &s.Role, &s.RequiredCount, &s.AssignedCount, &s.ShortageCount); err != nil {
			return s, err
		}
		s.Date = formatDate(date)
		return s, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan shortages: %w", err)
	}

	return shortages, nil
}
