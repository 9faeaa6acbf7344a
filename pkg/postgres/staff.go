package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/jakechorley/staff-rota/pkg/db"
)

// GetStaff retrieves the roster ordered by id. Roster order is the tie-break order when
// scheduling, so it must be stable between runs.
func (d *DB) GetStaff(ctx context.Context) ([]db.Staff, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, name, role, is_active
		FROM staff
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query staff: %w", err)
	}
	defer rows.Close()

	var staff []db.Staff
	for rows.Next() {
		var s db.Staff
		if err := rows.Scan(&s.ID, &s.Name, &s.Role, &s.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan staff: %w", err)
		}
		staff = append(staff, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating staff: %w", err)
	}

	return staff, nil
}

// GetTimeSlots retrieves all time slots, active or not
func (d *DB) GetTimeSlots(ctx context.Context) ([]db.TimeSlot, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, name, start_time, end_time, display_order, is_active
		FROM time_slot
		ORDER BY display_order, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query time slots: %w", err)
	}
	defer rows.Close()

	var slots []db.TimeSlot
	for rows.Next() {
		var s db.TimeSlot
		var start, end pgtype.Time
		if err := rows.Scan(&s.ID, &s.Name, &start, &end, &s.DisplayOrder, &s.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan time slot: %w", err)
		}
		s.StartTime = formatClock(start)
		s.EndTime = formatClock(end)
		slots = append(slots, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating time slots: %w", err)
	}

	return slots, nil
}

// GetAvailabilityRules retrieves every weekday availability rule
func (d *DB) GetAvailabilityRules(ctx context.Context) ([]db.AvailabilityRule, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, staff_id, day_of_week, is_available, available_start, available_end
		FROM availability_rule
		ORDER BY staff_id, day_of_week, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query availability rules: %w", err)
	}
	defer rows.Close()

	var rules []db.AvailabilityRule
	for rows.Next() {
		var r db.AvailabilityRule
		var start, end pgtype.Time
		if err := rows.Scan(&r.ID, &r.StaffID, &r.DayOfWeek, &r.IsAvailable, &start, &end); err != nil {
			return nil, fmt.Errorf("failed to scan availability rule: %w", err)
		}
		r.AvailableStart = formatClock(start)
		r.AvailableEnd = formatClock(end)
		rules = append(rules, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating availability rules: %w", err)
	}

	return rules, nil
}

// GetWorkLimits retrieves the per-staff limits
func (d *DB) GetWorkLimits(ctx context.Context) ([]db.WorkLimit, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT staff_id, max_weekly_hours, max_monthly_hours, max_consecutive_days
		FROM work_limit
		ORDER BY staff_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query work limits: %w", err)
	}
	defer rows.Close()

	var limits []db.WorkLimit
	for rows.Next() {
		var l db.WorkLimit
		if err := rows.Scan(&l.StaffID, &l.MaxWeeklyHours, &l.MaxMonthlyHours, &l.MaxConsecutiveDays); err != nil {
			return nil, fmt.Errorf("failed to scan work limit: %w", err)
		}
		limits = append(limits, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating work limits: %w", err)
	}

	return limits, nil
}
