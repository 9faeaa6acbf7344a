package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/staff-rota/pkg/db"
)

// GetDemandRequirements retrieves demand rows dated within [start, end]. Rows keep their
// insertion order per date and slot, which is the order the scheduler fills them in.
func (d *DB) GetDemandRequirements(ctx context.Context, start, end string) ([]db.DemandRequirement, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, demand_date, time_slot_id, role, base_count, occupancy_bonus, banquet_bonus
		FROM demand_requirement
		WHERE demand_date BETWEEN $1 AND $2
		ORDER BY demand_date, time_slot_id, seq
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query demand requirements: %w", err)
	}
	defer rows.Close()

	var requirements []db.DemandRequirement
	for rows.Next() {
		var r db.DemandRequirement
		var date time.Time
		if err := rows.Scan(&r.ID, &date, &r.TimeSlotID, &r.Role, &r.BaseCount, &r.OccupancyBonus, &r.BanquetBonus); err != nil {
			return nil, fmt.Errorf("failed to scan demand requirement: %w", err)
		}
		r.Date = formatDate(date)
		requirements = append(requirements, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating demand requirements: %w", err)
	}

	return requirements, nil
}

// GetOccupancy retrieves occupancy forecasts within [start, end]
func (d *DB) GetOccupancy(ctx context.Context, start, end string) ([]db.Occupancy, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT occupancy_date, occupancy_rate, has_banquet
		FROM occupancy
		WHERE occupancy_date BETWEEN $1 AND $2
		ORDER BY occupancy_date
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query occupancy: %w", err)
	}

	occupancy, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (db.Occupancy, error) {
		var o db.Occupancy
		var date time.Time
		if err := row.Scan(&date, &o.OccupancyRate, &o.HasBanquet); err != nil {
			return o, err
		}
		o.Date = formatDate(date)
		return o, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan occupancy: %w", err)
	}

	return occupancy, nil
}

// GetUnavailabilityRequests retrieves time off requests of any status within [start, end]
func (d *DB) GetUnavailabilityRequests(ctx context.Context, start, end string) ([]db.UnavailabilityRequest, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, staff_id, request_date, request_type, time_slot_ids, status
		FROM unavailability_request
		WHERE request_date BETWEEN $1 AND $2
		ORDER BY request_date, staff_id, id
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query unavailability requests: %w", err)
	}
	defer rows.Close()

	var requests []db.UnavailabilityRequest
	for rows.Next() {
		var r db.UnavailabilityRequest
		var date time.Time
		if err := rows.Scan(&r.ID, &r.StaffID, &date, &r.Type, &r.TimeSlotIDs, &r.Status); err != nil {
			return nil, fmt.Errorf("failed to scan unavailability request: %w", err)
		}
		r.Date = formatDate(date)
		requests = append(requests, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating unavailability requests: %w", err)
	}

	return requests, nil
}
