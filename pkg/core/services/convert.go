package services

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/jakechorley/staff-rota/pkg/core/caldate"
	"github.com/jakechorley/staff-rota/pkg/core/model"
	"github.com/jakechorley/staff-rota/pkg/db"
)

var validate = validator.New()

// checkField validates one stored value against a validator tag
func checkField(record, id, field string, value any, tag string) error {
	if err := validate.Var(value, tag); err != nil {
		return &InputError{Record: record, ID: id, Field: field, Message: fmt.Sprintf("must satisfy %q, got %v", tag, value)}
	}
	return nil
}

func parseDate(record, id, field, value string) (caldate.Date, error) {
	d, err := caldate.Parse(value)
	if err != nil {
		return caldate.Date{}, &InputError{Record: record, ID: id, Field: field, Message: fmt.Sprintf("is not a date: %q", value)}
	}
	return d, nil
}

func parseClock(record, id, field, value string) (model.ClockTime, error) {
	c, err := model.ParseClockTime(value)
	if err != nil {
		return 0, &InputError{Record: record, ID: id, Field: field, Message: fmt.Sprintf("is not an HH:MM time: %q", value)}
	}
	return c, nil
}

func convertStaff(rows []db.Staff) ([]model.StaffMember, error) {
	staff := make([]model.StaffMember, 0, len(rows))
	for _, row := range rows {
		if err := checkField("staff", row.ID, "id", row.ID, "required"); err != nil {
			return nil, err
		}
		if err := checkField("staff", row.ID, "role", row.Role, "required"); err != nil {
			return nil, err
		}
		staff = append(staff, model.StaffMember{
			ID:       row.ID,
			Name:     row.Name,
			Role:     row.Role,
			IsActive: row.IsActive,
		})
	}
	return staff, nil
}

func convertTimeSlots(rows []db.TimeSlot) ([]model.TimeSlot, error) {
	slots := make([]model.TimeSlot, 0, len(rows))
	for _, row := range rows {
		if err := checkField("time slot", row.ID, "id", row.ID, "required"); err != nil {
			return nil, err
		}
		start, err := parseClock("time slot", row.ID, "start_time", row.StartTime)
		if err != nil {
			return nil, err
		}
		end, err := parseClock("time slot", row.ID, "end_time", row.EndTime)
		if err != nil {
			return nil, err
		}
		if start == end {
			return nil, &InputError{Record: "time slot", ID: row.ID, Field: "end_time", Message: "must differ from start_time"}
		}
		slots = append(slots, model.TimeSlot{
			ID:           row.ID,
			Name:         row.Name,
			Start:        start,
			End:          end,
			DisplayOrder: row.DisplayOrder,
			IsActive:     row.IsActive,
		})
	}
	return slots, nil
}

// convertDemand rejects rows pointing at unknown slots and negative counts, which
// would break the monotonicity of the adjusted headcount
func convertDemand(rows []db.DemandRequirement, slots []model.TimeSlot) ([]model.DemandRequirement, error) {
	known := make(map[string]bool, len(slots))
	for _, slot := range slots {
		known[slot.ID] = true
	}

	demand := make([]model.DemandRequirement, 0, len(rows))
	for _, row := range rows {
		date, err := parseDate("demand requirement", row.ID, "date", row.Date)
		if err != nil {
			return nil, err
		}
		if !known[row.TimeSlotID] {
			return nil, &InputError{Record: "demand requirement", ID: row.ID, Field: "time_slot_id", Message: fmt.Sprintf("references unknown slot %q", row.TimeSlotID)}
		}
		if err := checkField("demand requirement", row.ID, "role", row.Role, "required"); err != nil {
			return nil, err
		}
		if err := checkField("demand requirement", row.ID, "base_count", row.BaseCount, "gte=0"); err != nil {
			return nil, err
		}
		if err := checkField("demand requirement", row.ID, "occupancy_bonus", row.OccupancyBonus, "gte=0"); err != nil {
			return nil, err
		}
		if err := checkField("demand requirement", row.ID, "banquet_bonus", row.BanquetBonus, "gte=0"); err != nil {
			return nil, err
		}
		demand = append(demand, model.DemandRequirement{
			Date:           date,
			TimeSlotID:     row.TimeSlotID,
			Role:           row.Role,
			BaseCount:      row.BaseCount,
			OccupancyBonus: row.OccupancyBonus,
			BanquetBonus:   row.BanquetBonus,
		})
	}
	return demand, nil
}

func convertOccupancy(rows []db.Occupancy) ([]model.OccupancyRecord, error) {
	records := make([]model.OccupancyRecord, 0, len(rows))
	for _, row := range rows {
		date, err := parseDate("occupancy", row.Date, "date", row.Date)
		if err != nil {
			return nil, err
		}
		if err := checkField("occupancy", row.Date, "occupancy_rate", row.OccupancyRate, "gte=0,lte=100"); err != nil {
			return nil, err
		}
		records = append(records, model.OccupancyRecord{
			Date:          date,
			OccupancyRate: row.OccupancyRate,
			HasBanquet:    row.HasBanquet,
		})
	}
	return records, nil
}

func convertAvailability(rows []db.AvailabilityRule) ([]model.AvailabilityRule, error) {
	rules := make([]model.AvailabilityRule, 0, len(rows))
	for _, row := range rows {
		if err := checkField("availability rule", row.ID, "day_of_week", row.DayOfWeek, "min=0,max=6"); err != nil {
			return nil, err
		}

		rule := model.AvailabilityRule{
			StaffID:     row.StaffID,
			DayOfWeek:   row.DayOfWeek,
			IsAvailable: row.IsAvailable,
		}

		if (row.AvailableStart == "") != (row.AvailableEnd == "") {
			return nil, &InputError{Record: "availability rule", ID: row.ID, Field: "available_end", Message: "window needs both a start and an end"}
		}
		if row.AvailableStart != "" {
			start, err := parseClock("availability rule", row.ID, "available_start", row.AvailableStart)
			if err != nil {
				return nil, err
			}
			end, err := parseClock("availability rule", row.ID, "available_end", row.AvailableEnd)
			if err != nil {
				return nil, err
			}
			if start == end {
				return nil, &InputError{Record: "availability rule", ID: row.ID, Field: "available_end", Message: "must differ from available_start"}
			}
			rule.AvailableStart = &start
			rule.AvailableEnd = &end
		}

		rules = append(rules, rule)
	}
	return rules, nil
}

func convertUnavailability(rows []db.UnavailabilityRequest) ([]model.UnavailabilityRequest, error) {
	requests := make([]model.UnavailabilityRequest, 0, len(rows))
	for _, row := range rows {
		date, err := parseDate("unavailability request", row.ID, "date", row.Date)
		if err != nil {
			return nil, err
		}
		if err := checkField("unavailability request", row.ID, "type", row.Type, "oneof=all_day slot_specific"); err != nil {
			return nil, err
		}
		if err := checkField("unavailability request", row.ID, "status", row.Status, "oneof=pending approved rejected"); err != nil {
			return nil, err
		}
		if model.UnavailabilityType(row.Type) == model.UnavailabilitySlotSpecific {
			if err := checkField("unavailability request", row.ID, "time_slot_ids", row.TimeSlotIDs, "min=1,dive,required"); err != nil {
				return nil, err
			}
		}
		requests = append(requests, model.UnavailabilityRequest{
			ID:          row.ID,
			StaffID:     row.StaffID,
			Date:        date,
			Type:        model.UnavailabilityType(row.Type),
			TimeSlotIDs: row.TimeSlotIDs,
			Status:      model.RequestStatus(row.Status),
		})
	}
	return requests, nil
}

func convertWorkLimits(rows []db.WorkLimit) ([]model.WorkLimit, error) {
	limits := make([]model.WorkLimit, 0, len(rows))
	for _, row := range rows {
		if row.MaxWeeklyHours != nil {
			if err := checkField("work limit", row.StaffID, "max_weekly_hours", *row.MaxWeeklyHours, "gte=0"); err != nil {
				return nil, err
			}
		}
		if row.MaxMonthlyHours != nil {
			if err := checkField("work limit", row.StaffID, "max_monthly_hours", *row.MaxMonthlyHours, "gte=0"); err != nil {
				return nil, err
			}
		}
		if row.MaxConsecutiveDays != nil {
			if err := checkField("work limit", row.StaffID, "max_consecutive_days", *row.MaxConsecutiveDays, "min=1"); err != nil {
				return nil, err
			}
		}
		limits = append(limits, model.WorkLimit{
			StaffID:            row.StaffID,
			MaxWeeklyHours:     row.MaxWeeklyHours,
			MaxMonthlyHours:    row.MaxMonthlyHours,
			MaxConsecutiveDays: row.MaxConsecutiveDays,
		})
	}
	return limits, nil
}

func convertAssignments(rows []db.ShiftAssignment) ([]model.ShiftAssignment, error) {
	assignments := make([]model.ShiftAssignment, 0, len(rows))
	for _, row := range rows {
		date, err := parseDate("shift assignment", row.ID, "date", row.Date)
		if err != nil {
			return nil, err
		}
		start, err := parseClock("shift assignment", row.ID, "start_time", row.StartTime)
		if err != nil {
			return nil, err
		}
		end, err := parseClock("shift assignment", row.ID, "end_time", row.EndTime)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, model.ShiftAssignment{
			StaffID:    row.StaffID,
			Date:       date,
			TimeSlotID: row.TimeSlotID,
			Role:       row.Role,
			Start:      start,
			End:        end,
		})
	}
	return assignments, nil
}

// toDBAssignments converts engine output into rows for a run
func toDBAssignments(runID string, shifts []model.ShiftAssignment, newID func() string) []db.ShiftAssignment {
	rows := make([]db.ShiftAssignment, 0, len(shifts))
	for _, s := range shifts {
		rows = append(rows, db.ShiftAssignment{
			ID:         newID(),
			RunID:      runID,
			StaffID:    s.StaffID,
			Date:       s.Date.String(),
			TimeSlotID: s.TimeSlotID,
			Role:       s.Role,
			StartTime:  s.Start.String(),
			EndTime:    s.End.String(),
		})
	}
	return rows
}

func toDBShortages(runID string, shortages []model.ShortageRecord, newID func() string) []db.Shortage {
	rows := make([]db.Shortage, 0, len(shortages))
	for _, s := range shortages {
		rows = append(rows, db.Shortage{
			ID:            newID(),
			RunID:         runID,
			Date:          s.Date.String(),
			TimeSlotID:    s.TimeSlotID,
			Role:          s.Role,
			RequiredCount: s.RequiredCount,
			AssignedCount: s.AssignedCount,
			ShortageCount: s.ShortageCount,
		})
	}
	return rows
}
