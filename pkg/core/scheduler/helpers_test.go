package scheduler

import (
	"github.com/jakechorley/staff-rota/pkg/core/caldate"
	"github.com/jakechorley/staff-rota/pkg/core/model"
)

func date(s string) caldate.Date {
	return caldate.MustParse(s)
}

func clock(s string) model.ClockTime {
	return model.MustParseClockTime(s)
}

func clockPtr(s string) *model.ClockTime {
	c := model.MustParseClockTime(s)
	return &c
}

func hours(h float64) *float64 {
	return &h
}

func days(n int) *int {
	return &n
}

func staff(id, role string) model.StaffMember {
	return model.StaffMember{ID: id, Name: id, Role: role, IsActive: true}
}

func slot(id, start, end string, order int) model.TimeSlot {
	return model.TimeSlot{
		ID:           id,
		Name:         id,
		Start:        clock(start),
		End:          clock(end),
		DisplayOrder: order,
		IsActive:     true,
	}
}

func demand(d, slotID, role string, base int) model.DemandRequirement {
	return model.DemandRequirement{
		Date:       date(d),
		TimeSlotID: slotID,
		Role:       role,
		BaseCount:  base,
	}
}

// dailyDemand returns the same demand row for every date in [start, end]
func dailyDemand(start, end, slotID, role string, base int) []model.DemandRequirement {
	var rows []model.DemandRequirement
	for _, d := range caldate.Range(date(start), date(end)) {
		rows = append(rows, model.DemandRequirement{Date: d, TimeSlotID: slotID, Role: role, BaseCount: base})
	}
	return rows
}

func opts(start, end string) Options {
	return Options{StartDate: date(start), EndDate: date(end), Mode: model.ModeOverwrite}
}

func staffIDs(shifts []model.ShiftAssignment) []string {
	ids := make([]string, len(shifts))
	for i, s := range shifts {
		ids[i] = s.StaffID
	}
	return ids
}
