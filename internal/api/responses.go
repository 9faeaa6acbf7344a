package api

import (
	"github.com/jakechorley/staff-rota/pkg/core/scheduler"
	"github.com/jakechorley/staff-rota/pkg/core/services"
	"github.com/jakechorley/staff-rota/pkg/db"
)

// GenerateRequest is the body of POST /api/v1/schedules/generate. Either a month or a
// start and end date must be given.
type GenerateRequest struct {
	Start       string `json:"start" binding:"required_without=Month,omitempty,datetime=2006-01-02"`
	End         string `json:"end" binding:"required_without=Month,omitempty,datetime=2006-01-02"`
	Month       string `json:"month" binding:"omitempty,datetime=2006-01"`
	Mode        string `json:"mode" binding:"omitempty,oneof=overwrite augment"`
	DryRun      bool   `json:"dryRun"`
	ForceCommit bool   `json:"forceCommit"`
}

// GenerateResponse reports a generation run
type GenerateResponse struct {
	RunID            string                      `json:"runId"`
	Mode             string                      `json:"mode"`
	Saved            bool                        `json:"saved"`
	Outcome          *scheduler.Outcome          `json:"outcome"`
	ValidationErrors []scheduler.ValidationError `json:"validationErrors"`
}

// AssignmentResponse is one saved shift
type AssignmentResponse struct {
	ID         string `json:"id"`
	RunID      string `json:"runId,omitempty"`
	StaffID    string `json:"staffId"`
	Date       string `json:"date"`
	TimeSlotID string `json:"timeSlotId,omitempty"`
	Role       string `json:"role"`
	Start      string `json:"start"`
	End        string `json:"end"`
}

// ShortageResponse is one saved shortage
type ShortageResponse struct {
	Date          string `json:"date"`
	TimeSlotID    string `json:"timeSlotId"`
	Role          string `json:"role"`
	RequiredCount int    `json:"requiredCount"`
	AssignedCount int    `json:"assignedCount"`
	ShortageCount int    `json:"shortageCount"`
}

// RunResponse describes a saved run
type RunResponse struct {
	ID              string `json:"id"`
	StartDate       string `json:"startDate"`
	EndDate         string `json:"endDate"`
	Mode            string `json:"mode"`
	ShiftCount      int    `json:"shiftCount"`
	ShortageCount   int    `json:"shortageCount"`
	Forced          bool   `json:"forced"`
	CreatedDatetime string `json:"createdDatetime"`
}

// ScheduleResponse is the body of GET /api/v1/schedules
type ScheduleResponse struct {
	Start       string               `json:"start"`
	End         string               `json:"end"`
	Run         *RunResponse         `json:"run,omitempty"`
	Assignments []AssignmentResponse `json:"assignments"`
	Shortages   []ShortageResponse   `json:"shortages"`
}

func newGenerateResponse(result *services.GenerateScheduleResult) GenerateResponse {
	return GenerateResponse{
		RunID:            result.RunID,
		Mode:             string(result.Mode),
		Saved:            result.Saved,
		Outcome:          result.Outcome,
		ValidationErrors: result.ValidationErrors,
	}
}

func newScheduleResponse(view *services.ScheduleView) ScheduleResponse {
	resp := ScheduleResponse{
		Start:       view.Start.String(),
		End:         view.End.String(),
		Assignments: make([]AssignmentResponse, 0, len(view.Assignments)),
		Shortages:   make([]ShortageResponse, 0, len(view.Shortages)),
	}

	if view.Run != nil {
		resp.Run = newRunResponse(*view.Run)
	}
	for _, a := range view.Assignments {
		resp.Assignments = append(resp.Assignments, AssignmentResponse{
			ID:         a.ID,
			RunID:      a.RunID,
			StaffID:    a.StaffID,
			Date:       a.Date,
			TimeSlotID: a.TimeSlotID,
			Role:       a.Role,
			Start:      a.StartTime,
			End:        a.EndTime,
		})
	}
	for _, s := range view.Shortages {
		resp.Shortages = append(resp.Shortages, ShortageResponse{
			Date:          s.Date,
			TimeSlotID:    s.TimeSlotID,
			Role:          s.Role,
			RequiredCount: s.RequiredCount,
			AssignedCount: s.AssignedCount,
			ShortageCount: s.ShortageCount,
		})
	}

	return resp
}

func newRunResponse(r db.ScheduleRun) *RunResponse {
	return &RunResponse{
		ID:              r.ID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		Mode:            r.Mode,
		ShiftCount:      r.ShiftCount,
		ShortageCount:   r.ShortageCount,
		Forced:          r.Forced,
		CreatedDatetime: r.CreatedDatetime,
	}
}
