package services

import (
	"context"
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/jakechorley/staff-rota/internal/config"
	"github.com/jakechorley/staff-rota/pkg/clients/sheetsclient"
	"github.com/jakechorley/staff-rota/pkg/core/caldate"
	"github.com/jakechorley/staff-rota/pkg/db"
)

const publishedDateLayout = "Mon Jan 02 2006"

// PublishScheduleStore defines the database operations needed for publishing a schedule
type PublishScheduleStore interface {
	ListScheduleStore
	GetStaff(ctx context.Context) ([]db.Staff, error)
	GetTimeSlots(ctx context.Context) ([]db.TimeSlot, error)
}

// SchedulePublisher writes a schedule to a spreadsheet. sheetsclient.Client implements it.
type SchedulePublisher interface {
	PublishSchedule(spreadsheetID, tabPrefix string, schedule *sheetsclient.PublishedSchedule) error
}

// PublishSchedule publishes the saved schedule for [start, end] to the configured sheet
func PublishSchedule(
	ctx context.Context,
	store PublishScheduleStore,
	publisher SchedulePublisher,
	cfg *config.Config,
	logger *zap.Logger,
	start, end caldate.Date,
) (*sheetsclient.PublishedSchedule, error) {
	if cfg.ScheduleSheetID == "" {
		return nil, fmt.Errorf("scheduleSheetID is not configured")
	}

	view, err := ListSchedule(ctx, store, logger, start, end)
	if err != nil {
		return nil, err
	}
	if len(view.Assignments) == 0 && len(view.Shortages) == 0 {
		return nil, fmt.Errorf("no saved schedule between %s and %s", start, end)
	}

	logger.Debug("Fetching staff")
	staffRows, err := store.GetStaff(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch staff: %w", err)
	}

	logger.Debug("Fetching time slots")
	slotRows, err := store.GetTimeSlots(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch time slots: %w", err)
	}

	published := buildPublishedSchedule(view, staffRows, slotRows)

	logger.Info("Publishing schedule",
		zap.String("sheet_id", cfg.ScheduleSheetID),
		zap.Int("rows", len(published.Rows)),
		zap.Int("shortages", len(published.Shortages)))

	if err := publisher.PublishSchedule(cfg.ScheduleSheetID, cfg.ScheduleTabPrefix, published); err != nil {
		return nil, fmt.Errorf("failed to publish schedule: %w", err)
	}

	logger.Info("Schedule published")
	return published, nil
}

type publishKey struct {
	date   string
	slotID string
	role   string
}

// buildPublishedSchedule groups assignments into one row per date/slot/role, ordered by
// date, slot display order and role. Staff and slots that no longer exist fall back to
// their ids.
func buildPublishedSchedule(view *ScheduleView, staffRows []db.Staff, slotRows []db.TimeSlot) *sheetsclient.PublishedSchedule {
	names := make(map[string]string, len(staffRows))
	for _, s := range staffRows {
		names[s.ID] = s.Name
	}

	slots := make(map[string]db.TimeSlot, len(slotRows))
	for _, s := range slotRows {
		slots[s.ID] = s
	}

	slotLabel := func(id, startTime, endTime string) string {
		if slot, ok := slots[id]; ok && slot.Name != "" {
			return slot.Name
		}
		if id != "" {
			return id
		}
		return startTime + "-" + endTime
	}
	slotOrder := func(id string) int {
		if slot, ok := slots[id]; ok {
			return slot.DisplayOrder
		}
		return math.MaxInt
	}

	var keys []publishKey
	grouped := make(map[publishKey]*sheetsclient.PublishedScheduleRow)
	for _, a := range view.Assignments {
		key := publishKey{a.Date, a.TimeSlotID, a.Role}
		row, ok := grouped[key]
		if !ok {
			row = &sheetsclient.PublishedScheduleRow{
				Date: displayDate(a.Date),
				Slot: slotLabel(a.TimeSlotID, a.StartTime, a.EndTime),
				Role: a.Role,
			}
			grouped[key] = row
			keys = append(keys, key)
		}
		name := names[a.StaffID]
		if name == "" {
			name = a.StaffID
		}
		row.Staff = append(row.Staff, name)
	}

	sort.SliceStable(keys, func(i, j int) bool {
		if keys[i].date != keys[j].date {
			return keys[i].date < keys[j].date
		}
		if oi, oj := slotOrder(keys[i].slotID), slotOrder(keys[j].slotID); oi != oj {
			return oi < oj
		}
		return keys[i].role < keys[j].role
	})

	published := &sheetsclient.PublishedSchedule{
		StartDate: view.Start.String(),
		EndDate:   view.End.String(),
		Rows:      make([]sheetsclient.PublishedScheduleRow, 0, len(keys)),
		Shortages: make([]sheetsclient.PublishedShortage, 0, len(view.Shortages)),
	}
	for _, key := range keys {
		published.Rows = append(published.Rows, *grouped[key])
	}
	for _, s := range view.Shortages {
		published.Shortages = append(published.Shortages, sheetsclient.PublishedShortage{
			Date:     displayDate(s.Date),
			Slot:     slotLabel(s.TimeSlotID, "", ""),
			Role:     s.Role,
			Required: s.RequiredCount,
			Assigned: s.AssignedCount,
			Short:    s.ShortageCount,
		})
	}

	return published
}

func displayDate(s string) string {
	d, err := caldate.Parse(s)
	if err != nil {
		return s
	}
	return d.Format(publishedDateLayout)
}
