package sheetsclient

import (
	"fmt"
	"strings"
	"time"
)

const (
	displayDateLayout = "Mon Jan 02 2006"
	headerRowIndex    = 2 // two empty rows sit above the header
	notesColumn       = "Notes"
)

// PublishedScheduleRow is one date/slot/role line of the published schedule
type PublishedScheduleRow struct {
	Date  string // Format: "Mon Jan 02 2006"
	Slot  string
	Role  string
	Staff []string // display names
}

// PublishedShortage is one unfilled demand line
type PublishedShortage struct {
	Date     string
	Slot     string
	Role     string
	Required int
	Assigned int
	Short    int
}

// PublishedSchedule represents the complete published schedule
type PublishedSchedule struct {
	StartDate string // Format: "2006-01-02"
	EndDate   string
	Rows      []PublishedScheduleRow
	Shortages []PublishedShortage
}

// PublishSchedule writes a schedule to its own tab, titled
// "<prefix> Mon Jan 01 2024 - Wed Jan 31 2024". An existing tab is rewritten in place,
// keeping whatever was typed into the Notes column for rows that are still present.
func (c *Client) PublishSchedule(spreadsheetID, tabPrefix string, schedule *PublishedSchedule) error {
	tabTitle, err := TabTitle(tabPrefix, schedule.StartDate, schedule.EndDate)
	if err != nil {
		return fmt.Errorf("failed to generate tab title: %w", err)
	}

	exists, err := c.HasSheet(spreadsheetID, tabTitle)
	if err != nil {
		return err
	}

	var existing [][]interface{}
	if exists {
		existing, err = c.GetValues(spreadsheetID, fmt.Sprintf("'%s'!A1:ZZ", tabTitle))
		if err != nil {
			return fmt.Errorf("failed to read existing tab data: %w", err)
		}
		if err := c.ClearValues(spreadsheetID, fmt.Sprintf("'%s'!A1:ZZ", tabTitle)); err != nil {
			return fmt.Errorf("failed to clear existing tab: %w", err)
		}
	} else {
		if _, err := c.CreateSheet(spreadsheetID, tabTitle); err != nil {
			return fmt.Errorf("failed to create tab: %w", err)
		}
	}

	values := BuildScheduleValues(schedule, existing)
	if err := c.WriteValues(spreadsheetID, fmt.Sprintf("'%s'!A1", tabTitle), values); err != nil {
		return fmt.Errorf("failed to write schedule: %w", err)
	}

	return nil
}

// TabTitle creates a tab title in the format "Schedule Mon Jan 01 2024 - Wed Jan 31 2024"
func TabTitle(prefix, startDate, endDate string) (string, error) {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return "", fmt.Errorf("invalid start date: %w", err)
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return "", fmt.Errorf("invalid end date: %w", err)
	}

	title := fmt.Sprintf("%s - %s", start.Format(displayDateLayout), end.Format(displayDateLayout))
	if prefix != "" {
		title = prefix + " " + title
	}
	return title, nil
}

// BuildScheduleValues lays out the schedule grid followed by a shortage section.
// existing is the tab's previous content, if any, and only supplies Notes values.
func BuildScheduleValues(schedule *PublishedSchedule, existing [][]interface{}) [][]interface{} {
	notes := existingNotes(existing)

	maxStaff := 0
	for _, row := range schedule.Rows {
		maxStaff = max(maxStaff, len(row.Staff))
	}

	header := []interface{}{"Date", "Slot", "Role"}
	for i := range maxStaff {
		header = append(header, fmt.Sprintf("Staff %d", i+1))
	}
	header = append(header, notesColumn)

	values := [][]interface{}{{}, {}, header}

	for _, row := range schedule.Rows {
		sheetRow := []interface{}{row.Date, row.Slot, row.Role}
		for i := range maxStaff {
			if i < len(row.Staff) {
				sheetRow = append(sheetRow, row.Staff[i])
			} else {
				sheetRow = append(sheetRow, "")
			}
		}
		note, ok := notes[rowKey(row.Date, row.Slot, row.Role)]
		if !ok {
			note = ""
		}
		sheetRow = append(sheetRow, note)
		values = append(values, sheetRow)
	}

	if len(schedule.Shortages) > 0 {
		values = append(values,
			[]interface{}{},
			[]interface{}{"Shortages"},
			[]interface{}{"Date", "Slot", "Role", "Required", "Assigned", "Short"},
		)
		for _, s := range schedule.Shortages {
			values = append(values, []interface{}{s.Date, s.Slot, s.Role, s.Required, s.Assigned, s.Short})
		}
	}

	return values
}

// existingNotes reads the Notes column of a previously published grid, keyed by row
func existingNotes(existing [][]interface{}) map[string]interface{} {
	notes := make(map[string]interface{})
	if len(existing) <= headerRowIndex {
		return notes
	}

	header := existing[headerRowIndex]
	notesCol := findColumnIndex(header, notesColumn)
	dateCol := findColumnIndex(header, "Date")
	slotCol := findColumnIndex(header, "Slot")
	roleCol := findColumnIndex(header, "Role")
	if notesCol == -1 || dateCol == -1 || slotCol == -1 || roleCol == -1 {
		return notes
	}

	for _, row := range existing[headerRowIndex+1:] {
		// The grid ends at the first blank row
		if len(row) == 0 {
			break
		}
		if notesCol >= len(row) {
			continue
		}
		key := rowKey(cellString(row, dateCol), cellString(row, slotCol), cellString(row, roleCol))
		notes[key] = row[notesCol]
	}

	return notes
}

func rowKey(date, slot, role string) string {
	return strings.Join([]string{date, slot, role}, "|")
}

func cellString(row []interface{}, col int) string {
	if col >= len(row) {
		return ""
	}
	s, _ := row[col].(string)
	return s
}

// findColumnIndex finds the index of a column by its header name
func findColumnIndex(header []interface{}, columnName string) int {
	for i, cell := range header {
		if str, ok := cell.(string); ok && str == columnName {
			return i
		}
	}
	return -1
}
