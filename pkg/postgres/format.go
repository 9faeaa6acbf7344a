package postgres

import (
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

const dateLayout = "2006-01-02"

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// formatClock renders a TIME column as "15:04". Seconds are dropped; an invalid (NULL)
// value renders as "".
func formatClock(t pgtype.Time) string {
	if !t.Valid {
		return ""
	}
	minutes := t.Microseconds / int64(time.Minute/time.Microsecond)
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// nullableClock maps "" to NULL for optional TIME columns
func nullableClock(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
