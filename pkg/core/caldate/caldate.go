// Package caldate provides a timezone-free calendar date with the week and month
// bucketing used for workload limits.
package caldate

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// Layout is the textual form of a Date
const Layout = "2006-01-02"

// Date is a plain (year, month, day) triple
type Date civil.Date

// Month identifies a calendar month
type Month struct {
	Year  int
	Month time.Month
}

// New returns the date for the given year, month and day, normalising overflow
// (e.g. January 32 becomes February 1)
func New(year int, month time.Month, day int) Date {
	return Date(civil.DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC)))
}

// Parse parses a date in YYYY-MM-DD form
func Parse(s string) (Date, error) {
	d, err := civil.ParseDate(s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date(d), nil
}

// MustParse is Parse for literals known to be valid. It panics on error.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// FromTime takes the calendar fields of t in its own location
func FromTime(t time.Time) Date {
	return Date(civil.DateOf(t))
}

func (d Date) asCivil() civil.Date {
	return civil.Date(d)
}

func (d Date) String() string {
	return d.asCivil().String()
}

// IsZero reports whether d is the zero Date
func (d Date) IsZero() bool {
	return d.asCivil().IsZero()
}

// AddDays returns the date n days after d (n may be negative)
func (d Date) AddDays(n int) Date {
	return Date(d.asCivil().AddDays(n))
}

// DaysUntil returns the number of days from d to other (negative if other is earlier)
func (d Date) DaysUntil(other Date) int {
	return other.asCivil().DaysSince(d.asCivil())
}

// Weekday returns the day of week, Sunday = 0 through Saturday = 6
func (d Date) Weekday() time.Weekday {
	return d.asCivil().Weekday()
}

// WeekStart returns the Sunday on or before d
func (d Date) WeekStart() Date {
	return d.AddDays(-int(d.Weekday()))
}

// MonthOf returns the calendar month containing d
func (d Date) MonthOf() Month {
	return Month{Year: d.Year, Month: d.Month}
}

// Compare returns -1, 0 or +1 as d is before, equal to or after other
func (d Date) Compare(other Date) int {
	return d.asCivil().Compare(other.asCivil())
}

func (d Date) Before(other Date) bool { return d.asCivil().Before(other.asCivil()) }
func (d Date) After(other Date) bool  { return d.asCivil().After(other.asCivil()) }
func (d Date) Equal(other Date) bool  { return d == other }

// Time returns midnight UTC on d. Only for formatting.
func (d Date) Time() time.Time {
	return d.asCivil().In(time.UTC)
}

// Format formats d with a time layout
func (d Date) Format(layout string) string {
	return d.Time().Format(layout)
}

// MarshalText implements encoding.TextMarshaler
func (d Date) MarshalText() ([]byte, error) {
	return d.asCivil().MarshalText()
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Range returns every date from start to end inclusive in ascending order.
// Returns nil when end is before start.
func Range(start, end Date) []Date {
	n := start.DaysUntil(end)
	if n < 0 {
		return nil
	}
	dates := make([]Date, 0, n+1)
	for i := 0; i <= n; i++ {
		dates = append(dates, start.AddDays(i))
	}
	return dates
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// ParseMonth parses a month in YYYY-MM form
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q: %w", s, err)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

// First returns the first day of the month
func (m Month) First() Date {
	return Date{Year: m.Year, Month: m.Month, Day: 1}
}

// Last returns the last day of the month
func (m Month) Last() Date {
	return Date(m.First().asCivil().AddMonths(1).AddDays(-1))
}
