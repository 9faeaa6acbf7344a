package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/jakechorley/staff-rota/internal/config"
	"github.com/jakechorley/staff-rota/pkg/core/caldate"
)

// closedDates expands the configured closure rules into the dates they hit within
// [start, end]. Rules without their own DTSTART are anchored at start.
func closedDates(closures []config.Closure, start, end caldate.Date) ([]caldate.Date, error) {
	seen := make(map[caldate.Date]bool)

	for i, closure := range closures {
		opt, err := rrule.StrToROption(closure.RRule)
		if err != nil {
			return nil, fmt.Errorf("failed to parse rrule for closure %d: %w", i, err)
		}
		if opt.Dtstart.IsZero() {
			opt.Dtstart = start.Time()
		}

		rule, err := rrule.NewRRule(*opt)
		if err != nil {
			return nil, fmt.Errorf("failed to build rrule for closure %d: %w", i, err)
		}

		until := end.AddDays(1).Time().Add(-time.Nanosecond)
		for _, occurrence := range rule.Between(start.Time(), until, true) {
			seen[caldate.FromTime(occurrence)] = true
		}
	}

	dates := make([]caldate.Date, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	return dates, nil
}
