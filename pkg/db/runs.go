package db

import "sort"

// LatestRunCovering returns the most recently created run whose range contains [start, end].
// Dates compare as strings since they share the "2006-01-02" layout.
func LatestRunCovering(runs []ScheduleRun, start, end string) (ScheduleRun, bool) {
	var covering []ScheduleRun
	for _, r := range runs {
		if r.StartDate <= start && r.EndDate >= end {
			covering = append(covering, r)
		}
	}
	if len(covering) == 0 {
		return ScheduleRun{}, false
	}

	sort.SliceStable(covering, func(i, j int) bool {
		return covering[i].CreatedDatetime > covering[j].CreatedDatetime
	})

	return covering[0], true
}
