package scheduler

import (
	"sort"

	"github.com/jakechorley/staff-rota/pkg/core/caldate"
	"github.com/jakechorley/staff-rota/pkg/core/model"
)

const (
	// SkillMatch is awarded to every candidate; the role has already been matched
	SkillMatch = 100

	weightSkillMatch           = 1000
	weightConsecutiveAvoidance = 100
	streakPenalty              = 20
)

// Candidate is an eligible staff member with its priority score
type Candidate struct {
	Staff model.StaffMember
	Score float64
}

// PriorityScore scores a candidate for a slot on date:
//
//	SkillMatch*1000 + max(0, 100 - streak*20)*100 + max(0, 100 - monthlyHours/2)
//
// Candidates on long streaks or with many hours this month score lower.
func PriorityScore(staffID string, date caldate.Date, workload *Workload) float64 {
	consecutiveAvoidance := max(0, 100-workload.Streak(staffID)*streakPenalty)
	workloadBalance := max(0, 100-workload.MonthlyHours(staffID, date)/2)

	return float64(SkillMatch*weightSkillMatch) +
		float64(consecutiveAvoidance*weightConsecutiveAvoidance) +
		workloadBalance
}

// RankCandidates scores staff and sorts them by descending score. Equal scores keep
// their roster order, which makes output repeatable.
func RankCandidates(staff []model.StaffMember, date caldate.Date, workload *Workload) []Candidate {
	candidates := make([]Candidate, len(staff))
	for i, s := range staff {
		candidates[i] = Candidate{
			Staff: s,
			Score: PriorityScore(s.ID, date, workload),
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	return candidates
}
