package scheduler

import (
	"math"

	"github.com/jakechorley/staff-rota/pkg/core/model"
)

// AdjustedRequired returns the headcount needed for a demand row given the date's
// occupancy. A nil occupancy contributes no bonus. The result is never negative.
//
// Example: base 2, occupancy bonus 1, occupancy 55% without banquet gives
// 2 + floor(55/10)*1 = 7.
func AdjustedRequired(req model.DemandRequirement, occupancy *model.OccupancyRecord) int {
	required := req.BaseCount

	if occupancy != nil {
		steps := int(math.Floor(occupancy.OccupancyRate / 10))
		required += steps * req.OccupancyBonus

		if occupancy.HasBanquet {
			required += req.BanquetBonus
		}
	}

	return max(0, required)
}
