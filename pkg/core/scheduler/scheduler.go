package scheduler

import (
	"fmt"
	"sort"

	"github.com/jakechorley/staff-rota/pkg/core/caldate"
	"github.com/jakechorley/staff-rota/pkg/core/model"
)

type slotKey struct {
	date   caldate.Date
	slotID string
}

type demandKey struct {
	date   caldate.Date
	slotID string
	role   string
}

// run holds the per-run state of one generation
type run struct {
	input       Input
	opts        Options
	constraints *Constraints
	workload    *Workload

	occupancy map[caldate.Date]*model.OccupancyRecord
	demand    map[slotKey][]model.DemandRequirement
	closed    map[caldate.Date]bool

	// existing counts seeded assignments per date/slot/role that still count toward demand
	existing map[demandKey]int

	outcome *Outcome
}

// Generate runs the greedy assignment loop over [opts.StartDate, opts.EndDate].
//
// Dates are visited ascending, active slots by display order, and demand rows in input
// order. For each row the eligible staff are ranked and the top candidates committed one
// at a time, each commit updating the workload before the next decision. Nothing is ever
// revisited, so the result is first-fit by score rather than globally optimal.
//
// Generate never fails: unfilled demand is reported as shortages.
func Generate(input Input, opts Options) *Outcome {
	if opts.Mode == "" {
		opts.Mode = model.ModeOverwrite
	}

	r := newRun(input, opts)

	if opts.Mode == model.ModeAugment {
		r.seedExisting()
	}

	slots := activeSlotsInOrder(input.TimeSlots)

	for _, date := range caldate.Range(opts.StartDate, opts.EndDate) {
		if r.closed[date] {
			r.outcome.Stats.ClosedDates++
			continue
		}
		r.outcome.Stats.Dates++

		for _, slot := range slots {
			for _, req := range r.demand[slotKey{date, slot.ID}] {
				r.fillDemand(date, slot, req)
			}
		}
	}

	r.finish()
	return r.outcome
}

func newRun(input Input, opts Options) *run {
	r := &run{
		input:       input,
		opts:        opts,
		constraints: NewConstraints(input.Availability, input.WorkLimits, input.Unavailability, opts.RequireAvailabilityRule),
		workload:    NewWorkload(),
		occupancy:   make(map[caldate.Date]*model.OccupancyRecord),
		demand:      make(map[slotKey][]model.DemandRequirement),
		closed:      make(map[caldate.Date]bool),
		existing:    make(map[demandKey]int),
		outcome: &Outcome{
			Shifts:    []model.ShiftAssignment{},
			Shortages: []model.ShortageRecord{},
		},
	}

	for i := range input.Occupancy {
		occ := &input.Occupancy[i]
		if _, exists := r.occupancy[occ.Date]; !exists {
			r.occupancy[occ.Date] = occ
		}
	}

	for _, req := range input.Demand {
		key := slotKey{req.Date, req.TimeSlotID}
		r.demand[key] = append(r.demand[key], req)
	}

	for _, d := range input.ClosedDates {
		r.closed[d] = true
	}

	return r
}

// seedExisting replays existing assignments into the workload in date order and records
// which of them already cover demand in the range
func (r *run) seedExisting() {
	existing := make([]model.ShiftAssignment, len(r.input.ExistingAssignments))
	copy(existing, r.input.ExistingAssignments)
	sort.SliceStable(existing, func(i, j int) bool {
		return existing[i].Date.Before(existing[j].Date)
	})

	slotsByTime := make(map[[2]model.ClockTime]string)
	for _, slot := range r.input.TimeSlots {
		key := [2]model.ClockTime{slot.Start, slot.End}
		if _, exists := slotsByTime[key]; !exists {
			slotsByTime[key] = slot.ID
		}
	}

	for _, a := range existing {
		r.workload.Update(a.StaffID, a.Date, model.SlotDurationMinutes(a.Start, a.End))

		slotID := a.TimeSlotID
		if slotID == "" {
			slotID = slotsByTime[[2]model.ClockTime{a.Start, a.End}]
		}
		if slotID != "" {
			r.existing[demandKey{a.Date, slotID, a.Role}]++
		}
	}
}

// fillDemand staffs one demand row and records a shortage if it falls short
func (r *run) fillDemand(date caldate.Date, slot model.TimeSlot, req model.DemandRequirement) {
	stats := &r.outcome.Stats
	stats.DemandRows++

	required := AdjustedRequired(req, r.occupancy[date])

	// Existing assignments are consumed by the first rows for the same role
	key := demandKey{date, slot.ID, req.Role}
	covered := min(required, r.existing[key])
	r.existing[key] -= covered

	eligible, rejections := r.eligibleStaff(date, slot, req.Role)
	ranked := RankCandidates(eligible, date, r.workload)

	duration := model.SlotDurationMinutes(slot.Start, slot.End)
	assigned := 0
	for _, candidate := range ranked {
		if covered+assigned >= required {
			break
		}

		// A roster listing the same person twice must not double book them
		if !CanAssign(candidate.Staff, date, slot, req.Role, r.constraints, r.workload) {
			continue
		}

		r.outcome.Shifts = append(r.outcome.Shifts, model.ShiftAssignment{
			StaffID:    candidate.Staff.ID,
			Date:       date,
			TimeSlotID: slot.ID,
			Role:       req.Role,
			Start:      slot.Start,
			End:        slot.End,
		})
		r.workload.Update(candidate.Staff.ID, date, duration)
		assigned++
	}

	filled := covered + assigned
	stats.RequiredTotal += required
	stats.AssignedTotal += filled

	if filled < required {
		shortage := model.ShortageRecord{
			Date:          date,
			TimeSlotID:    slot.ID,
			Role:          req.Role,
			RequiredCount: required,
			AssignedCount: filled,
			ShortageCount: required - filled,
		}
		if len(rejections) > 0 {
			shortage.Rejections = rejections
		}
		r.outcome.Shortages = append(r.outcome.Shortages, shortage)
		stats.ShortageTotal += shortage.ShortageCount
	}
}

// eligibleStaff filters the roster for the slot, keeping roster order, and counts why
// staff of the right role were turned away
func (r *run) eligibleStaff(date caldate.Date, slot model.TimeSlot, role string) ([]model.StaffMember, map[string]int) {
	eligible := make([]model.StaffMember, 0)
	rejections := make(map[string]int)

	for _, staff := range r.input.Staff {
		reason := CheckEligibility(staff, date, slot, role, r.constraints, r.workload)
		switch reason {
		case ReasonNone:
			eligible = append(eligible, staff)
		case ReasonRoleMismatch:
			// not a candidate at all
		default:
			rejections[string(reason)]++
		}
	}

	return eligible, rejections
}

func (r *run) finish() {
	o := r.outcome
	o.Success = len(o.Shortages) == 0

	if o.Success {
		o.Message = fmt.Sprintf("Generated %d shifts", len(o.Shifts))
		return
	}
	o.Message = fmt.Sprintf("Generated %d shifts with %d shortages (%d staff short)",
		len(o.Shifts), len(o.Shortages), o.Stats.ShortageTotal)
}

// activeSlotsInOrder returns active slots sorted by display order, keeping input order on ties
func activeSlotsInOrder(slots []model.TimeSlot) []model.TimeSlot {
	active := make([]model.TimeSlot, 0, len(slots))
	for _, slot := range slots {
		if slot.IsActive {
			active = append(active, slot)
		}
	}

	sort.SliceStable(active, func(i, j int) bool {
		return active[i].DisplayOrder < active[j].DisplayOrder
	})

	return active
}
