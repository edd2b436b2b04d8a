package services

import (
	"fmt"
	"sort"

	"canistertransfer/internal/core/domain/model/kernel"
	"canistertransfer/internal/core/domain/model/transfer"
	"canistertransfer/internal/core/domain/model/trolley"
)

// Schedule is the cycle plan of a run.
type Schedule struct {
	Assignments []transfer.Assignment
	Cycles      []*transfer.Cycle
}

// CycleScheduler spreads grouped placements over trolley drawers and cycles.
type CycleScheduler struct {
	policy Policy
}

// NewCycleScheduler sizes drawers by the per-drawer capacities of policy and
// stops at Policy.MaxCycles.
func NewCycleScheduler(policy Policy) CycleScheduler {
	return CycleScheduler{policy: policy}
}

type drawerSlot struct {
	trolley   kernel.DeviceID
	locations []kernel.LocationID
}

// Schedule fills the dispatched trolleys cycle by cycle. Every cycle starts from
// a fresh copy of the dispatched drawers; placements that do not fit are
// carried to the next cycle under the same group. It fails with
// ErrCycleLimitExceeded past Policy.MaxCycles and with ErrNoTrolleyAvailable
// when a cycle cannot take any canister.
func (s CycleScheduler) Schedule(groups []Group, req Requirement, dispatched trolley.Fleet) (Schedule, error) {
	var out Schedule

	pending := make([]Group, 0, len(groups))
	for _, g := range groups {
		if len(g.Placements) == 0 {
			continue
		}
		pending = append(pending, Group{Key: g.Key, Placements: sortByLocality(g.Placements)})
	}

	normalDispatched := len(dispatched.OfClass(trolley.Normal)) > 0

	for cycleID := 1; len(pending) > 0; cycleID++ {
		if cycleID > s.policy.MaxCycles {
			return Schedule{}, fmt.Errorf("%w: %d groups left after %d cycles", ErrCycleLimitExceeded, len(pending), s.policy.MaxCycles)
		}

		free := s.freshDrawers(dispatched)
		cycle := transfer.NewCycle(cycleID)
		var next []Group
		assigned := 0

		for _, g := range pending {
			class := g.Key.Class
			if class == trolley.Normal && (req.NormalOnLift || !normalDispatched) {
				class = trolley.Lift
			}

			// A group keeps taking whole drawers until it is placed or the
			// class runs out; drawers may hold fewer locations than capacity.
			n := 0
			for n < len(g.Placements) && len(free[class]) > 0 {
				d := free[class][0]
				free[class] = free[class][1:]
				for _, loc := range d.locations {
					if n == len(g.Placements) {
						break
					}
					pl := g.Placements[n]
					out.Assignments = append(out.Assignments, assignmentFor(pl, cycleID, d.trolley, loc))
					cycle.RecordTransfer(pl.Demand.Source().Device, pl.Destination.Device, d.trolley, class)
					n++
				}
			}

			assigned += n
			if n < len(g.Placements) {
				next = append(next, Group{Key: g.Key, Placements: g.Placements[n:]})
			}
		}

		if assigned == 0 {
			return Schedule{}, fmt.Errorf("%w: cycle %d has no free drawer", ErrNoTrolleyAvailable, cycleID)
		}

		out.Cycles = append(out.Cycles, cycle)
		pending = next
	}

	return out, nil
}

func (s CycleScheduler) capacity(class trolley.Class) int {
	if class == trolley.Lift {
		return s.policy.ElevatorCanistersPerDrawer
	}
	return s.policy.NormalCanistersPerDrawer
}

// freshDrawers lists the drawers of the dispatched trolleys per class, each cut
// to the per-drawer capacity of its class.
func (s CycleScheduler) freshDrawers(fleet trolley.Fleet) map[trolley.Class][]drawerSlot {
	out := make(map[trolley.Class][]drawerSlot)
	for _, class := range []trolley.Class{trolley.Normal, trolley.Lift} {
		capacity := s.capacity(class)
		for _, t := range fleet.OfClass(class) {
			for _, d := range t.Drawers() {
				locs := d.Locations
				if len(locs) > capacity {
					locs = locs[:capacity]
				}
				out[class] = append(out[class], drawerSlot{trolley: t.ID(), locations: locs})
			}
		}
	}
	return out
}

func assignmentFor(pl Placement, cycleID int, cart kernel.DeviceID, loc kernel.LocationID) transfer.Assignment {
	src := pl.Demand.Source()
	return transfer.Assignment{
		Canister:        pl.Demand.CanisterID(),
		CanisterType:    pl.Demand.CanisterType(),
		Cycle:           cycleID,
		TrolleyDevice:   cart,
		TrolleyLocation: loc,
		Destination:     pl.Destination,
		SourceDevice:    src.Device,
		SourceLocation:  src.Location,
	}
}

type localityKey struct {
	device   kernel.DeviceID
	quadrant kernel.Quadrant
	level    kernel.DrawerLevel
}

// sortByLocality keeps canisters from the same source device, quadrant and
// drawer level together, largest cluster first, then by source location.
func sortByLocality(placements []Placement) []Placement {
	sizes := make(map[localityKey]int)
	keyOf := func(p Placement) localityKey {
		src := p.Demand.Source()
		return localityKey{device: src.Device, quadrant: src.Quadrant, level: src.DrawerLevel}
	}
	for _, p := range placements {
		sizes[keyOf(p)]++
	}

	out := make([]Placement, len(placements))
	copy(out, placements)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := keyOf(out[i]), keyOf(out[j])
		if a != b {
			if sizes[a] != sizes[b] {
				return sizes[a] > sizes[b]
			}
			if a.device != b.device {
				return a.device < b.device
			}
			if a.quadrant != b.quadrant {
				return a.quadrant < b.quadrant
			}
			return a.level < b.level
		}
		return out[i].Demand.Source().Location < out[j].Demand.Source().Location
	})
	return out
}
