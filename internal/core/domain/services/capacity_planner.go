package services

import (
	"errors"
	"fmt"

	"canistertransfer/internal/core/domain/model/trolley"
)

var (
	ErrNoTrolleyAvailable = errors.New("no trolley available")
	ErrCycleLimitExceeded = errors.New("cycle limit exceeded")
)

// Requirement is how many drawers and trolleys of each class a plan needs.
type Requirement struct {
	NormalCanisters int
	LiftCanisters   int
	NormalDrawers   int
	LiftDrawers     int
	NormalTrolleys  int
	LiftTrolleys    int
	// NormalOnLift is set when normal canisters ride in spare lift drawers.
	NormalOnLift bool
}

// IsZero reports whether nothing has to be carried.
func (r Requirement) IsZero() bool {
	return r.NormalCanisters == 0 && r.LiftCanisters == 0
}

// CapacityPlanner turns drawer-level demand into Normal and Lift trolley counts
// and picks idle trolleys to cover them.
type CapacityPlanner struct {
	policy Policy
}

// NewCapacityPlanner creates a planner sized by policy.
func NewCapacityPlanner(policy Policy) CapacityPlanner {
	return CapacityPlanner{policy: policy}
}

// Plan sizes the trolley fleet for groups. When both classes are needed and the
// lift trolleys have room for twice the normal drawers, normal canisters are
// moved onto the lift trolleys.
func (p CapacityPlanner) Plan(groups []Group, fleet trolley.Fleet) (Requirement, error) {
	var req Requirement
	for _, g := range groups {
		n := len(g.Placements)
		if g.Key.Class == trolley.Lift {
			req.LiftCanisters += n
			req.LiftDrawers += ceilDiv(n, p.policy.ElevatorCanistersPerDrawer)
		} else {
			req.NormalCanisters += n
			req.NormalDrawers += ceilDiv(n, p.policy.NormalCanistersPerDrawer)
		}
	}
	if req.IsZero() {
		return req, nil
	}

	p.deriveTrolleys(&req)

	if req.NormalTrolleys > 0 && req.LiftTrolleys > 0 {
		free := req.LiftTrolleys*p.policy.ElevatorDrawersPerTrolley - req.LiftDrawers
		if migrated := 2 * req.NormalDrawers; migrated > 0 && migrated <= free {
			req.LiftDrawers += migrated
			req.NormalDrawers = 0
			req.NormalOnLift = true
			p.deriveTrolleys(&req)
		}
	}

	if req.NormalTrolleys > 0 && len(fleet.OfClass(trolley.Normal)) == 0 {
		return Requirement{}, fmt.Errorf("%w: %d normal trolleys needed", ErrNoTrolleyAvailable, req.NormalTrolleys)
	}
	if req.LiftTrolleys > 0 && len(fleet.OfClass(trolley.Lift)) == 0 {
		return Requirement{}, fmt.Errorf("%w: %d elevator trolleys needed", ErrNoTrolleyAvailable, req.LiftTrolleys)
	}

	return req, nil
}

func (p CapacityPlanner) deriveTrolleys(req *Requirement) {
	req.NormalTrolleys = ceilDiv(req.NormalDrawers, p.policy.NormalDrawersPerTrolley)
	req.LiftTrolleys = ceilDiv(req.LiftDrawers, p.policy.ElevatorDrawersPerTrolley)
}

// Dispatch picks the idle trolleys used by the plan, lowest ids first. When
// fewer trolleys are idle than needed the scheduler spreads the work over more
// cycles.
func (p CapacityPlanner) Dispatch(req Requirement, fleet trolley.Fleet) trolley.Fleet {
	var out trolley.Fleet
	out = append(out, take(fleet.OfClass(trolley.Normal), req.NormalTrolleys)...)
	out = append(out, take(fleet.OfClass(trolley.Lift), req.LiftTrolleys)...)
	return out
}

func take(f trolley.Fleet, n int) trolley.Fleet {
	if n > len(f) {
		n = len(f)
	}
	return f[:n]
}

func ceilDiv(n, d int) int {
	if n <= 0 || d <= 0 {
		return 0
	}
	return (n + d - 1) / d
}
