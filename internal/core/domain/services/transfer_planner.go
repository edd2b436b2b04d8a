package services

import (
	"context"

	"canistertransfer/internal/core/domain/model/canister"
	"canistertransfer/internal/core/domain/model/kernel"
	"canistertransfer/internal/core/domain/model/location"
	"canistertransfer/internal/core/domain/model/trolley"
)

// PlanResult is the full output of one engine run.
type PlanResult struct {
	Demands     []canister.Demand
	Allocation  Allocation
	Groups      []Group
	Requirement Requirement
	Dispatched  trolley.Fleet
	Schedule    Schedule
}

// TransferPlanner runs collection, allocation, CSR overflow, capacity planning
// and cycle scheduling in that order.
type TransferPlanner struct {
	policy    Policy
	collector DemandCollector
	allocator LocationAllocator
	overflow  CSROverflow
	planner   CapacityPlanner
	scheduler CycleScheduler
}

// NewTransferPlanner wires the allocation stages of a run.
//
// Parameters:
//   - policy: rules shared by every stage
//   - csr: source of CSR shelf locations for bumped, removed and overflow canisters
func NewTransferPlanner(policy Policy, csr CSRRecommender) TransferPlanner {
	return TransferPlanner{
		policy:    policy,
		collector: NewDemandCollector(policy),
		allocator: NewLocationAllocator(),
		overflow:  NewCSROverflow(csr),
		planner:   NewCapacityPlanner(policy),
		scheduler: NewCycleScheduler(policy),
	}
}

// Plan computes a plan for demands against the snapshot in pool. The pool is
// consumed by the run.
func (p TransferPlanner) Plan(
	ctx context.Context,
	system kernel.SystemID,
	demands []canister.Demand,
	pool *location.Pool,
	fleet trolley.Fleet,
) (PlanResult, error) {
	var res PlanResult

	res.Demands = p.collector.Collect(demands)
	if len(res.Demands) == 0 {
		return res, nil
	}

	actx := NewAllocationContext(p.policy, pool)
	alloc := p.allocator.Allocate(actx, res.Demands)

	alloc, err := p.overflow.Assign(ctx, actx, system, alloc)
	if err != nil {
		return PlanResult{}, err
	}
	res.Allocation = alloc

	res.Groups = GroupPlacements(p.policy, alloc.Placements)
	if len(res.Groups) == 0 {
		return res, nil
	}

	req, err := p.planner.Plan(res.Groups, fleet)
	if err != nil {
		return PlanResult{}, err
	}
	res.Requirement = req
	res.Dispatched = p.planner.Dispatch(req, fleet)

	sched, err := p.scheduler.Schedule(res.Groups, req, res.Dispatched)
	if err != nil {
		return PlanResult{}, err
	}
	res.Schedule = sched

	return res, nil
}
