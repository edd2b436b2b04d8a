package transfer

import (
	"errors"
	"fmt"
	"sort"

	"canistertransfer/internal/core/domain/model/kernel"
	"canistertransfer/internal/pkg/errs"
	"canistertransfer/internal/pkg/guard"
)

var (
	ErrBatchIsRequired      = errs.NewValueIsRequiredError("batch id")
	ErrSystemIsRequired     = errs.NewValueIsRequiredError("system id")
	ErrPlanIsNotConstructed = errors.New("Plan must be created via NewPlan constructor")
)

// Plan is the aggregate written by one recommendation run.
//
// Invariants checked on construction:
//   - a canister is assigned at most once
//   - a trolley location is used at most once per cycle
//   - cycle ids start at 1 and increase by one
//   - every assignment references an existing cycle
type Plan struct {
	runID       kernel.UUID
	batchID     kernel.BatchID
	systemID    kernel.SystemID
	assignments []Assignment
	cycles      []*Cycle
	unassigned  []kernel.CanisterID
	guard       guard.ConstructorGuard
}

// NewPlan validates and builds a plan. Cycles are ordered by id.
func NewPlan(
	runID kernel.UUID,
	batchID kernel.BatchID,
	systemID kernel.SystemID,
	assignments []Assignment,
	cycles []*Cycle,
	unassigned []kernel.CanisterID,
) (*Plan, error) {
	p := &Plan{
		runID:       runID,
		batchID:     batchID,
		systemID:    systemID,
		assignments: append([]Assignment(nil), assignments...),
		cycles:      append([]*Cycle(nil), cycles...),
		unassigned:  append([]kernel.CanisterID(nil), unassigned...),
		guard:       guard.NewConstructorGuard(),
	}
	sort.SliceStable(p.cycles, func(i, j int) bool { return p.cycles[i].ID < p.cycles[j].ID })

	var batchErr, systemErr error
	if batchID <= 0 {
		batchErr = ErrBatchIsRequired
	}
	if systemID <= 0 {
		systemErr = ErrSystemIsRequired
	}
	if err := errors.Join(runID.Validate(), batchErr, systemErr, p.checkInvariants()); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *Plan) checkInvariants() error {
	for i, c := range p.cycles {
		if c.ID != i+1 {
			return errs.NewValueIsInvalidErrorWithCause("plan cycles", fmt.Errorf("cycle %d found at position %d", c.ID, i+1))
		}
	}

	type slotKey struct {
		cycle    int
		location kernel.LocationID
	}
	canisters := make(map[kernel.CanisterID]struct{}, len(p.assignments))
	slots := make(map[slotKey]struct{}, len(p.assignments))

	for _, a := range p.assignments {
		if err := a.Validate(); err != nil {
			return err
		}
		if a.Cycle > len(p.cycles) {
			return errs.NewValueIsInvalidErrorWithCause("plan assignments", fmt.Errorf("canister %d references missing cycle %d", a.Canister, a.Cycle))
		}
		if _, dup := canisters[a.Canister]; dup {
			return errs.NewValueIsInvalidErrorWithCause("plan assignments", fmt.Errorf("canister %d assigned twice", a.Canister))
		}
		canisters[a.Canister] = struct{}{}

		k := slotKey{cycle: a.Cycle, location: a.TrolleyLocation}
		if _, dup := slots[k]; dup {
			return errs.NewValueIsInvalidErrorWithCause("plan assignments", fmt.Errorf("trolley location %d used twice in cycle %d", a.TrolleyLocation, a.Cycle))
		}
		slots[k] = struct{}{}
	}

	return nil
}

func (p *Plan) Validate() error {
	if p == nil {
		return ErrPlanIsNotConstructed
	}
	return p.guard.Validate(ErrPlanIsNotConstructed)
}

func (p *Plan) RunID() kernel.UUID { return p.runID }

func (p *Plan) BatchID() kernel.BatchID { return p.batchID }

func (p *Plan) SystemID() kernel.SystemID { return p.systemID }

func (p *Plan) Assignments() []Assignment {
	return append([]Assignment(nil), p.assignments...)
}

func (p *Plan) Cycles() []*Cycle {
	return append([]*Cycle(nil), p.cycles...)
}

func (p *Plan) Unassigned() []kernel.CanisterID {
	return append([]kernel.CanisterID(nil), p.unassigned...)
}

// FirstCycleID returns the cycle the wizard starts with, 0 for an empty plan.
func (p *Plan) FirstCycleID() int {
	if len(p.cycles) == 0 {
		return 0
	}
	return p.cycles[0].ID
}

// IsEmpty reports whether the plan moves no canister.
func (p *Plan) IsEmpty() bool {
	return len(p.assignments) == 0
}
