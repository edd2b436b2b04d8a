package services

import (
	"sort"

	"canistertransfer/internal/core/domain/model/canister"
	"canistertransfer/internal/core/domain/model/kernel"
	"canistertransfer/internal/core/domain/model/location"
	"canistertransfer/internal/core/domain/model/transfer"
	"canistertransfer/internal/core/domain/model/trolley"
)

// Placement is a demand with the destination chosen for it.
type Placement struct {
	Demand      canister.Demand
	Destination transfer.Destination
}

// CSRReason tells why a canister is headed for CSR shelving.
type CSRReason int

const (
	UnknownCSRReason CSRReason = iota
	// CSRBumped is an occupant displaced by an incoming canister.
	CSRBumped
	// CSRRemoval is a canister leaving its robot to keep a quadrant buffer.
	CSRRemoval
	// CSRNoRoom is a canister no robot slot could take.
	CSRNoRoom
)

func (r CSRReason) String() string {
	switch r {
	case CSRBumped:
		return "bumped"
	case CSRRemoval:
		return "removal"
	case CSRNoRoom:
		return "overflow"
	default:
		return "unknown"
	}
}

// CSRCandidate is a canister waiting for a CSR location.
type CSRCandidate struct {
	Demand canister.Demand
	Reason CSRReason
}

// Bump records an occupant displaced from a robot slot.
type Bump struct {
	Occupant location.Occupant
	Slot     *location.Slot
	By       kernel.CanisterID
	// Rehome is set when the occupant may be moved inside its own quadrant
	// before falling back to CSR.
	Rehome bool
}

// Allocation is the outcome of the location allocator.
type Allocation struct {
	Placements []Placement
	Bumps      []Bump
	CSR        []CSRCandidate
	// Unassigned demands could not be placed and stay pending.
	Unassigned []canister.Demand
	// Deferred demands are intentionally left out of this run.
	Deferred []canister.Demand
}

// Canisters returns every canister that received a destination.
func (a Allocation) Canisters() map[kernel.CanisterID]struct{} {
	out := make(map[kernel.CanisterID]struct{}, len(a.Placements))
	for _, p := range a.Placements {
		out[p.Demand.CanisterID()] = struct{}{}
	}
	return out
}

// LocationAllocator assigns robot slots to demands by walking the tier chain.
//
// Delicate demands take slots within the delicate drawer range in this order:
//  1. empty
//  2. unreserved non-delicate occupant
//  3. reserved slow mover, lowest usage first
//  4. reserved non slow mover
//  5. unreserved delicate occupant
//
// A Small demand with no Small slot in any tier retries the chain against Big
// slots. Past that a delicate demand only leaves the delicate range when
// Policy.DelicateAnyLevelFallback is set. Other demands take the highest empty slot of their type, then an
// empty Big slot, then an unreserved occupied slot whose occupant goes to CSR.
type LocationAllocator struct{}

// NewLocationAllocator returns the allocator. It holds no state; the run state
// lives in the AllocationContext passed to Allocate.
func NewLocationAllocator() LocationAllocator {
	return LocationAllocator{}
}

type bumpMode int

const (
	noBump bumpMode = iota
	bumpToCSR
	bumpRehome
)

type step struct {
	tier     location.Tier
	lowOnly  bool
	fromBack bool
	bump     bumpMode
}

var (
	delicateChain = []step{
		{tier: location.Empty, lowOnly: true},
		{tier: location.UnreservedNonDelicate, lowOnly: true, bump: bumpRehome},
		{tier: location.ReservedSlowMover, lowOnly: true, bump: bumpRehome},
		{tier: location.ReservedNonSlowMover, lowOnly: true, bump: bumpRehome},
		{tier: location.UnreservedDelicate, lowOnly: true, bump: bumpRehome},
	}
	delicateFallback = []step{
		{tier: location.Empty},
		{tier: location.UnreservedNonDelicate, bump: bumpToCSR},
		{tier: location.UnreservedDelicate, bump: bumpToCSR},
	}
	regularEmpty = []step{
		{tier: location.Empty, fromBack: true},
	}
	regularOccupied = []step{
		{tier: location.UnreservedNonDelicate, fromBack: true, bump: bumpToCSR},
		{tier: location.UnreservedDelicate, fromBack: true, bump: bumpToCSR},
	}
)

// Allocate resolves every demand against the pool. Source locations of
// robot-sourced demands are removed from the pool before the first demand is
// resolved.
func (a LocationAllocator) Allocate(ctx *AllocationContext, demands []canister.Demand) Allocation {
	var out Allocation

	for _, d := range demands {
		if d.Source().Kind == kernel.Robot {
			ctx.Pool.Take(d.Source().Location)
		}
	}

	var removals []canister.Demand
	for _, d := range demands {
		if d.IsRemoval() {
			removals = append(removals, d)
			continue
		}
		a.place(ctx, d, &out)
	}

	a.relocateBumps(ctx, &out)
	a.resolveRemovals(ctx, removals, &out)

	return out
}

func (a LocationAllocator) place(ctx *AllocationContext, d canister.Demand, out *Allocation) {
	var slot *location.Slot
	var mode bumpMode
	var ok bool

	types := fitTypes(d.CanisterType())
	if d.HasTag(canister.NeedsLowDrawer) {
		slot, mode, ok = a.walkPerType(ctx, d.Target(), types, delicateChain)
		if !ok && ctx.Policy.DelicateAnyLevelFallback && !d.HasTag(canister.SameDeviceReshelf) {
			slot, mode, ok = a.walkPerType(ctx, d.Target(), types, delicateFallback)
		}
	} else {
		slot, mode, ok = a.walkAcrossTypes(ctx, d.Target(), types, regularEmpty)
		if !ok {
			slot, mode, ok = a.walkAcrossTypes(ctx, d.Target(), types, regularOccupied)
		}
	}

	if !ok {
		switch {
		case d.HasTag(canister.SameDeviceReshelf):
			out.Deferred = append(out.Deferred, d)
		case d.Source().Kind == kernel.Robot:
			out.CSR = append(out.CSR, CSRCandidate{Demand: d, Reason: CSRNoRoom})
		default:
			out.Unassigned = append(out.Unassigned, d)
		}
		return
	}

	if occ := slot.Occupant(); occ != nil && mode != noBump {
		out.Bumps = append(out.Bumps, Bump{
			Occupant: *occ,
			Slot:     slot,
			By:       d.CanisterID(),
			Rehome:   mode == bumpRehome,
		})
	}

	out.Placements = append(out.Placements, Placement{
		Demand:      d,
		Destination: robotDestination(ctx.Policy, d.Source(), slot),
	})

	if d.HasTag(canister.SameDeviceReshelf) {
		ctx.Pool.Release(d.Source().Location)
	}
}

// walkPerType runs the whole chain for each canister type in turn.
func (a LocationAllocator) walkPerType(
	ctx *AllocationContext,
	target canister.Target,
	types []kernel.CanisterType,
	chain []step,
) (*location.Slot, bumpMode, bool) {
	for _, typ := range types {
		for _, st := range chain {
			if s, ok := a.pop(ctx, target, typ, st); ok {
				return s, st.bump, true
			}
		}
	}
	return nil, noBump, false
}

// walkAcrossTypes tries every canister type at each step before moving on.
func (a LocationAllocator) walkAcrossTypes(
	ctx *AllocationContext,
	target canister.Target,
	types []kernel.CanisterType,
	chain []step,
) (*location.Slot, bumpMode, bool) {
	for _, st := range chain {
		for _, typ := range types {
			if s, ok := a.pop(ctx, target, typ, st); ok {
				return s, st.bump, true
			}
		}
	}
	return nil, noBump, false
}

func (a LocationAllocator) pop(
	ctx *AllocationContext,
	target canister.Target,
	typ kernel.CanisterType,
	st step,
) (*location.Slot, bool) {
	key := location.PoolKey{Device: target.Device, Quadrant: target.Quadrant, Type: typ, Tier: st.tier}

	var accept func(*location.Slot) bool
	if st.lowOnly {
		accept = func(s *location.Slot) bool { return ctx.Policy.InDelicateRange(s.DrawerLevel()) }
	}

	if st.fromBack {
		return ctx.Pool.PopBack(key, accept)
	}
	return ctx.Pool.PopFront(key, accept)
}

// relocateBumps tries to keep displaced occupants in their own quadrant.
// Reserved occupants go first by ascending usage, then unreserved ones with
// non-delicate before delicate.
func (a LocationAllocator) relocateBumps(ctx *AllocationContext, out *Allocation) {
	bumps := make([]Bump, len(out.Bumps))
	copy(bumps, out.Bumps)
	sort.SliceStable(bumps, func(i, j int) bool {
		x, y := bumps[i].Occupant, bumps[j].Occupant
		if x.Reserved != y.Reserved {
			return x.Reserved
		}
		if !x.Reserved && x.Delicate != y.Delicate {
			return !x.Delicate
		}
		return x.DrugUsage < y.DrugUsage
	})

	for _, b := range bumps {
		d, err := bumpDemand(b)
		if err != nil {
			continue
		}
		if !b.Rehome {
			out.CSR = append(out.CSR, CSRCandidate{Demand: d, Reason: CSRBumped})
			continue
		}

		slot, ok := a.rehomeSlot(ctx, b)
		if !ok {
			out.CSR = append(out.CSR, CSRCandidate{Demand: d, Reason: CSRBumped})
			continue
		}
		out.Placements = append(out.Placements, Placement{
			Demand:      d,
			Destination: robotDestination(ctx.Policy, d.Source(), slot),
		})
	}
}

func (a LocationAllocator) rehomeSlot(ctx *AllocationContext, b Bump) (*location.Slot, bool) {
	device, quadrant := b.Slot.Device(), b.Slot.Quadrant()
	typ := b.Occupant.Type

	keys := []location.PoolKey{
		{Device: device, Quadrant: quadrant, Type: typ, Tier: location.Empty},
	}
	for _, t := range fitTypes(typ) {
		keys = append(keys, location.PoolKey{Device: device, Quadrant: quadrant, Type: t, Tier: location.Freed})
	}
	if typ == kernel.Small {
		keys = append(keys, location.PoolKey{Device: device, Quadrant: quadrant, Type: kernel.Big, Tier: location.Empty})
	}

	for _, key := range keys {
		if s, ok := ctx.Pool.PopFront(key, nil); ok {
			return s, true
		}
	}
	return nil, false
}

// resolveRemovals sends the last canisters of each source quadrant to CSR until
// the quadrant would hold QuadrantEmptyBuffer empty slots. The rest are deferred.
func (a LocationAllocator) resolveRemovals(ctx *AllocationContext, removals []canister.Demand, out *Allocation) {
	type quadrantKey struct {
		device   kernel.DeviceID
		quadrant kernel.Quadrant
	}

	var order []quadrantKey
	byQuadrant := make(map[quadrantKey][]canister.Demand)
	for _, d := range removals {
		k := quadrantKey{device: d.Source().Device, quadrant: d.Source().Quadrant}
		if _, seen := byQuadrant[k]; !seen {
			order = append(order, k)
		}
		byQuadrant[k] = append(byQuadrant[k], d)
	}

	for _, k := range order {
		group := byQuadrant[k]
		needed := ctx.Policy.QuadrantEmptyBuffer - ctx.Pool.EmptyCount(k.device, k.quadrant)
		if needed < 0 {
			needed = 0
		}
		if needed > len(group) {
			needed = len(group)
		}

		cut := len(group) - needed
		out.Deferred = append(out.Deferred, group[:cut]...)
		for _, d := range group[cut:] {
			out.CSR = append(out.CSR, CSRCandidate{Demand: d, Reason: CSRRemoval})
		}
	}
}

func bumpDemand(b Bump) (canister.Demand, error) {
	return canister.NewDemand(
		b.Occupant.Canister,
		b.Occupant.Type,
		b.Occupant.Delicate,
		b.Occupant.DrugUsage,
		canister.Placement{
			Device:      b.Slot.Device(),
			Kind:        kernel.Robot,
			Quadrant:    b.Slot.Quadrant(),
			DrawerLevel: b.Slot.DrawerLevel(),
			Location:    b.Slot.ID(),
		},
		canister.Target{Device: b.Slot.Device(), Quadrant: b.Slot.Quadrant()},
	)
}

// fitTypes lists the slot types a canister may use, preferred first.
func fitTypes(t kernel.CanisterType) []kernel.CanisterType {
	if t == kernel.Small {
		return []kernel.CanisterType{kernel.Small, kernel.Big}
	}
	return []kernel.CanisterType{t}
}

func robotDestination(p Policy, source canister.Placement, slot *location.Slot) transfer.Destination {
	return transfer.Destination{
		Device:      slot.Device(),
		Kind:        kernel.Robot,
		Quadrant:    slot.Quadrant(),
		Location:    slot.ID(),
		DrawerLevel: slot.DrawerLevel(),
		Class:       trolleyClass(p, source, kernel.Robot, slot.DrawerLevel()),
	}
}

// trolleyClass picks Lift when either end of the move is a lift drawer level.
func trolleyClass(p Policy, source canister.Placement, destKind kernel.DeviceKind, destLevel kernel.DrawerLevel) trolley.Class {
	if p.IsLiftLevel(destKind, destLevel) {
		return trolley.Lift
	}
	if (source.Kind == kernel.Robot || source.Kind == kernel.CSR) && p.IsLiftLevel(source.Kind, source.DrawerLevel) {
		return trolley.Lift
	}
	return trolley.Normal
}
