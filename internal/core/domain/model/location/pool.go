package location

import (
	"fmt"
	"sort"

	"canistertransfer/internal/core/domain/model/kernel"
	"canistertransfer/internal/pkg/errs"
)

// PoolKey addresses one ordered list of slots.
type PoolKey struct {
	Device   kernel.DeviceID
	Quadrant kernel.Quadrant
	Type     kernel.CanisterType
	Tier     Tier
}

// Pool holds the slots of one occupancy snapshot. It is owned by a single
// recommendation run and is not safe for concurrent use.
type Pool struct {
	lists map[PoolKey][]*Slot
	byID  map[kernel.LocationID]*Slot
	taken map[kernel.LocationID]struct{}
}

// NewPool indexes a snapshot. Lists are ordered by drawer level (lowest first)
// and location id; slow mover lists are ordered by ascending occupant drug usage
// first.
func NewPool(slots []*Slot) (*Pool, error) {
	p := &Pool{
		lists: make(map[PoolKey][]*Slot),
		byID:  make(map[kernel.LocationID]*Slot, len(slots)),
		taken: make(map[kernel.LocationID]struct{}),
	}

	for _, s := range slots {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		if _, dup := p.byID[s.ID()]; dup {
			return nil, errs.NewValueIsInvalidErrorWithCause(
				"location snapshot",
				fmt.Errorf("location %d listed twice", s.ID()),
			)
		}
		p.byID[s.ID()] = s
		key := keyOf(s)
		p.lists[key] = append(p.lists[key], s)
	}

	for key, list := range p.lists {
		sortSlots(key.Tier, list)
	}

	return p, nil
}

func keyOf(s *Slot) PoolKey {
	return PoolKey{Device: s.device, Quadrant: s.quadrant, Type: s.capacity, Tier: s.tier}
}

func sortSlots(tier Tier, list []*Slot) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if tier == ReservedSlowMover && a.occupant.DrugUsage != b.occupant.DrugUsage {
			return a.occupant.DrugUsage < b.occupant.DrugUsage
		}
		if a.level != b.level {
			return a.level < b.level
		}
		return a.id < b.id
	})
}

func (p *Pool) visible(s *Slot) bool {
	if _, ok := p.taken[s.id]; ok {
		return false
	}
	return p.byID[s.id] == s
}

// PopFront takes the first visible slot under key accepted by accept.
// A nil accept accepts every slot.
func (p *Pool) PopFront(key PoolKey, accept func(*Slot) bool) (*Slot, bool) {
	for _, s := range p.lists[key] {
		if p.visible(s) && (accept == nil || accept(s)) {
			p.taken[s.id] = struct{}{}
			return s, true
		}
	}
	return nil, false
}

// PopBack takes the last visible slot under key accepted by accept.
func (p *Pool) PopBack(key PoolKey, accept func(*Slot) bool) (*Slot, bool) {
	list := p.lists[key]
	for i := len(list) - 1; i >= 0; i-- {
		s := list[i]
		if p.visible(s) && (accept == nil || accept(s)) {
			p.taken[s.id] = struct{}{}
			return s, true
		}
	}
	return nil, false
}

// Take removes a location from every list. It returns false when the location
// is unknown or already taken.
func (p *Pool) Take(id kernel.LocationID) bool {
	if _, known := p.byID[id]; !known {
		return false
	}
	if _, done := p.taken[id]; done {
		return false
	}
	p.taken[id] = struct{}{}
	return true
}

// IsTaken reports whether the location was handed out by Next or Take
// during the run.
func (p *Pool) IsTaken(id kernel.LocationID) bool {
	_, ok := p.taken[id]
	return ok
}

// Release turns a taken location back into an empty slot of the Freed tier.
// The previous occupant view of the slot stays invisible.
func (p *Pool) Release(id kernel.LocationID) (*Slot, bool) {
	s, known := p.byID[id]
	if !known || !p.IsTaken(id) {
		return nil, false
	}

	freed := s.vacated()
	delete(p.taken, id)
	p.byID[id] = freed
	key := keyOf(freed)
	p.lists[key] = append(p.lists[key], freed)
	sortSlots(Freed, p.lists[key])
	return freed, true
}

// Available counts the visible slots under key.
func (p *Pool) Available(key PoolKey) int {
	n := 0
	for _, s := range p.lists[key] {
		if p.visible(s) {
			n++
		}
	}
	return n
}

// EmptyCount counts visible empty or freed slots of a robot quadrant across
// canister types.
func (p *Pool) EmptyCount(device kernel.DeviceID, quadrant kernel.Quadrant) int {
	n := 0
	for _, typ := range []kernel.CanisterType{kernel.Small, kernel.Big} {
		for _, tier := range []Tier{Empty, Freed} {
			n += p.Available(PoolKey{Device: device, Quadrant: quadrant, Type: typ, Tier: tier})
		}
	}
	return n
}

// Slot returns the current view of a location.
func (p *Pool) Slot(id kernel.LocationID) (*Slot, bool) {
	s, ok := p.byID[id]
	return s, ok
}
