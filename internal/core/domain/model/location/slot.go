package location

import (
	"errors"

	"canistertransfer/internal/core/domain/model/kernel"
	"canistertransfer/internal/pkg/errs"
	"canistertransfer/internal/pkg/guard"
)

var (
	ErrLocationIDIsRequired = errs.NewValueIsRequiredError("location id")
	ErrDeviceIsRequired     = errs.NewValueIsRequiredError("device")
	ErrOccupantDoesNotFit   = errs.NewValueIsInvalidError("occupant does not fit slot")
	ErrSlotIsNotConstructed = errors.New("Slot must be created via NewSlot constructor")
)

// Occupant describes the canister currently sitting in a slot.
type Occupant struct {
	Canister  kernel.CanisterID
	Type      kernel.CanisterType
	Delicate  bool
	DrugUsage int
	Reserved  bool
	SlowMover bool
}

// Slot is one drawer position of a robot.
type Slot struct {
	id       kernel.LocationID
	device   kernel.DeviceID
	quadrant kernel.Quadrant
	level    kernel.DrawerLevel
	capacity kernel.CanisterType
	tier     Tier
	occupant *Occupant
	guard    guard.ConstructorGuard
}

// NewSlot builds a slot and derives its tier from the occupant.
//
// Tier derivation:
//   - no occupant: Empty
//   - reserved slow mover: ReservedSlowMover
//   - reserved: ReservedNonSlowMover
//   - delicate: UnreservedDelicate
//   - otherwise: UnreservedNonDelicate
func NewSlot(
	id kernel.LocationID,
	device kernel.DeviceID,
	quadrant kernel.Quadrant,
	level kernel.DrawerLevel,
	capacity kernel.CanisterType,
	occupant *Occupant,
) (*Slot, error) {
	if id <= 0 {
		return nil, ErrLocationIDIsRequired
	}
	if device == kernel.NoDevice {
		return nil, ErrDeviceIsRequired
	}
	if err := capacity.Validate(); err != nil {
		return nil, err
	}
	if occupant != nil && !occupant.Type.Fits(capacity) {
		return nil, ErrOccupantDoesNotFit
	}

	var occ *Occupant
	if occupant != nil {
		cp := *occupant
		occ = &cp
	}

	return &Slot{
		id:       id,
		device:   device,
		quadrant: quadrant,
		level:    level,
		capacity: capacity,
		tier:     deriveTier(occ),
		occupant: occ,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func deriveTier(o *Occupant) Tier {
	switch {
	case o == nil:
		return Empty
	case o.Reserved && o.SlowMover:
		return ReservedSlowMover
	case o.Reserved:
		return ReservedNonSlowMover
	case o.Delicate:
		return UnreservedDelicate
	default:
		return UnreservedNonDelicate
	}
}

func (s *Slot) Validate() error {
	if s == nil {
		return ErrSlotIsNotConstructed
	}
	return s.guard.Validate(ErrSlotIsNotConstructed)
}

func (s *Slot) ID() kernel.LocationID { return s.id }

func (s *Slot) Device() kernel.DeviceID { return s.device }

func (s *Slot) Quadrant() kernel.Quadrant { return s.quadrant }

func (s *Slot) DrawerLevel() kernel.DrawerLevel { return s.level }

func (s *Slot) Capacity() kernel.CanisterType { return s.capacity }

func (s *Slot) Tier() Tier { return s.tier }

// Occupant returns a copy of the occupant, or nil for empty slots.
func (s *Slot) Occupant() *Occupant {
	if s.occupant == nil {
		return nil
	}
	cp := *s.occupant
	return &cp
}

// vacated returns an empty copy of the slot in the Freed tier.
func (s *Slot) vacated() *Slot {
	cp := *s
	cp.tier = Freed
	cp.occupant = nil
	return &cp
}
