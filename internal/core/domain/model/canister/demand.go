package canister

import (
	"errors"

	"canistertransfer/internal/core/domain/model/kernel"
	"canistertransfer/internal/pkg/errs"
	"canistertransfer/internal/pkg/guard"
)

var (
	ErrCanisterIDIsRequired   = errs.NewValueIsRequiredError("canister id")
	ErrSourceIsRequired       = errs.NewValueIsRequiredError("source device")
	ErrDemandIsNotConstructed = errors.New("Demand must be created via NewDemand constructor")
)

// Tag marks a demand with properties derived by the demand collector.
type Tag uint8

const (
	// SameDeviceReshelf marks a delicate canister moved to a lower drawer of the
	// robot and quadrant it already sits in.
	SameDeviceReshelf Tag = 1 << iota
	// NeedsLowDrawer marks a delicate canister that must land within the
	// delicate drawer range.
	NeedsLowDrawer
)

// Placement is the current physical position of a canister.
type Placement struct {
	Device      kernel.DeviceID
	Kind        kernel.DeviceKind
	Quadrant    kernel.Quadrant
	DrawerLevel kernel.DrawerLevel
	Location    kernel.LocationID
}

// Target is the robot and quadrant the pack analysis wants the canister in.
// A zero Device means the canister has to leave its robot for CSR.
type Target struct {
	Device   kernel.DeviceID
	Quadrant kernel.Quadrant
}

// Demand is one canister that has to move for a batch.
type Demand struct {
	canisterID   kernel.CanisterID
	canisterType kernel.CanisterType
	delicate     bool
	drugUsage    int
	source       Placement
	target       Target
	tags         Tag
	guard        guard.ConstructorGuard
}

// NewDemand validates and builds a demand.
//
// drugUsage is the usage rank of the canister's drug; lower values are slower
// movers.
func NewDemand(
	canisterID kernel.CanisterID,
	canisterType kernel.CanisterType,
	delicate bool,
	drugUsage int,
	source Placement,
	target Target,
) (Demand, error) {
	d := Demand{
		canisterID:   canisterID,
		canisterType: canisterType,
		delicate:     delicate,
		drugUsage:    drugUsage,
		source:       source,
		target:       target,
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		validateCanisterID(canisterID),
		canisterType.Validate(),
		validateSource(source),
	); err != nil {
		return Demand{}, err
	}

	return d, nil
}

func validateCanisterID(id kernel.CanisterID) error {
	if id <= 0 {
		return ErrCanisterIDIsRequired
	}
	return nil
}

func validateSource(p Placement) error {
	if p.Device == kernel.NoDevice {
		return ErrSourceIsRequired
	}
	return p.Kind.Validate()
}

func (d Demand) Validate() error {
	return d.guard.Validate(ErrDemandIsNotConstructed)
}

func (d Demand) CanisterID() kernel.CanisterID { return d.canisterID }

func (d Demand) CanisterType() kernel.CanisterType { return d.canisterType }

func (d Demand) IsDelicate() bool { return d.delicate }

func (d Demand) DrugUsage() int { return d.drugUsage }

func (d Demand) Source() Placement { return d.source }

func (d Demand) Target() Target { return d.target }

func (d Demand) Tags() Tag { return d.tags }

func (d Demand) HasTag(t Tag) bool { return d.tags&t != 0 }

// WithTags returns a copy carrying the given tags in addition to the existing ones.
func (d Demand) WithTags(t Tag) Demand {
	d.tags |= t
	return d
}

// IsRemoval reports whether the canister has no destination robot.
func (d Demand) IsRemoval() bool {
	return d.target.Device == kernel.NoDevice
}

// IsSameDevice reports whether source and target share device and quadrant.
func (d Demand) IsSameDevice() bool {
	return !d.IsRemoval() &&
		d.source.Device == d.target.Device &&
		d.source.Quadrant == d.target.Quadrant
}
