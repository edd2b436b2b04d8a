package transfer

import (
	"errors"

	"canistertransfer/internal/core/domain/model/kernel"
	"canistertransfer/internal/core/domain/model/trolley"
	"canistertransfer/internal/pkg/errs"
)

var (
	ErrAssignmentCanisterIsRequired = errs.NewValueIsRequiredError("assignment canister")
	ErrAssignmentTrolleyIsRequired  = errs.NewValueIsRequiredError("assignment trolley location")
	ErrAssignmentCycleIsInvalid     = errs.NewValueIsInvalidError("assignment cycle")
)

// Destination is where a canister leaves the trolley.
type Destination struct {
	Device      kernel.DeviceID
	Kind        kernel.DeviceKind
	Quadrant    kernel.Quadrant
	Location    kernel.LocationID
	DrawerLevel kernel.DrawerLevel
	Class       trolley.Class
}

func (d Destination) Validate() error {
	if d.Device == kernel.NoDevice {
		return errs.NewValueIsRequiredError("destination device")
	}
	if d.Kind != kernel.Robot && d.Kind != kernel.CSR {
		return errs.NewValueIsInvalidError("destination kind")
	}
	return d.Class.Validate()
}

// Assignment binds one canister to a trolley location for a cycle.
// Rows are never edited; a redirect or substitution produces a new row.
type Assignment struct {
	Canister        kernel.CanisterID
	CanisterType    kernel.CanisterType
	Cycle           int
	TrolleyDevice   kernel.DeviceID
	TrolleyLocation kernel.LocationID
	Destination     Destination
	SourceDevice    kernel.DeviceID
	SourceLocation  kernel.LocationID
	// AlternateFor is the skipped canister this one replaces, zero otherwise.
	AlternateFor kernel.CanisterID
}

func (a Assignment) Validate() error {
	var cycleErr error
	if a.Cycle < 1 {
		cycleErr = ErrAssignmentCycleIsInvalid
	}
	var canisterErr error
	if a.Canister <= 0 {
		canisterErr = ErrAssignmentCanisterIsRequired
	}
	var trolleyErr error
	if a.TrolleyDevice == kernel.NoDevice || a.TrolleyLocation <= 0 {
		trolleyErr = ErrAssignmentTrolleyIsRequired
	}
	return errors.Join(canisterErr, cycleErr, trolleyErr, a.Destination.Validate())
}

// RedirectTo returns the superseding row sending the canister somewhere else.
func (a Assignment) RedirectTo(dest Destination) Assignment {
	a.Destination = dest
	return a
}

// SubstituteWith returns the row for an alternate canister taking this
// canister's trolley location and destination.
func (a Assignment) SubstituteWith(alternate kernel.CanisterID) Assignment {
	a.AlternateFor = a.Canister
	a.Canister = alternate
	return a
}

// IsRobotBound reports whether the canister is unloaded at a robot.
func (a Assignment) IsRobotBound() bool {
	return a.Destination.Kind == kernel.Robot
}

// IsCSRBound reports whether the canister is unloaded at CSR shelving.
func (a Assignment) IsCSRBound() bool {
	return a.Destination.Kind == kernel.CSR
}
