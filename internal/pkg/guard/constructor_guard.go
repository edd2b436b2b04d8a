// Package guard detects value objects, commands and queries that were created
// as zero values instead of through their constructor.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when the caller passes a nil error.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is embedded into structs that must only be built by a
// constructor. The zero value reports itself as not constructed.
//
// Example:
//
//	var ErrDemandIsNotConstructed = errors.New("Demand must be created via NewDemand")
//
//	type Demand struct {
//	    canisterID kernel.CanisterID
//	    guard      guard.ConstructorGuard
//	}
//
//	func (d Demand) Validate() error {
//	    return d.guard.Validate(ErrDemandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marked as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil for a constructed guard. Otherwise it returns
// validationError, or ErrDefaultConstructorGuard when validationError is nil.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
