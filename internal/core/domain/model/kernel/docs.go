// Package kernel provides the shared primitives of the canister transfer domain.
//
// The package includes:
//   - UUID: identifier of a recommendation run
//   - CanisterID, DeviceID, LocationID, BatchID, SystemID: typed identifiers
//   - Quadrant and DrawerLevel: coordinates inside a device
//   - CanisterType: Small or Big canister capacity class
//   - DeviceKind: robot, CSR shelving or one of the two trolley kinds
//
// Typed identifiers keep a canister id from being passed where a location id is
// expected. The enums follow the same validate/stringify pattern as the status
// types of the transfer model.
package kernel
