// Package ports defines the contracts between the transfer engine and the
// systems around it: pack analysis inventory, transfer persistence, the event
// outbox and the wizard document store.
package ports

import (
	"context"

	"canistertransfer/internal/core/domain/model/canister"
	"canistertransfer/internal/core/domain/model/kernel"
	"canistertransfer/internal/core/domain/model/location"
	"canistertransfer/internal/core/domain/model/trolley"
)

// InventoryReader reads the state a recommendation run starts from.
type InventoryReader interface {
	// BatchSystem returns the system a batch runs on.
	// Returns errs.ErrObjectNotFound for unknown batches.
	BatchSystem(ctx context.Context, batch kernel.BatchID) (kernel.SystemID, error)

	// PendingDemands returns the canister moves pack analysis asks for,
	// ordered by canister id.
	PendingDemands(ctx context.Context, batch kernel.BatchID) ([]canister.Demand, error)

	// LocationSnapshot returns every robot slot of the system with its
	// current occupant.
	LocationSnapshot(ctx context.Context, system kernel.SystemID) ([]*location.Slot, error)

	// IdleTrolleys returns the active trolleys of the system that are not
	// bound to an unfinished run.
	IdleTrolleys(ctx context.Context, system kernel.SystemID) (trolley.Fleet, error)
}
