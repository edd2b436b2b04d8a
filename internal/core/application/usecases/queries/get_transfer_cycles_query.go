// Package queries contains the read side of the transfer engine. Handlers
// read the transfer tables directly and return flat read models for the
// HTTP layer and the operator CLI.
package queries

import (
	"errors"

	"canistertransfer/internal/core/domain/model/kernel"
	"canistertransfer/internal/pkg/errs"
	"canistertransfer/internal/pkg/guard"
)

var (
	ErrGetTransferCyclesQueryIsNotConstructed = errors.New(
		"GetTransferCyclesQuery must be created via NewGetTransferCyclesQuery constructor",
	)
	ErrBatchIDIsRequired = errs.NewValueIsRequiredError("batch id")
)

// GetTransferCyclesQuery returns the cycle plan of a batch with the current
// stage of every device and the latest status of every canister.
//
// Example:
//
//	query, err := NewGetTransferCyclesQuery(batchID)
//	if err != nil {
//	    return err
//	}
//	plan, err := handler.Handle(ctx, query)
type GetTransferCyclesQuery struct {
	batchID kernel.BatchID
	guard   guard.ConstructorGuard
}

// NewGetTransferCyclesQuery returns ErrBatchIDIsRequired for a non-positive batch.
func NewGetTransferCyclesQuery(batchID kernel.BatchID) (GetTransferCyclesQuery, error) {
	if batchID <= 0 {
		return GetTransferCyclesQuery{}, ErrBatchIDIsRequired
	}
	return GetTransferCyclesQuery{batchID: batchID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetTransferCyclesQuery) Validate() error {
	return q.guard.Validate(ErrGetTransferCyclesQueryIsNotConstructed)
}

func (q GetTransferCyclesQuery) BatchID() kernel.BatchID { return q.batchID }

// GetTransferCyclesQueryResponse is the read model of one plan.
type GetTransferCyclesQueryResponse struct {
	RunID        string              `json:"run_id"`
	BatchID      kernel.BatchID      `json:"batch_id"`
	SystemID     kernel.SystemID     `json:"system_id"`
	CurrentCycle int                 `json:"current_cycle"`
	Unassigned   []kernel.CanisterID `json:"unassigned"`
	Cycles       []CycleView         `json:"cycles"`
}

type CycleView struct {
	ID        int            `json:"id"`
	Devices   []DeviceView   `json:"devices"`
	Canisters []CanisterView `json:"canisters"`
}

type DeviceView struct {
	Device        kernel.DeviceID `json:"device_id"`
	Stage         string          `json:"stage"`
	ToCartCount   int             `json:"to_cart_count"`
	FromCartCount int             `json:"from_cart_count"`
}

type CanisterView struct {
	Canister            kernel.CanisterID `json:"canister_id"`
	CanisterType        string            `json:"canister_type"`
	TrolleyDevice       kernel.DeviceID   `json:"trolley_id"`
	TrolleyLocation     kernel.LocationID `json:"trolley_location_id"`
	DestinationDevice   kernel.DeviceID   `json:"destination_device_id"`
	DestinationKind     string            `json:"destination_kind"`
	DestinationLocation kernel.LocationID `json:"destination_location_id"`
	AlternateFor        kernel.CanisterID `json:"alternate_for,omitempty"`
	Status              string            `json:"status"`
	Seq                 int               `json:"seq"`
}
