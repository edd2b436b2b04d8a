package ports

import (
	"context"

	"canistertransfer/internal/core/domain/model/kernel"
	"canistertransfer/internal/core/domain/model/transfer"
)

// TransferRepository persists plans and the history that follows them.
// Assignments and status rows are append-only; the latest row wins.
type TransferRepository interface {
	// HasPlan reports whether a run was already recorded for the batch.
	HasPlan(ctx context.Context, batch kernel.BatchID) (bool, error)

	// CanistersInCart returns canisters of other batches of the system whose
	// latest status says they are still inside a trolley.
	CanistersInCart(ctx context.Context, system kernel.SystemID, except kernel.BatchID) ([]kernel.CanisterID, error)

	// SavePlan stores the run, its assignments, the cycle devices in
	// StagePending and a Pending status row for every assigned canister.
	SavePlan(ctx context.Context, plan *transfer.Plan) error

	// ActiveAssignments returns the latest assignment row per canister.
	ActiveAssignments(ctx context.Context, batch kernel.BatchID) ([]transfer.Assignment, error)

	// AppendAssignment stores a row superseding the canister's current one.
	AppendAssignment(ctx context.Context, batch kernel.BatchID, a transfer.Assignment) error

	// LatestStatuses returns the newest status row per canister.
	LatestStatuses(ctx context.Context, batch kernel.BatchID) (map[kernel.CanisterID]transfer.StatusRecord, error)

	// AppendStatus stores the next status row. Returns ErrConflict when a
	// row with the same sequence already exists.
	AppendStatus(ctx context.Context, batch kernel.BatchID, record transfer.StatusRecord) error

	// CycleStages returns the stage of every device of a cycle.
	// Returns errs.ErrObjectNotFound when the cycle does not exist.
	CycleStages(ctx context.Context, batch kernel.BatchID, cycle int) (map[kernel.DeviceID]transfer.Stage, error)

	// CurrentCycle returns the lowest cycle with a device short of
	// StageToCSRDone, or the last cycle when every device is done.
	// Returns errs.ErrObjectNotFound when the batch has no cycles.
	CurrentCycle(ctx context.Context, batch kernel.BatchID) (int, error)

	// UpdateCycleStage moves one device of a cycle to stage.
	UpdateCycleStage(ctx context.Context, batch kernel.BatchID, cycle int, device kernel.DeviceID, stage transfer.Stage) error

	// Cycles returns the stored cycle bookkeeping of a batch ordered by id.
	Cycles(ctx context.Context, batch kernel.BatchID) ([]*transfer.Cycle, error)

	// RunSystem returns the run id and system of the batch's plan.
	// Returns errs.ErrObjectNotFound when no plan exists.
	RunSystem(ctx context.Context, batch kernel.BatchID) (kernel.UUID, kernel.SystemID, error)
}
