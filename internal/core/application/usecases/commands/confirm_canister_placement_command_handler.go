package commands

import (
	"context"
	"fmt"
	"time"

	"canistertransfer/internal/core/domain/model/kernel"
	"canistertransfer/internal/core/domain/model/transfer"
	"canistertransfer/internal/core/ports"
)

// ConfirmCanisterPlacementCommandHandler advances one canister's status.
type ConfirmCanisterPlacementCommandHandler struct {
	uowFactory TransferUoWFactory
}

func NewConfirmCanisterPlacementCommandHandler(uowFactory TransferUoWFactory) ConfirmCanisterPlacementCommandHandler {
	return ConfirmCanisterPlacementCommandHandler{uowFactory: uowFactory}
}

// Handle appends the next status row of the canister and returns the new
// status. Returns ErrTransferNotFound when the canister is not part of the
// batch plan, ErrCycleIsNotActive when the canister travels in a later
// cycle and errs.ErrValueIsInvalid when the scan does not fit the current
// status.
func (h ConfirmCanisterPlacementCommandHandler) Handle(
	ctx context.Context,
	command ConfirmCanisterPlacementCommand,
) (transfer.Status, error) {
	if err := command.Validate(); err != nil {
		return transfer.Unknown, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return transfer.Unknown, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.TransferRepository()
	batch := command.BatchID()

	runID, system, err := repo.RunSystem(ctx, batch)
	if err != nil {
		return transfer.Unknown, err
	}

	view, err := loadTransfers(ctx, repo, batch)
	if err != nil {
		return transfer.Unknown, err
	}
	assignment, record, err := view.find(command.CanisterID())
	if err != nil {
		return transfer.Unknown, err
	}

	if err = ensureActiveCycle(ctx, repo, batch, assignment.Cycle); err != nil {
		return transfer.Unknown, err
	}

	next, err := record.Status.Advance(command.Stage(), assignment.Destination.Kind)
	if err != nil {
		return transfer.Unknown, err
	}

	now := time.Now().UTC()
	if err = repo.AppendStatus(ctx, batch, record.Next(next, "", command.UserID(), now)); err != nil {
		return transfer.Unknown, err
	}

	event := transfer.Event{
		Type:       transfer.StatusChanged,
		RunID:      runID.String(),
		BatchID:    batch,
		SystemID:   system,
		Cycle:      assignment.Cycle,
		Canister:   assignment.Canister,
		Device:     assignment.Destination.Device,
		Value:      next.String(),
		OccurredAt: now,
	}
	if err = uow.EventOutbox().Append(ctx, event); err != nil {
		return transfer.Unknown, err
	}

	if err = uow.Commit(ctx); err != nil {
		return transfer.Unknown, err
	}

	return next, nil
}

// ensureActiveCycle rejects work on any cycle but the batch's current one.
// Cycles share trolley locations, so only one may be loaded at a time.
func ensureActiveCycle(ctx context.Context, repo ports.TransferRepository, batch kernel.BatchID, cycle int) error {
	current, err := repo.CurrentCycle(ctx, batch)
	if err != nil {
		return err
	}
	if cycle != current {
		return fmt.Errorf("cycle %d, current is %d: %w", cycle, current, ErrCycleIsNotActive)
	}
	return nil
}

// transferView is the active assignments and latest statuses of a batch.
type transferView struct {
	batch       kernel.BatchID
	assignments []transfer.Assignment
	byCanister  map[kernel.CanisterID]transfer.Assignment
	statuses    map[kernel.CanisterID]transfer.StatusRecord
}

func loadTransfers(ctx context.Context, repo ports.TransferRepository, batch kernel.BatchID) (transferView, error) {
	assignments, err := repo.ActiveAssignments(ctx, batch)
	if err != nil {
		return transferView{}, err
	}
	statuses, err := repo.LatestStatuses(ctx, batch)
	if err != nil {
		return transferView{}, err
	}

	byCanister := make(map[kernel.CanisterID]transfer.Assignment, len(assignments))
	for _, a := range assignments {
		byCanister[a.Canister] = a
	}
	return transferView{batch: batch, assignments: assignments, byCanister: byCanister, statuses: statuses}, nil
}

// find returns the active assignment and latest status of a canister.
func (v transferView) find(canisterID kernel.CanisterID) (transfer.Assignment, transfer.StatusRecord, error) {
	a, ok := v.byCanister[canisterID]
	record, hasStatus := v.statuses[canisterID]
	if !ok || !hasStatus {
		return transfer.Assignment{}, transfer.StatusRecord{},
			fmt.Errorf("canister %d in batch %d: %w", canisterID, v.batch, ErrTransferNotFound)
	}
	return a, record, nil
}
