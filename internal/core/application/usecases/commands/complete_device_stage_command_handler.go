package commands

import (
	"context"
	"fmt"
	"time"

	"canistertransfer/internal/core/domain/model/kernel"
	"canistertransfer/internal/core/domain/model/transfer"
)

// CompleteDeviceStageResult is the device stage after completion.
type CompleteDeviceStageResult struct {
	Stage transfer.Stage
	// CycleDone is set when the last device of the cycle finished and every
	// delivered canister of the cycle was marked Done.
	CycleDone bool
}

// CompleteDeviceStageCommandHandler moves a device to its next stage.
//
// A stage covers these canisters of the cycle:
//   - ToTrolleyDone: canisters taken from the device
//   - ToRobotDone: canisters placed into the device
//   - ToCSRDone: canisters taken from the device to CSR shelving
//
// Stages without canisters are skipped.
type CompleteDeviceStageCommandHandler struct {
	uowFactory TransferUoWFactory
}

func NewCompleteDeviceStageCommandHandler(uowFactory TransferUoWFactory) CompleteDeviceStageCommandHandler {
	return CompleteDeviceStageCommandHandler{uowFactory: uowFactory}
}

// Handle fails with ErrCycleIsNotActive unless the cycle is the batch's
// current one and with ErrPlaceRemainingCanisters while a canister of the
// stage is unconfirmed.
func (h CompleteDeviceStageCommandHandler) Handle(
	ctx context.Context,
	command CompleteDeviceStageCommand,
) (CompleteDeviceStageResult, error) {
	if err := command.Validate(); err != nil {
		return CompleteDeviceStageResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return CompleteDeviceStageResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.TransferRepository()
	batch, cycle, device := command.BatchID(), command.Cycle(), command.DeviceID()

	runID, system, err := repo.RunSystem(ctx, batch)
	if err != nil {
		return CompleteDeviceStageResult{}, err
	}

	if err = ensureActiveCycle(ctx, repo, batch, cycle); err != nil {
		return CompleteDeviceStageResult{}, err
	}

	stages, err := repo.CycleStages(ctx, batch, cycle)
	if err != nil {
		return CompleteDeviceStageResult{}, err
	}
	current, ok := stages[device]
	if !ok {
		return CompleteDeviceStageResult{}, fmt.Errorf("device %d in cycle %d: %w", device, cycle, ErrTransferNotFound)
	}

	view, err := loadTransfers(ctx, repo, batch)
	if err != nil {
		return CompleteDeviceStageResult{}, err
	}
	statuses := view.statuses

	var inCycle []transfer.Assignment
	var work transfer.StageWork
	for _, a := range view.assignments {
		if a.Cycle != cycle {
			continue
		}
		inCycle = append(inCycle, a)
		if coversStage(a, device, transfer.StageToRobotDone) {
			work.RobotBound = true
		}
		if coversStage(a, device, transfer.StageToCSRDone) {
			work.CSRBound = true
		}
		if coversStage(a, device, command.Stage()) && !statuses[a.Canister].Status.Satisfies(command.Stage()) {
			return CompleteDeviceStageResult{}, fmt.Errorf("canister %d: %w", a.Canister, ErrPlaceRemainingCanisters)
		}
	}

	next, err := current.Complete(command.Stage(), work)
	if err != nil {
		return CompleteDeviceStageResult{}, err
	}
	if err = repo.UpdateCycleStage(ctx, batch, cycle, device, next); err != nil {
		return CompleteDeviceStageResult{}, err
	}
	stages[device] = next

	now := time.Now().UTC()
	events := []transfer.Event{{
		Type:       transfer.DeviceStageChanged,
		RunID:      runID.String(),
		BatchID:    batch,
		SystemID:   system,
		Cycle:      cycle,
		Device:     device,
		Value:      next.String(),
		OccurredAt: now,
	}}

	done := allFinal(stages)
	if done {
		for _, a := range inCycle {
			record, ok := statuses[a.Canister]
			if !ok || (record.Status != transfer.ToRobotDone && record.Status != transfer.ToCSRDone) {
				continue
			}
			if err = repo.AppendStatus(ctx, batch, record.Next(transfer.Done, "", command.UserID(), now)); err != nil {
				return CompleteDeviceStageResult{}, err
			}
			events = append(events, transfer.Event{
				Type:       transfer.StatusChanged,
				RunID:      runID.String(),
				BatchID:    batch,
				SystemID:   system,
				Cycle:      cycle,
				Canister:   a.Canister,
				Value:      transfer.Done.String(),
				OccurredAt: now,
			})
		}
	}

	if err = uow.EventOutbox().Append(ctx, events...); err != nil {
		return CompleteDeviceStageResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return CompleteDeviceStageResult{}, err
	}

	return CompleteDeviceStageResult{Stage: next, CycleDone: done}, nil
}

func coversStage(a transfer.Assignment, device kernel.DeviceID, stage transfer.Stage) bool {
	switch stage {
	case transfer.StageToTrolleyDone:
		return a.SourceDevice == device
	case transfer.StageToRobotDone:
		return a.IsRobotBound() && a.Destination.Device == device
	case transfer.StageToCSRDone:
		return a.IsCSRBound() && a.SourceDevice == device
	default:
		return false
	}
}

func allFinal(stages map[kernel.DeviceID]transfer.Stage) bool {
	for _, s := range stages {
		if !s.IsFinal() {
			return false
		}
	}
	return len(stages) > 0
}
