package commands

import (
	"errors"

	"canistertransfer/internal/core/domain/model/kernel"
	"canistertransfer/internal/core/domain/model/transfer"
	"canistertransfer/internal/pkg/guard"
)

var ErrCompleteDeviceStageCommandIsNotConstructed = errors.New(
	"CompleteDeviceStageCommand must be created via NewCompleteDeviceStageCommand constructor",
)

// CompleteDeviceStageCommand closes one wizard stage of a device in a cycle.
type CompleteDeviceStageCommand struct {
	batchID  kernel.BatchID
	cycle    int
	deviceID kernel.DeviceID
	stage    transfer.Stage
	userID   int64

	guard guard.ConstructorGuard
}

// NewCompleteDeviceStageCommand creates a validated device stage command.
// cycle starts at 1 and stage is one of the confirm stages.
func NewCompleteDeviceStageCommand(
	batchID kernel.BatchID,
	cycle int,
	deviceID kernel.DeviceID,
	stage transfer.Stage,
	userID int64,
) (CompleteDeviceStageCommand, error) {
	var batchErr, cycleErr, deviceErr error
	if batchID <= 0 {
		batchErr = ErrBatchIDIsRequired
	}
	if cycle < 1 {
		cycleErr = ErrCycleIsInvalid
	}
	if deviceID == kernel.NoDevice {
		deviceErr = ErrDeviceIDIsRequired
	}
	if err := errors.Join(batchErr, cycleErr, deviceErr, validateConfirmStage(stage)); err != nil {
		return CompleteDeviceStageCommand{}, err
	}

	return CompleteDeviceStageCommand{
		batchID:  batchID,
		cycle:    cycle,
		deviceID: deviceID,
		stage:    stage,
		userID:   userID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c CompleteDeviceStageCommand) Validate() error {
	return c.guard.Validate(ErrCompleteDeviceStageCommandIsNotConstructed)
}

func (c CompleteDeviceStageCommand) BatchID() kernel.BatchID { return c.batchID }

func (c CompleteDeviceStageCommand) Cycle() int { return c.cycle }

func (c CompleteDeviceStageCommand) DeviceID() kernel.DeviceID { return c.deviceID }

func (c CompleteDeviceStageCommand) Stage() transfer.Stage { return c.stage }

func (c CompleteDeviceStageCommand) UserID() int64 { return c.userID }
