package commands

import (
	"errors"

	"canistertransfer/internal/core/domain/model/kernel"
	"canistertransfer/internal/core/domain/model/transfer"
	"canistertransfer/internal/pkg/guard"
)

var ErrConfirmCanisterPlacementCommandIsNotConstructed = errors.New(
	"ConfirmCanisterPlacementCommand must be created via NewConfirmCanisterPlacementCommand constructor",
)

// ConfirmCanisterPlacementCommand records one scan of a canister: into its
// trolley location, into its robot slot or onto its CSR shelf.
type ConfirmCanisterPlacementCommand struct {
	batchID    kernel.BatchID
	canisterID kernel.CanisterID
	stage      transfer.Stage
	userID     int64

	guard guard.ConstructorGuard
}

// NewConfirmCanisterPlacementCommand creates a validated scan confirmation.
//
// Parameters:
//   - batchID: batch whose plan holds the canister
//   - canisterID: scanned canister
//   - stage: ToTrolleyDone, ToRobotDone or ToCSRDone
//   - userID: operator who scanned
func NewConfirmCanisterPlacementCommand(
	batchID kernel.BatchID,
	canisterID kernel.CanisterID,
	stage transfer.Stage,
	userID int64,
) (ConfirmCanisterPlacementCommand, error) {
	var batchErr, canisterErr error
	if batchID <= 0 {
		batchErr = ErrBatchIDIsRequired
	}
	if canisterID <= 0 {
		canisterErr = ErrCanisterIDIsRequired
	}
	if err := errors.Join(batchErr, canisterErr, validateConfirmStage(stage)); err != nil {
		return ConfirmCanisterPlacementCommand{}, err
	}

	return ConfirmCanisterPlacementCommand{
		batchID:    batchID,
		canisterID: canisterID,
		stage:      stage,
		userID:     userID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c ConfirmCanisterPlacementCommand) Validate() error {
	return c.guard.Validate(ErrConfirmCanisterPlacementCommandIsNotConstructed)
}

func (c ConfirmCanisterPlacementCommand) BatchID() kernel.BatchID { return c.batchID }

func (c ConfirmCanisterPlacementCommand) CanisterID() kernel.CanisterID { return c.canisterID }

func (c ConfirmCanisterPlacementCommand) Stage() transfer.Stage { return c.stage }

func (c ConfirmCanisterPlacementCommand) UserID() int64 { return c.userID }

// validateConfirmStage accepts the stages an operator can confirm.
func validateConfirmStage(stage transfer.Stage) error {
	switch stage {
	case transfer.StageToTrolleyDone, transfer.StageToRobotDone, transfer.StageToCSRDone:
		return nil
	default:
		return ErrStageIsInvalid
	}
}
