package commands

import (
	"errors"
	"fmt"

	"canistertransfer/internal/core/domain/model/kernel"
	"canistertransfer/internal/core/domain/model/transfer"
	"canistertransfer/internal/pkg/guard"
)

var ErrSkipCanisterTransfersCommandIsNotConstructed = errors.New(
	"SkipCanisterTransfersCommand must be created via NewSkipCanisterTransfersCommand constructor",
)

// SkipCanisterTransfersCommand takes canisters out of the plan.
//
// Canisters listed in alternates are replaced by the mapped canister, which
// takes over the trolley location and destination. With deactivate set the
// skipped canisters are also flagged for deactivation.
type SkipCanisterTransfersCommand struct {
	batchID    kernel.BatchID
	stage      transfer.Stage
	canisters  []kernel.CanisterID
	alternates map[kernel.CanisterID]kernel.CanisterID
	deactivate bool
	comment    string
	userID     int64

	guard guard.ConstructorGuard
}

// NewSkipCanisterTransfersCommand creates a validated skip command.
//
// Parameters:
//   - batchID: batch whose plan holds the canisters
//   - stage: scan stage the operator is at, or StagePending before any scan
//   - canisters: canisters to skip, at least one
//   - alternates: optional substitute per skipped canister; a substitute
//     must differ from the canister it replaces
//   - deactivate: also deactivate the skipped canisters
//   - comment, userID: stored with every status row
//
// Returns:
//   - error: the joined validation errors, nil when the command is usable
func NewSkipCanisterTransfersCommand(
	batchID kernel.BatchID,
	stage transfer.Stage,
	canisters []kernel.CanisterID,
	alternates map[kernel.CanisterID]kernel.CanisterID,
	deactivate bool,
	comment string,
	userID int64,
) (SkipCanisterTransfersCommand, error) {
	var batchErr, canistersErr, alternatesErr error
	if batchID <= 0 {
		batchErr = ErrBatchIDIsRequired
	}
	if len(canisters) == 0 {
		canistersErr = ErrCanistersAreRequired
	}
	for _, id := range canisters {
		if id <= 0 {
			canistersErr = ErrCanisterIDIsRequired
		}
	}

	alts := make(map[kernel.CanisterID]kernel.CanisterID, len(alternates))
	for skipped, alt := range alternates {
		if alt <= 0 || alt == skipped {
			alternatesErr = fmt.Errorf("canister %d: %w", skipped, ErrAlternateIsInvalid)
		}
		alts[skipped] = alt
	}

	var stageErr error
	if stage != transfer.StagePending {
		stageErr = validateConfirmStage(stage)
	}

	if err := errors.Join(batchErr, canistersErr, alternatesErr, stageErr); err != nil {
		return SkipCanisterTransfersCommand{}, err
	}

	return SkipCanisterTransfersCommand{
		batchID:    batchID,
		stage:      stage,
		canisters:  append([]kernel.CanisterID(nil), canisters...),
		alternates: alts,
		deactivate: deactivate,
		comment:    comment,
		userID:     userID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c SkipCanisterTransfersCommand) Validate() error {
	return c.guard.Validate(ErrSkipCanisterTransfersCommandIsNotConstructed)
}

func (c SkipCanisterTransfersCommand) BatchID() kernel.BatchID { return c.batchID }

// Stage is the wizard stage the operator is in when skipping.
func (c SkipCanisterTransfersCommand) Stage() transfer.Stage { return c.stage }

func (c SkipCanisterTransfersCommand) Canisters() []kernel.CanisterID {
	return append([]kernel.CanisterID(nil), c.canisters...)
}

// Alternate returns the canister replacing id, if any.
func (c SkipCanisterTransfersCommand) Alternate(id kernel.CanisterID) (kernel.CanisterID, bool) {
	alt, ok := c.alternates[id]
	return alt, ok
}

func (c SkipCanisterTransfersCommand) Deactivate() bool { return c.deactivate }

func (c SkipCanisterTransfersCommand) Comment() string { return c.comment }

func (c SkipCanisterTransfersCommand) UserID() int64 { return c.userID }
