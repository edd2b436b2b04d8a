package commands

import (
	"errors"

	"canistertransfer/internal/core/domain/model/kernel"
	"canistertransfer/internal/pkg/guard"
)

var ErrTransferLaterCommandIsNotConstructed = errors.New(
	"TransferLaterCommand must be created via NewTransferLaterCommand constructor",
)

// TransferLaterCommand postpones canisters that were not picked yet to a
// later recommendation run.
type TransferLaterCommand struct {
	batchID   kernel.BatchID
	canisters []kernel.CanisterID
	comment   string
	userID    int64

	guard guard.ConstructorGuard
}

// NewTransferLaterCommand creates a validated TransferLaterCommand.
//
// Parameters:
//   - batchID: batch whose plan holds the canisters
//   - canisters: canisters to postpone, at least one
//   - comment: free text stored with every status row
//   - userID: operator recorded as the author of the rows
//
// Returns:
//   - TransferLaterCommand: the command
//   - error: ErrBatchIDIsRequired, ErrCanistersAreRequired or
//     ErrCanisterIDIsRequired, joined when several apply
func NewTransferLaterCommand(
	batchID kernel.BatchID,
	canisters []kernel.CanisterID,
	comment string,
	userID int64,
) (TransferLaterCommand, error) {
	var batchErr, canistersErr error
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
	if err := errors.Join(batchErr, canistersErr); err != nil {
		return TransferLaterCommand{}, err
	}

	return TransferLaterCommand{
		batchID:   batchID,
		canisters: append([]kernel.CanisterID(nil), canisters...),
		comment:   comment,
		userID:    userID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c TransferLaterCommand) Validate() error {
	return c.guard.Validate(ErrTransferLaterCommandIsNotConstructed)
}

func (c TransferLaterCommand) BatchID() kernel.BatchID { return c.batchID }

func (c TransferLaterCommand) Canisters() []kernel.CanisterID {
	return append([]kernel.CanisterID(nil), c.canisters...)
}

func (c TransferLaterCommand) Comment() string { return c.comment }

func (c TransferLaterCommand) UserID() int64 { return c.userID }
