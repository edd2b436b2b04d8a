package commands

import (
	"errors"

	"canistertransfer/internal/core/domain/model/kernel"
	"canistertransfer/internal/pkg/guard"
)

var ErrRecommendTransfersCommandIsNotConstructed = errors.New(
	"RecommendTransfersCommand must be created via NewRecommendTransfersCommand constructor",
)

// RecommendTransfersCommand asks for a transfer plan for a batch.
// A zero system is resolved from the batch.
//
// Example:
//
//	cmd, err := NewRecommendTransfersCommand(batchID, 0)
//	if err != nil {
//	    return fmt.Errorf("invalid recommendation request: %w", err)
//	}
//	result, err := handler.Handle(ctx, cmd)
type RecommendTransfersCommand struct {
	batchID  kernel.BatchID
	systemID kernel.SystemID

	guard guard.ConstructorGuard
}

// NewRecommendTransfersCommand creates a validated recommendation command.
// A zero systemID makes the handler resolve the system from the batch.
//
// Example:
//
//	cmd, err := NewRecommendTransfersCommand(42, 0)
//	if err != nil {
//	    return err
//	}
//	result, err := handler.Handle(ctx, cmd)
func NewRecommendTransfersCommand(batchID kernel.BatchID, systemID kernel.SystemID) (RecommendTransfersCommand, error) {
	var batchErr, systemErr error
	if batchID <= 0 {
		batchErr = ErrBatchIDIsRequired
	}
	if systemID < 0 {
		systemErr = ErrSystemIDIsInvalid
	}
	if err := errors.Join(batchErr, systemErr); err != nil {
		return RecommendTransfersCommand{}, err
	}

	return RecommendTransfersCommand{
		batchID:  batchID,
		systemID: systemID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c RecommendTransfersCommand) Validate() error {
	return c.guard.Validate(ErrRecommendTransfersCommandIsNotConstructed)
}

func (c RecommendTransfersCommand) BatchID() kernel.BatchID { return c.batchID }

func (c RecommendTransfersCommand) SystemID() kernel.SystemID { return c.systemID }
