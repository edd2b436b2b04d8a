package commands

import (
	"errors"

	"canistertransfer/internal/pkg/errs"
	"canistertransfer/internal/pkg/guard"
)

// DefaultSyncBatchSize is the number of outbox events folded per sync.
const DefaultSyncBatchSize = 500

var ErrSyncWizardDocumentCommandIsNotConstructed = errors.New(
	"SyncWizardDocumentCommand must be created via NewSyncWizardDocumentCommand constructor",
)

// SyncWizardDocumentCommand folds pending outbox events into the wizard
// documents of their systems.
type SyncWizardDocumentCommand struct {
	limit int

	guard guard.ConstructorGuard
}

// NewSyncWizardDocumentCommand drains at most limit outbox events per call.
func NewSyncWizardDocumentCommand(limit int) (SyncWizardDocumentCommand, error) {
	if limit <= 0 {
		return SyncWizardDocumentCommand{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, "unbounded")
	}
	return SyncWizardDocumentCommand{limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (c SyncWizardDocumentCommand) Validate() error {
	return c.guard.Validate(ErrSyncWizardDocumentCommandIsNotConstructed)
}

func (c SyncWizardDocumentCommand) Limit() int { return c.limit }
