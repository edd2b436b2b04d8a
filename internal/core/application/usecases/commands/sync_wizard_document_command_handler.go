package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"canistertransfer/internal/core/domain/model/kernel"
	"canistertransfer/internal/core/domain/model/transfer"
	"canistertransfer/internal/core/domain/model/wizard"
	"canistertransfer/internal/core/ports"
	"canistertransfer/internal/pkg/errs"
	"canistertransfer/internal/pkg/retry"
)

// DefaultWizardAttempts bounds the retries of a conflicting document write.
const DefaultWizardAttempts = 3

// SyncWizardDocumentResult reports one synchronization pass.
type SyncWizardDocumentResult struct {
	Published int
	Systems   int
	Failed    []kernel.SystemID
}

// SyncWizardDocumentCommandHandler folds outbox events into wizard documents.
// Events of a system whose document could not be written stay pending and
// are picked up by the next pass.
type SyncWizardDocumentCommandHandler struct {
	uowFactory OutboxUoWFactory
	store      ports.WizardDocumentStore
	attempts   int
	logger     *slog.Logger
}

// NewSyncWizardDocumentCommandHandler creates the handler.
//
// Parameters:
//   - uowFactory: opens the transaction that reads and marks outbox events
//   - store: versioned wizard documents
//   - attempts: tries per document on a version conflict; values below 1
//     fall back to DefaultWizardAttempts
//   - logger: base logger, tagged component=wizard-sync
func NewSyncWizardDocumentCommandHandler(
	uowFactory OutboxUoWFactory,
	store ports.WizardDocumentStore,
	attempts int,
	logger *slog.Logger,
) SyncWizardDocumentCommandHandler {
	if attempts < 1 {
		attempts = DefaultWizardAttempts
	}
	return SyncWizardDocumentCommandHandler{
		uowFactory: uowFactory,
		store:      store,
		attempts:   attempts,
		logger:     logger.With("component", "wizard-sync"),
	}
}

func (h SyncWizardDocumentCommandHandler) Handle(
	ctx context.Context,
	command SyncWizardDocumentCommand,
) (SyncWizardDocumentResult, error) {
	if err := command.Validate(); err != nil {
		return SyncWizardDocumentResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return SyncWizardDocumentResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	outbox := uow.EventOutbox()
	events, err := outbox.Pending(ctx, command.Limit())
	if err != nil {
		return SyncWizardDocumentResult{}, err
	}
	if len(events) == 0 {
		return SyncWizardDocumentResult{}, nil
	}

	systems, bySystem := groupBySystem(events)

	var result SyncWizardDocumentResult
	var published []int64
	var failures []error
	for _, system := range systems {
		batch := bySystem[system]
		err := retry.Do(ctx, h.attempts, ports.ErrConflict, func(ctx context.Context) error {
			return h.apply(ctx, system, batch)
		})
		if err != nil {
			h.logger.Warn("wizard document not updated", "system", system, "events", len(batch), "error", err)
			result.Failed = append(result.Failed, system)
			failures = append(failures, fmt.Errorf("system %d: %w", system, err))
			continue
		}
		for _, e := range batch {
			published = append(published, e.ID)
		}
		result.Systems++
	}

	if len(published) > 0 {
		if err = outbox.MarkPublished(ctx, published); err != nil {
			return SyncWizardDocumentResult{}, err
		}
	}
	if err = uow.Commit(ctx); err != nil {
		return SyncWizardDocumentResult{}, err
	}

	result.Published = len(published)
	return result, errors.Join(failures...)
}

// SyncPending runs a pass with the default batch size.
func (h SyncWizardDocumentCommandHandler) SyncPending(ctx context.Context) error {
	command, err := NewSyncWizardDocumentCommand(DefaultSyncBatchSize)
	if err != nil {
		return err
	}
	_, err = h.Handle(ctx, command)
	return err
}

// apply reads the document fresh on every attempt so a conflicting writer's
// changes are folded in before the retry.
func (h SyncWizardDocumentCommandHandler) apply(ctx context.Context, system kernel.SystemID, events []transfer.Event) error {
	doc, err := h.store.Get(ctx, wizard.DocumentName(system))
	if errors.Is(err, errs.ErrObjectNotFound) {
		doc = wizard.NewDocument(system)
	} else if err != nil {
		return err
	}

	changed := false
	for _, e := range events {
		if doc.Apply(e) {
			changed = true
		}
	}
	if !changed {
		return nil
	}

	_, err = h.store.Put(ctx, doc)
	return err
}

func groupBySystem(events []transfer.Event) ([]kernel.SystemID, map[kernel.SystemID][]transfer.Event) {
	var order []kernel.SystemID
	grouped := make(map[kernel.SystemID][]transfer.Event)
	for _, e := range events {
		if _, ok := grouped[e.SystemID]; !ok {
			order = append(order, e.SystemID)
		}
		grouped[e.SystemID] = append(grouped[e.SystemID], e)
	}
	return order, grouped
}
