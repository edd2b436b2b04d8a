package commands

import (
	"context"
	"time"

	"canistertransfer/internal/core/domain/model/transfer"
)

// TransferLaterCommandHandler marks canisters TransferLater. Either every
// canister of the command is postponed or none is.
type TransferLaterCommandHandler struct {
	uowFactory TransferUoWFactory
}

func NewTransferLaterCommandHandler(uowFactory TransferUoWFactory) TransferLaterCommandHandler {
	return TransferLaterCommandHandler{uowFactory: uowFactory}
}

// Handle returns ErrTransferNotFound when a canister is not part of the plan.
func (h TransferLaterCommandHandler) Handle(ctx context.Context, command TransferLaterCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.TransferRepository()
	batch := command.BatchID()

	runID, system, err := repo.RunSystem(ctx, batch)
	if err != nil {
		return err
	}
	view, err := loadTransfers(ctx, repo, batch)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	events := make([]transfer.Event, 0, len(command.Canisters()))
	for _, id := range command.Canisters() {
		a, record, err := view.find(id)
		if err != nil {
			return err
		}
		next, err := record.Status.Later()
		if err != nil {
			return err
		}
		if err = repo.AppendStatus(ctx, batch, record.Next(next, command.Comment(), command.UserID(), now)); err != nil {
			return err
		}
		events = append(events, transfer.Event{
			Type:       transfer.StatusChanged,
			RunID:      runID.String(),
			BatchID:    batch,
			SystemID:   system,
			Cycle:      a.Cycle,
			Canister:   id,
			Device:     a.Destination.Device,
			Value:      next.String(),
			OccurredAt: now,
		})
	}

	if err = uow.EventOutbox().Append(ctx, events...); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
