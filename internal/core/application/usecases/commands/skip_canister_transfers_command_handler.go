package commands

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"canistertransfer/internal/core/domain/model/kernel"
	"canistertransfer/internal/core/domain/model/transfer"
)

const redirectComment = "redirected to CSR"

// SkipCanisterTransfersResult lists what happened to each requested canister.
type SkipCanisterTransfersResult struct {
	Skipped     []kernel.CanisterID
	Redirected  []kernel.CanisterID
	Substituted map[kernel.CanisterID]kernel.CanisterID
}

// SkipCanisterTransfersCommandHandler applies skip, skip with alternate and
// deactivation.
//
// A robot-bound canister that is already in its trolley when skipped during
// the ToRobotDone stage cannot be left in the trolley: it gets a superseding
// assignment to a CSR location and stays ToTrolleyDone. If CSR has no room it
// is skipped like any other canister.
//
// Substitutions and deactivations queue a replenishment request for the
// destination robot.
type SkipCanisterTransfersCommandHandler struct {
	uowFactory TransferUoWFactory
	logger     *slog.Logger
}

// NewSkipCanisterTransfersCommandHandler creates the handler. Log records carry
// component=skip-transfers.
func NewSkipCanisterTransfersCommandHandler(uowFactory TransferUoWFactory, logger *slog.Logger) SkipCanisterTransfersCommandHandler {
	return SkipCanisterTransfersCommandHandler{
		uowFactory: uowFactory,
		logger:     logger.With("component", "skip-transfers"),
	}
}

// Handle skips every canister of the command in one transaction. Returns
// ErrTransferNotFound for a canister outside the plan and
// errs.ErrValueIsInvalid when a canister is past ToTrolleyDone.
func (h SkipCanisterTransfersCommandHandler) Handle(
	ctx context.Context,
	command SkipCanisterTransfersCommand,
) (SkipCanisterTransfersResult, error) {
	if err := command.Validate(); err != nil {
		return SkipCanisterTransfersResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return SkipCanisterTransfersResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.TransferRepository()
	batch := command.BatchID()

	runID, system, err := repo.RunSystem(ctx, batch)
	if err != nil {
		return SkipCanisterTransfersResult{}, err
	}

	view, err := loadTransfers(ctx, repo, batch)
	if err != nil {
		return SkipCanisterTransfersResult{}, err
	}
	var reserved []kernel.LocationID
	for _, a := range view.assignments {
		if a.IsCSRBound() {
			reserved = append(reserved, a.Destination.Location)
		}
	}

	now := time.Now().UTC()
	event := func(t transfer.EventType, a transfer.Assignment, canister kernel.CanisterID, value string) transfer.Event {
		return transfer.Event{
			Type:       t,
			RunID:      runID.String(),
			BatchID:    batch,
			SystemID:   system,
			Cycle:      a.Cycle,
			Canister:   canister,
			Device:     a.Destination.Device,
			Value:      value,
			OccurredAt: now,
		}
	}

	result := SkipCanisterTransfersResult{Substituted: map[kernel.CanisterID]kernel.CanisterID{}}
	var events []transfer.Event

	for _, id := range command.Canisters() {
		a, record, err := view.find(id)
		if err != nil {
			return SkipCanisterTransfersResult{}, err
		}
		alt, hasAlt := command.Alternate(id)

		if h.mustRedirect(command, a, record, hasAlt) {
			loc, err := uow.CSRRecommender().RecommendCSRLocation(ctx, system, id, a.CanisterType, reserved)
			if err != nil {
				return SkipCanisterTransfersResult{}, err
			}
			if loc != nil {
				redirected := a.RedirectTo(transfer.Destination{
					Device:      loc.Device,
					Kind:        kernel.CSR,
					Quadrant:    kernel.NoQuadrant,
					Location:    loc.Location,
					DrawerLevel: loc.DrawerLevel,
					Class:       a.Destination.Class,
				})
				if err = repo.AppendAssignment(ctx, batch, redirected); err != nil {
					return SkipCanisterTransfersResult{}, err
				}
				comment := redirectComment
				if command.Comment() != "" {
					comment += ": " + command.Comment()
				}
				if err = repo.AppendStatus(ctx, batch, record.Next(transfer.ToTrolleyDone, comment, command.UserID(), now)); err != nil {
					return SkipCanisterTransfersResult{}, err
				}
				reserved = append(reserved, loc.Location)
				result.Redirected = append(result.Redirected, id)
				e := event(transfer.StatusChanged, redirected, id, transfer.ToTrolleyDone.String())
				e.Attributes = map[string]string{"csr_location": strconv.FormatInt(int64(loc.Location), 10)}
				events = append(events, e)
				continue
			}
			h.logger.WarnContext(ctx, "No CSR location for skipped canister in trolley", "batch_id", batch, "canister_id", id)
		}

		next, err := record.Status.Skip(hasAlt, command.Deactivate())
		if err != nil {
			return SkipCanisterTransfersResult{}, err
		}
		if err = repo.AppendStatus(ctx, batch, record.Next(next, command.Comment(), command.UserID(), now)); err != nil {
			return SkipCanisterTransfersResult{}, err
		}
		result.Skipped = append(result.Skipped, id)
		events = append(events, event(transfer.StatusChanged, a, id, next.String()))

		if hasAlt {
			sub := a.SubstituteWith(alt)
			if err = repo.AppendAssignment(ctx, batch, sub); err != nil {
				return SkipCanisterTransfersResult{}, err
			}
			if err = repo.AppendStatus(ctx, batch, transfer.InitialRecord(alt, now)); err != nil {
				return SkipCanisterTransfersResult{}, err
			}
			result.Substituted[id] = alt
			events = append(events,
				event(transfer.CanisterSubstituted, a, id, strconv.FormatInt(int64(alt), 10)),
				event(transfer.StatusChanged, sub, alt, transfer.Pending.String()),
				event(transfer.ReplenishRequested, a, alt, "substituted"),
			)
			continue
		}
		if command.Deactivate() {
			events = append(events, event(transfer.ReplenishRequested, a, id, "deactivated"))
		}
	}

	if err = uow.EventOutbox().Append(ctx, events...); err != nil {
		return SkipCanisterTransfersResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return SkipCanisterTransfersResult{}, err
	}

	return result, nil
}

func (h SkipCanisterTransfersCommandHandler) mustRedirect(
	command SkipCanisterTransfersCommand,
	a transfer.Assignment,
	record transfer.StatusRecord,
	hasAlt bool,
) bool {
	return command.Stage() == transfer.StageToRobotDone &&
		record.Status == transfer.ToTrolleyDone &&
		a.IsRobotBound() &&
		!hasAlt &&
		!command.Deactivate()
}
