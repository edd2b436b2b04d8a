package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"canistertransfer/internal/core/domain/model/canister"
	"canistertransfer/internal/core/domain/model/kernel"
	"canistertransfer/internal/core/domain/model/location"
	"canistertransfer/internal/core/domain/model/transfer"
	"canistertransfer/internal/core/domain/model/wizard"
	"canistertransfer/internal/core/domain/services"
	"canistertransfer/internal/pkg/runguard"
)

// RunObserver receives the outcome of every recommendation run.
type RunObserver interface {
	ObserveRun(result string, cycles, unassigned int, seconds float64)
}

// WizardSyncer pushes pending outbox events to the wizard documents.
type WizardSyncer interface {
	SyncPending(ctx context.Context) error
}

// RecommendTransfersResult describes a finished run.
type RecommendTransfersResult struct {
	Code       ResultCode
	RunID      kernel.UUID
	FirstCycle int
	Cycles     int
	Assigned   int
	Unassigned []kernel.CanisterID
	Deferred   []kernel.CanisterID
	// InCart lists the canisters of a prior batch that block the run.
	InCart []kernel.CanisterID
}

// RecommendTransfersCommandHandler runs the transfer engine for a batch and
// stores the plan.
//
// Outcomes:
//   - Recommended: a plan was stored
//   - NoPendingTransfers: nothing could be assigned, the wizard shows a message
//   - NoTrolleyAvailable: no plan was stored
//   - AlreadyRunning, PriorBatchPending: returned together with ErrAlreadyRunning
//     or ErrPriorBatchPending
//
// A recommendation that already exists fails with ErrRecommendationExists.
type RecommendTransfersCommandHandler struct {
	uowFactory UoWFactory
	guard      *runguard.Guard
	policy     services.Policy
	observer   RunObserver
	syncer     WizardSyncer
	logger     *slog.Logger
}

// NewRecommendTransfersCommandHandler creates the handler. observer and syncer
// may be nil.
func NewRecommendTransfersCommandHandler(
	uowFactory UoWFactory,
	guard *runguard.Guard,
	policy services.Policy,
	observer RunObserver,
	syncer WizardSyncer,
	logger *slog.Logger,
) RecommendTransfersCommandHandler {
	return RecommendTransfersCommandHandler{
		uowFactory: uowFactory,
		guard:      guard,
		policy:     policy,
		observer:   observer,
		syncer:     syncer,
		logger:     logger.With("component", "recommend-transfers"),
	}
}

// Handle runs one recommendation and reports its outcome to the observer.
// Rejected runs return a result carrying AlreadyRunning or PriorBatchPending
// together with the matching error.
func (h RecommendTransfersCommandHandler) Handle(
	ctx context.Context,
	command RecommendTransfersCommand,
) (RecommendTransfersResult, error) {
	if err := command.Validate(); err != nil {
		return RecommendTransfersResult{}, err
	}

	started := time.Now()
	result, err := h.recommend(ctx, command)
	h.observe(result, err, time.Since(started))

	if err != nil {
		return result, err
	}

	if h.syncer != nil {
		if syncErr := h.syncer.SyncPending(ctx); syncErr != nil {
			h.logger.WarnContext(ctx, "Wizard document sync failed, outbox job will retry",
				"batch_id", command.BatchID(), "error", syncErr)
		}
	}

	return result, nil
}

func (h RecommendTransfersCommandHandler) recommend(
	ctx context.Context,
	command RecommendTransfersCommand,
) (RecommendTransfersResult, error) {
	batch := command.BatchID()

	uow := h.uowFactory.Create()

	system := command.SystemID()
	if system == 0 {
		var err error
		if system, err = uow.InventoryReader().BatchSystem(ctx, batch); err != nil {
			return RecommendTransfersResult{}, err
		}
	}

	// The guard is taken before the transaction opens.
	release, err := h.guard.TryAcquire(system)
	if err != nil {
		return RecommendTransfersResult{Code: AlreadyRunning}, err
	}
	defer release()

	if err = uow.Begin(ctx); err != nil {
		return RecommendTransfersResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.TransferRepository()
	inventory := uow.InventoryReader()

	exists, err := repo.HasPlan(ctx, batch)
	if err != nil {
		return RecommendTransfersResult{}, err
	}
	if exists {
		return RecommendTransfersResult{}, fmt.Errorf("batch %d: %w", batch, ErrRecommendationExists)
	}

	inCart, err := repo.CanistersInCart(ctx, system, batch)
	if err != nil {
		return RecommendTransfersResult{}, err
	}
	if len(inCart) > 0 {
		return RecommendTransfersResult{Code: PriorBatchPending, InCart: inCart},
			fmt.Errorf("%d canisters: %w", len(inCart), ErrPriorBatchPending)
	}

	demands, err := inventory.PendingDemands(ctx, batch)
	if err != nil {
		return RecommendTransfersResult{}, err
	}
	if len(demands) == 0 {
		return h.noTransfers(ctx, uow, batch, system, RecommendTransfersResult{})
	}

	slots, err := inventory.LocationSnapshot(ctx, system)
	if err != nil {
		return RecommendTransfersResult{}, err
	}
	pool, err := location.NewPool(slots)
	if err != nil {
		return RecommendTransfersResult{}, err
	}

	fleet, err := inventory.IdleTrolleys(ctx, system)
	if err != nil {
		return RecommendTransfersResult{}, err
	}

	planned, err := services.NewTransferPlanner(h.policy, uow.CSRRecommender()).Plan(ctx, system, demands, pool, fleet)
	if errors.Is(err, services.ErrNoTrolleyAvailable) {
		h.logger.WarnContext(ctx, "No trolley available", "batch_id", batch, "system_id", system, "error", err)
		return RecommendTransfersResult{Code: NoTrolleyAvailable}, nil
	}
	if err != nil {
		return RecommendTransfersResult{}, err
	}

	result := RecommendTransfersResult{
		Unassigned: demandIDs(planned.Allocation.Unassigned),
		Deferred:   demandIDs(planned.Allocation.Deferred),
	}
	for _, id := range result.Unassigned {
		h.logger.WarnContext(ctx, "Canister left unassigned", "batch_id", batch, "canister_id", id)
	}

	if len(planned.Schedule.Assignments) == 0 {
		return h.noTransfers(ctx, uow, batch, system, result)
	}

	plan, err := transfer.NewPlan(
		kernel.NewUUID(),
		batch,
		system,
		planned.Schedule.Assignments,
		planned.Schedule.Cycles,
		result.Unassigned,
	)
	if err != nil {
		return RecommendTransfersResult{}, err
	}

	if err = repo.SavePlan(ctx, plan); err != nil {
		return RecommendTransfersResult{}, err
	}

	if err = uow.EventOutbox().Append(ctx, planEvents(plan, time.Now().UTC())...); err != nil {
		return RecommendTransfersResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return RecommendTransfersResult{}, err
	}

	result.Code = Recommended
	result.RunID = plan.RunID()
	result.FirstCycle = plan.FirstCycleID()
	result.Cycles = len(plan.Cycles())
	result.Assigned = len(plan.Assignments())

	h.logger.InfoContext(ctx, "Transfer plan recommended",
		"batch_id", batch,
		"system_id", system,
		"run_id", plan.RunID().String(),
		"cycles", result.Cycles,
		"assigned", result.Assigned,
		"bumped", len(planned.Allocation.Bumps),
		"unassigned", len(result.Unassigned),
	)

	return result, nil
}

func (h RecommendTransfersCommandHandler) noTransfers(
	ctx context.Context,
	uow UoW,
	batch kernel.BatchID,
	system kernel.SystemID,
	result RecommendTransfersResult,
) (RecommendTransfersResult, error) {
	event := transfer.Event{
		Type:       transfer.PlanRecommended,
		BatchID:    batch,
		SystemID:   system,
		Value:      wizard.NoTransfersMessage,
		OccurredAt: time.Now().UTC(),
	}
	if err := uow.EventOutbox().Append(ctx, event); err != nil {
		return RecommendTransfersResult{}, err
	}
	if err := uow.Commit(ctx); err != nil {
		return RecommendTransfersResult{}, err
	}

	h.logger.InfoContext(ctx, "No pending transfers", "batch_id", batch, "system_id", system)
	result.Code = NoPendingTransfers
	return result, nil
}

func (h RecommendTransfersCommandHandler) observe(result RecommendTransfersResult, err error, took time.Duration) {
	if h.observer == nil {
		return
	}
	code := result.Code.String()
	if err != nil && result.Code == UnknownResult {
		code = "Failed"
	}
	h.observer.ObserveRun(code, result.Cycles, len(result.Unassigned), took.Seconds())
}

func planEvents(plan *transfer.Plan, at time.Time) []transfer.Event {
	base := transfer.Event{
		RunID:      plan.RunID().String(),
		BatchID:    plan.BatchID(),
		SystemID:   plan.SystemID(),
		OccurredAt: at,
	}

	head := base
	head.Type = transfer.PlanRecommended
	head.Cycle = plan.FirstCycleID()
	events := []transfer.Event{head}

	for _, a := range plan.Assignments() {
		e := base
		e.Type = transfer.StatusChanged
		e.Cycle = a.Cycle
		e.Canister = a.Canister
		e.Value = transfer.Pending.String()
		events = append(events, e)
	}
	return events
}

func demandIDs(demands []canister.Demand) []kernel.CanisterID {
	if len(demands) == 0 {
		return nil
	}
	out := make([]kernel.CanisterID, 0, len(demands))
	for _, d := range demands {
		out = append(out, d.CanisterID())
	}
	return out
}
