package commands_test

import (
	"errors"
	"testing"

	"canistertransfer/internal/core/application/usecases/commands"
	"canistertransfer/internal/core/domain/model/kernel"
	"canistertransfer/internal/core/domain/model/transfer"
	"canistertransfer/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func skipHandler(f *transferUoW) commands.SkipCanisterTransfersCommandHandler {
	return commands.NewSkipCanisterTransfersCommandHandler(f.factory, discardLogger())
}

func TestSkipCanisterTransfersCommandHandler_Handle_Skip(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewSkipCanisterTransfersCommand(
		testBatch, transfer.StagePending, []kernel.CanisterID{101, 102}, nil, false, "broken lid", 5,
	)
	require.NoError(t, err)

	f := newTransferUoW()
	withComment := mock.MatchedBy(func(r transfer.StatusRecord) bool {
		return r.Canister == 101 && r.Seq == 2 && r.Status == transfer.Skipped && r.Comment == "broken lid" && r.UserID == 5
	})

	mock.InOrder(
		f.uow.On("Begin", ctx).Return(nil).Once(),
		f.uow.On("TransferRepository").Return(f.repo).Once(),
		f.repo.On("RunSystem", ctx, testBatch).Return(f.runID, testSystem, nil).Once(),
		f.repo.On("ActiveAssignments", ctx, testBatch).Return([]transfer.Assignment{robotBound(101), robotBound(102)}, nil).Once(),
		f.repo.On("LatestStatuses", ctx, testBatch).Return(statuses(
			recordAt(101, 1, transfer.Pending),
			recordAt(102, 2, transfer.ToTrolleyDone),
		), nil).Once(),
		f.repo.On("AppendStatus", ctx, testBatch, withComment).Return(nil).Once(),
		f.repo.On("AppendStatus", ctx, testBatch, status(102, 3, transfer.Skipped)).Return(nil).Once(),
		f.uow.On("EventOutbox").Return(f.outbox).Once(),
		f.outbox.On("Append", ctx, eventTypes(transfer.StatusChanged, transfer.StatusChanged)).Return(nil).Once(),
		f.uow.On("Commit", ctx).Return(nil).Once(),
		f.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	result, err := skipHandler(f).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, []kernel.CanisterID{101, 102}, result.Skipped)
	assert.Empty(t, result.Redirected)
	assert.Empty(t, result.Substituted)
	f.assertExpectations(t)
}

func TestSkipCanisterTransfersCommandHandler_Handle_WithAlternate(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewSkipCanisterTransfersCommand(
		testBatch, transfer.StagePending, []kernel.CanisterID{101},
		map[kernel.CanisterID]kernel.CanisterID{101: 201}, false, "", 5,
	)
	require.NoError(t, err)

	f := newTransferUoW()
	substitute := mock.MatchedBy(func(a transfer.Assignment) bool {
		return a.Canister == 201 && a.AlternateFor == 101 && a.TrolleyLocation == robotBound(101).TrolleyLocation
	})

	mock.InOrder(
		f.uow.On("Begin", ctx).Return(nil).Once(),
		f.uow.On("TransferRepository").Return(f.repo).Once(),
		f.repo.On("RunSystem", ctx, testBatch).Return(f.runID, testSystem, nil).Once(),
		f.repo.On("ActiveAssignments", ctx, testBatch).Return([]transfer.Assignment{robotBound(101)}, nil).Once(),
		f.repo.On("LatestStatuses", ctx, testBatch).Return(statuses(recordAt(101, 1, transfer.Pending)), nil).Once(),
		f.repo.On("AppendStatus", ctx, testBatch, status(101, 2, transfer.SkippedAndAlternate)).Return(nil).Once(),
		f.repo.On("AppendAssignment", ctx, testBatch, substitute).Return(nil).Once(),
		f.repo.On("AppendStatus", ctx, testBatch, status(201, 1, transfer.Pending)).Return(nil).Once(),
		f.uow.On("EventOutbox").Return(f.outbox).Once(),
		f.outbox.On("Append", ctx, eventTypes(
			transfer.StatusChanged,
			transfer.CanisterSubstituted,
			transfer.StatusChanged,
			transfer.ReplenishRequested,
		)).Return(nil).Once(),
		f.uow.On("Commit", ctx).Return(nil).Once(),
		f.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	result, err := skipHandler(f).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, map[kernel.CanisterID]kernel.CanisterID{101: 201}, result.Substituted)
	f.assertExpectations(t)
}

func TestSkipCanisterTransfersCommandHandler_Handle_Deactivate(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewSkipCanisterTransfersCommand(
		testBatch, transfer.StageToTrolleyDone, []kernel.CanisterID{101}, nil, true, "", 5,
	)
	require.NoError(t, err)

	f := newTransferUoW()

	mock.InOrder(
		f.uow.On("Begin", ctx).Return(nil).Once(),
		f.uow.On("TransferRepository").Return(f.repo).Once(),
		f.repo.On("RunSystem", ctx, testBatch).Return(f.runID, testSystem, nil).Once(),
		f.repo.On("ActiveAssignments", ctx, testBatch).Return([]transfer.Assignment{robotBound(101)}, nil).Once(),
		f.repo.On("LatestStatuses", ctx, testBatch).Return(statuses(recordAt(101, 1, transfer.Pending)), nil).Once(),
		f.repo.On("AppendStatus", ctx, testBatch, status(101, 2, transfer.DeactivatedAndSkipped)).Return(nil).Once(),
		f.uow.On("EventOutbox").Return(f.outbox).Once(),
		f.outbox.On("Append", ctx, eventTypes(transfer.StatusChanged, transfer.ReplenishRequested)).Return(nil).Once(),
		f.uow.On("Commit", ctx).Return(nil).Once(),
		f.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	result, err := skipHandler(f).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, []kernel.CanisterID{101}, result.Skipped)
	f.assertExpectations(t)
}

func TestSkipCanisterTransfersCommandHandler_Handle_RedirectsCanisterInTrolley(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewSkipCanisterTransfersCommand(
		testBatch, transfer.StageToRobotDone, []kernel.CanisterID{101}, nil, false, "slot jammed", 5,
	)
	require.NoError(t, err)

	f := newTransferUoW()
	shelved := csrBound(102)
	loc := &services.CSRLocation{Device: 900, Location: 9500, DrawerLevel: 3}

	redirected := mock.MatchedBy(func(a transfer.Assignment) bool {
		return a.Canister == 101 &&
			a.Destination.Kind == kernel.CSR &&
			a.Destination.Location == 9500 &&
			a.TrolleyLocation == robotBound(101).TrolleyLocation
	})
	stillInTrolley := mock.MatchedBy(func(r transfer.StatusRecord) bool {
		return r.Canister == 101 && r.Seq == 3 && r.Status == transfer.ToTrolleyDone &&
			r.Comment == "redirected to CSR: slot jammed"
	})
	withLocation := mock.MatchedBy(func(events []transfer.Event) bool {
		return len(events) == 1 && events[0].Attributes["csr_location"] == "9500"
	})

	mock.InOrder(
		f.uow.On("Begin", ctx).Return(nil).Once(),
		f.uow.On("TransferRepository").Return(f.repo).Once(),
		f.repo.On("RunSystem", ctx, testBatch).Return(f.runID, testSystem, nil).Once(),
		f.repo.On("ActiveAssignments", ctx, testBatch).Return([]transfer.Assignment{robotBound(101), shelved}, nil).Once(),
		f.repo.On("LatestStatuses", ctx, testBatch).Return(statuses(
			recordAt(101, 2, transfer.ToTrolleyDone),
			recordAt(102, 2, transfer.ToTrolleyDone),
		), nil).Once(),
		f.uow.On("CSRRecommender").Return(f.csr).Once(),
		f.csr.On("RecommendCSRLocation", ctx, testSystem, kernel.CanisterID(101), kernel.Small,
			[]kernel.LocationID{shelved.Destination.Location}).Return(loc, nil).Once(),
		f.repo.On("AppendAssignment", ctx, testBatch, redirected).Return(nil).Once(),
		f.repo.On("AppendStatus", ctx, testBatch, stillInTrolley).Return(nil).Once(),
		f.uow.On("EventOutbox").Return(f.outbox).Once(),
		f.outbox.On("Append", ctx, withLocation).Return(nil).Once(),
		f.uow.On("Commit", ctx).Return(nil).Once(),
		f.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	result, err := skipHandler(f).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, []kernel.CanisterID{101}, result.Redirected)
	assert.Empty(t, result.Skipped)
	f.assertExpectations(t)
}

func TestSkipCanisterTransfersCommandHandler_Handle_SkipsWhenCSRIsFull(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewSkipCanisterTransfersCommand(
		testBatch, transfer.StageToRobotDone, []kernel.CanisterID{101}, nil, false, "", 5,
	)
	require.NoError(t, err)

	f := newTransferUoW()

	mock.InOrder(
		f.uow.On("Begin", ctx).Return(nil).Once(),
		f.uow.On("TransferRepository").Return(f.repo).Once(),
		f.repo.On("RunSystem", ctx, testBatch).Return(f.runID, testSystem, nil).Once(),
		f.repo.On("ActiveAssignments", ctx, testBatch).Return([]transfer.Assignment{robotBound(101)}, nil).Once(),
		f.repo.On("LatestStatuses", ctx, testBatch).Return(statuses(recordAt(101, 2, transfer.ToTrolleyDone)), nil).Once(),
		f.uow.On("CSRRecommender").Return(f.csr).Once(),
		f.csr.On("RecommendCSRLocation", ctx, testSystem, kernel.CanisterID(101), kernel.Small, mock.Anything).
			Return(nil, nil).Once(),
		f.repo.On("AppendStatus", ctx, testBatch, status(101, 3, transfer.Skipped)).Return(nil).Once(),
		f.uow.On("EventOutbox").Return(f.outbox).Once(),
		f.outbox.On("Append", ctx, eventTypes(transfer.StatusChanged)).Return(nil).Once(),
		f.uow.On("Commit", ctx).Return(nil).Once(),
		f.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	result, err := skipHandler(f).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, []kernel.CanisterID{101}, result.Skipped)
	f.repo.AssertNotCalled(t, "AppendAssignment", mock.Anything, mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestSkipCanisterTransfersCommandHandler_Handle_DeliveredCanister(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewSkipCanisterTransfersCommand(
		testBatch, transfer.StagePending, []kernel.CanisterID{101}, nil, false, "", 5,
	)
	require.NoError(t, err)

	f := newTransferUoW()

	mock.InOrder(
		f.uow.On("Begin", ctx).Return(nil).Once(),
		f.uow.On("TransferRepository").Return(f.repo).Once(),
		f.repo.On("RunSystem", ctx, testBatch).Return(f.runID, testSystem, nil).Once(),
		f.repo.On("ActiveAssignments", ctx, testBatch).Return([]transfer.Assignment{robotBound(101)}, nil).Once(),
		f.repo.On("LatestStatuses", ctx, testBatch).Return(statuses(recordAt(101, 3, transfer.ToRobotDone)), nil).Once(),
		f.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	_, err = skipHandler(f).Handle(ctx, cmd)

	require.Error(t, err)
	f.uow.AssertNotCalled(t, "Commit", ctx)
	f.assertExpectations(t)
}

func TestSkipCanisterTransfersCommandHandler_Handle_RecommenderError(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewSkipCanisterTransfersCommand(
		testBatch, transfer.StageToRobotDone, []kernel.CanisterID{101}, nil, false, "", 5,
	)
	require.NoError(t, err)

	f := newTransferUoW()

	mock.InOrder(
		f.uow.On("Begin", ctx).Return(nil).Once(),
		f.uow.On("TransferRepository").Return(f.repo).Once(),
		f.repo.On("RunSystem", ctx, testBatch).Return(f.runID, testSystem, nil).Once(),
		f.repo.On("ActiveAssignments", ctx, testBatch).Return([]transfer.Assignment{robotBound(101)}, nil).Once(),
		f.repo.On("LatestStatuses", ctx, testBatch).Return(statuses(recordAt(101, 2, transfer.ToTrolleyDone)), nil).Once(),
		f.uow.On("CSRRecommender").Return(f.csr).Once(),
		f.csr.On("RecommendCSRLocation", ctx, testSystem, kernel.CanisterID(101), kernel.Small, mock.Anything).
			Return(nil, errors.New("csr query failed")).Once(),
		f.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	_, err = skipHandler(f).Handle(ctx, cmd)

	require.EqualError(t, err, "csr query failed")
	f.assertExpectations(t)
}
