package commands_test

import (
	"testing"

	"canistertransfer/internal/core/application/usecases/commands"
	"canistertransfer/internal/core/domain/model/kernel"
	"canistertransfer/internal/core/domain/model/transfer"
	"canistertransfer/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestTransferLaterCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewTransferLaterCommand(testBatch, []kernel.CanisterID{101, 102}, "next batch", 5)
	require.NoError(t, err)

	f := newTransferUoW()

	mock.InOrder(
		f.uow.On("Begin", ctx).Return(nil).Once(),
		f.uow.On("TransferRepository").Return(f.repo).Once(),
		f.repo.On("RunSystem", ctx, testBatch).Return(f.runID, testSystem, nil).Once(),
		f.repo.On("ActiveAssignments", ctx, testBatch).Return([]transfer.Assignment{robotBound(101), csrBound(102)}, nil).Once(),
		f.repo.On("LatestStatuses", ctx, testBatch).Return(statuses(
			recordAt(101, 1, transfer.Pending),
			recordAt(102, 1, transfer.Pending),
		), nil).Once(),
		f.repo.On("AppendStatus", ctx, testBatch, status(101, 2, transfer.TransferLater)).Return(nil).Once(),
		f.repo.On("AppendStatus", ctx, testBatch, status(102, 2, transfer.TransferLater)).Return(nil).Once(),
		f.uow.On("EventOutbox").Return(f.outbox).Once(),
		f.outbox.On("Append", ctx, eventTypes(transfer.StatusChanged, transfer.StatusChanged)).Return(nil).Once(),
		f.uow.On("Commit", ctx).Return(nil).Once(),
		f.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	err = commands.NewTransferLaterCommandHandler(f.factory).Handle(ctx, cmd)

	require.NoError(t, err)
	f.assertExpectations(t)
}

func TestTransferLaterCommandHandler_Handle_PickedCanisterRollsBack(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewTransferLaterCommand(testBatch, []kernel.CanisterID{101, 102}, "", 5)
	require.NoError(t, err)

	f := newTransferUoW()

	mock.InOrder(
		f.uow.On("Begin", ctx).Return(nil).Once(),
		f.uow.On("TransferRepository").Return(f.repo).Once(),
		f.repo.On("RunSystem", ctx, testBatch).Return(f.runID, testSystem, nil).Once(),
		f.repo.On("ActiveAssignments", ctx, testBatch).Return([]transfer.Assignment{robotBound(101), robotBound(102)}, nil).Once(),
		f.repo.On("LatestStatuses", ctx, testBatch).Return(statuses(
			recordAt(101, 1, transfer.Pending),
			recordAt(102, 2, transfer.ToTrolleyDone),
		), nil).Once(),
		f.repo.On("AppendStatus", ctx, testBatch, status(101, 2, transfer.TransferLater)).Return(nil).Once(),
		f.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	err = commands.NewTransferLaterCommandHandler(f.factory).Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	f.uow.AssertNotCalled(t, "Commit", ctx)
	f.assertExpectations(t)
}

func TestTransferLaterCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	cmd := commands.TransferLaterCommand{} // not constructed properly

	factory := new(MockTransferUoWFactory)
	err := commands.NewTransferLaterCommandHandler(factory).Handle(ctx, cmd)

	require.ErrorIs(t, err, commands.ErrTransferLaterCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}
