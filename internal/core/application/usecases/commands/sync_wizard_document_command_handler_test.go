package commands_test

import (
	"testing"
	"time"

	"canistertransfer/internal/core/application/usecases/commands"
	"canistertransfer/internal/core/domain/model/kernel"
	"canistertransfer/internal/core/domain/model/transfer"
	"canistertransfer/internal/core/domain/model/wizard"
	"canistertransfer/internal/core/ports"
	"canistertransfer/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type syncFixture struct {
	outbox  *MockEventOutbox
	store   *MockWizardDocumentStore
	uow     *MockUoW
	factory *MockOutboxUoWFactory
}

func newSyncFixture() *syncFixture {
	f := &syncFixture{
		outbox:  new(MockEventOutbox),
		store:   new(MockWizardDocumentStore),
		uow:     new(MockUoW),
		factory: new(MockOutboxUoWFactory),
	}
	f.factory.On("Create").Return(f.uow).Once()
	return f
}

func (f *syncFixture) handler() commands.SyncWizardDocumentCommandHandler {
	return commands.NewSyncWizardDocumentCommandHandler(f.factory, f.store, 3, discardLogger())
}

func (f *syncFixture) assertExpectations(t *testing.T) {
	t.Helper()
	f.outbox.AssertExpectations(t)
	f.store.AssertExpectations(t)
	f.uow.AssertExpectations(t)
	f.factory.AssertExpectations(t)
}

func outboxEvent(id int64, system kernel.SystemID, typ transfer.EventType, canister kernel.CanisterID, value string) transfer.Event {
	return transfer.Event{
		ID:         id,
		Type:       typ,
		BatchID:    testBatch,
		SystemID:   system,
		Cycle:      1,
		Canister:   canister,
		Value:      value,
		OccurredAt: time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC),
	}
}

func TestSyncWizardDocumentCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewSyncWizardDocumentCommand(100)
	require.NoError(t, err)

	events := []transfer.Event{
		outboxEvent(1, 7, transfer.PlanRecommended, 0, ""),
		outboxEvent(2, 8, transfer.StatusChanged, 301, "Pending"),
		outboxEvent(3, 7, transfer.StatusChanged, 101, "Pending"),
	}

	f := newSyncFixture()
	stored := wizard.RestoreDocument(wizard.DocumentName(8), 4, wizard.State{SystemID: 8, LastEventID: 0})

	var written *wizard.Document
	mock.InOrder(
		f.uow.On("Begin", ctx).Return(nil).Once(),
		f.uow.On("EventOutbox").Return(f.outbox).Once(),
		f.outbox.On("Pending", ctx, 100).Return(events, nil).Once(),
		f.store.On("Get", ctx, wizard.DocumentName(7)).
			Return(nil, errs.NewObjectNotFoundError("document", wizard.DocumentName(7))).Once(),
		f.store.On("Put", ctx, mock.AnythingOfType("*wizard.Document")).
			Run(func(args mock.Arguments) { written = args.Get(1).(*wizard.Document) }).
			Return(wizard.NewDocument(7), nil).Once(),
		f.store.On("Get", ctx, wizard.DocumentName(8)).Return(stored, nil).Once(),
		f.store.On("Put", ctx, stored).Return(stored, nil).Once(),
		f.outbox.On("MarkPublished", ctx, []int64{1, 3, 2}).Return(nil).Once(),
		f.uow.On("Commit", ctx).Return(nil).Once(),
		f.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	result, err := f.handler().Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, 3, result.Published)
	assert.Equal(t, 2, result.Systems)
	assert.Empty(t, result.Failed)

	require.NotNil(t, written)
	assert.Equal(t, wizard.DocumentName(7), written.Name())
	assert.Equal(t, int64(3), written.State().LastEventID)
	assert.Equal(t, "Pending", written.State().Canisters["101"])
	f.assertExpectations(t)
}

func TestSyncWizardDocumentCommandHandler_Handle_RetriesConflict(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewSyncWizardDocumentCommand(100)
	require.NoError(t, err)

	events := []transfer.Event{outboxEvent(5, 7, transfer.StatusChanged, 101, "ToTrolleyDone")}

	f := newSyncFixture()
	first := wizard.RestoreDocument(wizard.DocumentName(7), 1, wizard.State{SystemID: 7, LastEventID: 4})
	second := wizard.RestoreDocument(wizard.DocumentName(7), 2, wizard.State{SystemID: 7, LastEventID: 4})

	mock.InOrder(
		f.uow.On("Begin", ctx).Return(nil).Once(),
		f.uow.On("EventOutbox").Return(f.outbox).Once(),
		f.outbox.On("Pending", ctx, 100).Return(events, nil).Once(),
		f.store.On("Get", ctx, wizard.DocumentName(7)).Return(first, nil).Once(),
		f.store.On("Put", ctx, first).Return(nil, ports.ErrConflict).Once(),
		f.store.On("Get", ctx, wizard.DocumentName(7)).Return(second, nil).Once(),
		f.store.On("Put", ctx, second).Return(second, nil).Once(),
		f.outbox.On("MarkPublished", ctx, []int64{5}).Return(nil).Once(),
		f.uow.On("Commit", ctx).Return(nil).Once(),
		f.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	result, err := f.handler().Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Published)
	f.assertExpectations(t)
}

func TestSyncWizardDocumentCommandHandler_Handle_KeepsFailedSystemPending(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewSyncWizardDocumentCommand(100)
	require.NoError(t, err)

	events := []transfer.Event{
		outboxEvent(1, 7, transfer.StatusChanged, 101, "Pending"),
		outboxEvent(2, 8, transfer.StatusChanged, 301, "Pending"),
	}

	f := newSyncFixture()
	fine := wizard.RestoreDocument(wizard.DocumentName(8), 1, wizard.State{SystemID: 8})

	f.uow.On("Begin", ctx).Return(nil).Once()
	f.uow.On("EventOutbox").Return(f.outbox).Once()
	f.outbox.On("Pending", ctx, 100).Return(events, nil).Once()
	// every attempt reads a fresh copy and loses the race again
	for version := 9; version < 12; version++ {
		contended := wizard.RestoreDocument(wizard.DocumentName(7), version, wizard.State{SystemID: 7})
		f.store.On("Get", ctx, wizard.DocumentName(7)).Return(contended, nil).Once()
		f.store.On("Put", ctx, contended).Return(nil, ports.ErrConflict).Once()
	}
	f.store.On("Get", ctx, wizard.DocumentName(8)).Return(fine, nil).Once()
	f.store.On("Put", ctx, fine).Return(fine, nil).Once()
	f.outbox.On("MarkPublished", ctx, []int64{2}).Return(nil).Once()
	f.uow.On("Commit", ctx).Return(nil).Once()
	f.uow.On("Rollback", ctx).Return(nil).Once()

	result, err := f.handler().Handle(ctx, cmd)

	require.ErrorIs(t, err, ports.ErrConflict)
	assert.Equal(t, 1, result.Published)
	assert.Equal(t, []kernel.SystemID{7}, result.Failed)
	f.assertExpectations(t)
}

func TestSyncWizardDocumentCommandHandler_Handle_NothingPending(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewSyncWizardDocumentCommand(100)
	require.NoError(t, err)

	f := newSyncFixture()

	mock.InOrder(
		f.uow.On("Begin", ctx).Return(nil).Once(),
		f.uow.On("EventOutbox").Return(f.outbox).Once(),
		f.outbox.On("Pending", ctx, 100).Return([]transfer.Event{}, nil).Once(),
		f.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	result, err := f.handler().Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Zero(t, result.Published)
	f.store.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestSyncWizardDocumentCommandHandler_SyncPending(t *testing.T) {
	ctx := t.Context()

	f := newSyncFixture()
	mock.InOrder(
		f.uow.On("Begin", ctx).Return(nil).Once(),
		f.uow.On("EventOutbox").Return(f.outbox).Once(),
		f.outbox.On("Pending", ctx, commands.DefaultSyncBatchSize).Return(nil, nil).Once(),
		f.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	require.NoError(t, f.handler().SyncPending(ctx))
	f.assertExpectations(t)
}

func TestSyncWizardDocumentCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	cmd := commands.SyncWizardDocumentCommand{} // not constructed properly

	factory := new(MockOutboxUoWFactory)
	handler := commands.NewSyncWizardDocumentCommandHandler(factory, new(MockWizardDocumentStore), 0, discardLogger())
	_, err := handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, commands.ErrSyncWizardDocumentCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}
