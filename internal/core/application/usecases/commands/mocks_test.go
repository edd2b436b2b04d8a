package commands_test

import (
	"context"
	"io"
	"log/slog"

	"canistertransfer/internal/core/application/usecases/commands"
	"canistertransfer/internal/core/domain/model/canister"
	"canistertransfer/internal/core/domain/model/kernel"
	"canistertransfer/internal/core/domain/model/location"
	"canistertransfer/internal/core/domain/model/transfer"
	"canistertransfer/internal/core/domain/model/trolley"
	"canistertransfer/internal/core/domain/model/wizard"
	"canistertransfer/internal/core/domain/services"
	"canistertransfer/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type MockTransferRepository struct{ mock.Mock }

func (m *MockTransferRepository) HasPlan(ctx context.Context, batch kernel.BatchID) (bool, error) {
	args := m.Called(ctx, batch)
	return args.Bool(0), args.Error(1)
}

func (m *MockTransferRepository) CanistersInCart(
	ctx context.Context,
	system kernel.SystemID,
	except kernel.BatchID,
) ([]kernel.CanisterID, error) {
	args := m.Called(ctx, system, except)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]kernel.CanisterID), args.Error(1)
}

func (m *MockTransferRepository) SavePlan(ctx context.Context, plan *transfer.Plan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockTransferRepository) ActiveAssignments(ctx context.Context, batch kernel.BatchID) ([]transfer.Assignment, error) {
	args := m.Called(ctx, batch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]transfer.Assignment), args.Error(1)
}

func (m *MockTransferRepository) AppendAssignment(ctx context.Context, batch kernel.BatchID, a transfer.Assignment) error {
	args := m.Called(ctx, batch, a)
	return args.Error(0)
}

func (m *MockTransferRepository) LatestStatuses(
	ctx context.Context,
	batch kernel.BatchID,
) (map[kernel.CanisterID]transfer.StatusRecord, error) {
	args := m.Called(ctx, batch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[kernel.CanisterID]transfer.StatusRecord), args.Error(1)
}

func (m *MockTransferRepository) AppendStatus(ctx context.Context, batch kernel.BatchID, record transfer.StatusRecord) error {
	args := m.Called(ctx, batch, record)
	return args.Error(0)
}

func (m *MockTransferRepository) CycleStages(
	ctx context.Context,
	batch kernel.BatchID,
	cycle int,
) (map[kernel.DeviceID]transfer.Stage, error) {
	args := m.Called(ctx, batch, cycle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[kernel.DeviceID]transfer.Stage), args.Error(1)
}

func (m *MockTransferRepository) CurrentCycle(ctx context.Context, batch kernel.BatchID) (int, error) {
	args := m.Called(ctx, batch)
	return args.Int(0), args.Error(1)
}

func (m *MockTransferRepository) UpdateCycleStage(
	ctx context.Context,
	batch kernel.BatchID,
	cycle int,
	device kernel.DeviceID,
	stage transfer.Stage,
) error {
	args := m.Called(ctx, batch, cycle, device, stage)
	return args.Error(0)
}

func (m *MockTransferRepository) Cycles(ctx context.Context, batch kernel.BatchID) ([]*transfer.Cycle, error) {
	args := m.Called(ctx, batch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transfer.Cycle), args.Error(1)
}

func (m *MockTransferRepository) RunSystem(ctx context.Context, batch kernel.BatchID) (kernel.UUID, kernel.SystemID, error) {
	args := m.Called(ctx, batch)
	return args.Get(0).(kernel.UUID), args.Get(1).(kernel.SystemID), args.Error(2)
}

type MockInventoryReader struct{ mock.Mock }

func (m *MockInventoryReader) BatchSystem(ctx context.Context, batch kernel.BatchID) (kernel.SystemID, error) {
	args := m.Called(ctx, batch)
	return args.Get(0).(kernel.SystemID), args.Error(1)
}

func (m *MockInventoryReader) PendingDemands(ctx context.Context, batch kernel.BatchID) ([]canister.Demand, error) {
	args := m.Called(ctx, batch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]canister.Demand), args.Error(1)
}

func (m *MockInventoryReader) LocationSnapshot(ctx context.Context, system kernel.SystemID) ([]*location.Slot, error) {
	args := m.Called(ctx, system)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*location.Slot), args.Error(1)
}

func (m *MockInventoryReader) IdleTrolleys(ctx context.Context, system kernel.SystemID) (trolley.Fleet, error) {
	args := m.Called(ctx, system)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(trolley.Fleet), args.Error(1)
}

type MockCSRRecommender struct{ mock.Mock }

func (m *MockCSRRecommender) RecommendCSRLocation(
	ctx context.Context,
	system kernel.SystemID,
	canisterID kernel.CanisterID,
	canisterType kernel.CanisterType,
	reserved []kernel.LocationID,
) (*services.CSRLocation, error) {
	args := m.Called(ctx, system, canisterID, canisterType, reserved)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.CSRLocation), args.Error(1)
}

type MockEventOutbox struct{ mock.Mock }

func (m *MockEventOutbox) Append(ctx context.Context, events ...transfer.Event) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func (m *MockEventOutbox) Pending(ctx context.Context, limit int) ([]transfer.Event, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]transfer.Event), args.Error(1)
}

func (m *MockEventOutbox) MarkPublished(ctx context.Context, ids []int64) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

type MockWizardDocumentStore struct{ mock.Mock }

func (m *MockWizardDocumentStore) Get(ctx context.Context, name string) (*wizard.Document, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wizard.Document), args.Error(1)
}

func (m *MockWizardDocumentStore) Put(ctx context.Context, doc *wizard.Document) (*wizard.Document, error) {
	args := m.Called(ctx, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wizard.Document), args.Error(1)
}

// MockUoW satisfies every unit of work flavour of the commands package.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) TransferRepository() ports.TransferRepository {
	args := m.Called()
	return args.Get(0).(ports.TransferRepository)
}

func (m *MockUoW) InventoryReader() ports.InventoryReader {
	args := m.Called()
	return args.Get(0).(ports.InventoryReader)
}

func (m *MockUoW) CSRRecommender() services.CSRRecommender {
	args := m.Called()
	return args.Get(0).(services.CSRRecommender)
}

func (m *MockUoW) EventOutbox() ports.EventOutbox {
	args := m.Called()
	return args.Get(0).(ports.EventOutbox)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockTransferUoWFactory struct{ mock.Mock }

func (m *MockTransferUoWFactory) Create() commands.TransferUoW {
	args := m.Called()
	return args.Get(0).(commands.TransferUoW)
}

type MockOutboxUoWFactory struct{ mock.Mock }

func (m *MockOutboxUoWFactory) Create() commands.OutboxUoW {
	args := m.Called()
	return args.Get(0).(commands.OutboxUoW)
}

type MockRunObserver struct{ mock.Mock }

func (m *MockRunObserver) ObserveRun(result string, cycles, unassigned int, seconds float64) {
	m.Called(result, cycles, unassigned, seconds)
}

type MockWizardSyncer struct{ mock.Mock }

func (m *MockWizardSyncer) SyncPending(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// eventTypes returns a matcher for an Append call carrying exactly these
// event types in order.
func eventTypes(want ...transfer.EventType) any {
	return mock.MatchedBy(func(events []transfer.Event) bool {
		if len(events) != len(want) {
			return false
		}
		for i, e := range events {
			if e.Type != want[i] {
				return false
			}
		}
		return true
	})
}

// status returns a matcher for an AppendStatus call.
func status(canister kernel.CanisterID, seq int, s transfer.Status) any {
	return mock.MatchedBy(func(r transfer.StatusRecord) bool {
		return r.Canister == canister && r.Seq == seq && r.Status == s
	})
}
