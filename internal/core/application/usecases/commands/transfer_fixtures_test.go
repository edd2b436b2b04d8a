package commands_test

import (
	"testing"
	"time"

	"canistertransfer/internal/core/domain/model/kernel"
	"canistertransfer/internal/core/domain/model/transfer"
	"canistertransfer/internal/core/domain/model/trolley"
)

// transferUoW is a TransferUoW mock wired to its repository and outbox.
type transferUoW struct {
	repo    *MockTransferRepository
	csr     *MockCSRRecommender
	outbox  *MockEventOutbox
	uow     *MockUoW
	factory *MockTransferUoWFactory
	runID   kernel.UUID
}

func newTransferUoW() *transferUoW {
	f := &transferUoW{
		repo:    new(MockTransferRepository),
		csr:     new(MockCSRRecommender),
		outbox:  new(MockEventOutbox),
		uow:     new(MockUoW),
		factory: new(MockTransferUoWFactory),
		runID:   kernel.NewUUID(),
	}
	f.factory.On("Create").Return(f.uow).Once()
	return f
}

func (f *transferUoW) assertExpectations(t *testing.T) {
	t.Helper()
	f.repo.AssertExpectations(t)
	f.csr.AssertExpectations(t)
	f.outbox.AssertExpectations(t)
	f.uow.AssertExpectations(t)
	f.factory.AssertExpectations(t)
}

// robotBound is canister id moving from robot 10 to robot 20 in cycle 1.
func robotBound(id kernel.CanisterID) transfer.Assignment {
	return transfer.Assignment{
		Canister:        id,
		CanisterType:    kernel.Small,
		Cycle:           1,
		TrolleyDevice:   300,
		TrolleyLocation: kernel.LocationID(500 + id),
		Destination: transfer.Destination{
			Device:      20,
			Kind:        kernel.Robot,
			Quadrant:    1,
			Location:    kernel.LocationID(2000 + id),
			DrawerLevel: 5,
			Class:       trolley.Normal,
		},
		SourceDevice:   10,
		SourceLocation: kernel.LocationID(1000 + id),
	}
}

// csrBound is canister id leaving robot 10 for CSR shelving in cycle 1.
func csrBound(id kernel.CanisterID) transfer.Assignment {
	a := robotBound(id)
	a.Destination = transfer.Destination{
		Device:      900,
		Kind:        kernel.CSR,
		Location:    kernel.LocationID(9000 + id),
		DrawerLevel: 2,
		Class:       trolley.Normal,
	}
	return a
}

func recordAt(id kernel.CanisterID, seq int, s transfer.Status) transfer.StatusRecord {
	return transfer.StatusRecord{
		Canister: id,
		Seq:      seq,
		Status:   s,
		At:       time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC),
	}
}

func statuses(records ...transfer.StatusRecord) map[kernel.CanisterID]transfer.StatusRecord {
	out := make(map[kernel.CanisterID]transfer.StatusRecord, len(records))
	for _, r := range records {
		out[r.Canister] = r
	}
	return out
}
