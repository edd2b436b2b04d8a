// Package commands contains the operations that change transfer state.
// Every handler validates its command, opens a unit of work, applies the
// domain transition and commits; events for the wizard are written to the
// outbox in the same transaction.
package commands

import (
	"context"

	"canistertransfer/internal/core/domain/services"
	"canistertransfer/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	TransferRepoFactory interface {
		TransferRepository() ports.TransferRepository
	}

	InventoryReaderFactory interface {
		InventoryReader() ports.InventoryReader
	}

	CSRRecommenderFactory interface {
		CSRRecommender() services.CSRRecommender
	}

	EventOutboxFactory interface {
		EventOutbox() ports.EventOutbox
	}

	// TransferUoW serves the commands that follow a stored plan.
	TransferUoW interface {
		TxManager
		TransferRepoFactory
		CSRRecommenderFactory
		EventOutboxFactory
	}

	TransferUoWFactory interface {
		Create() TransferUoW
	}

	// OutboxUoW serves the wizard synchronization.
	OutboxUoW interface {
		TxManager
		EventOutboxFactory
	}

	OutboxUoWFactory interface {
		Create() OutboxUoW
	}

	// UoW gives access to everything a recommendation run touches.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   demands, err := uow.InventoryReader().PendingDemands(ctx, batch)
	//   // ... plan
	//   err = uow.TransferRepository().SavePlan(ctx, plan)
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		TransferRepoFactory
		InventoryReaderFactory
		CSRRecommenderFactory
		EventOutboxFactory
	}

	UoWFactory interface {
		Create() UoW
	}
)
