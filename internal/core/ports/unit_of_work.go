package ports

import (
	"context"

	"canistertransfer/internal/core/domain/services"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary.
// Every accessor returns an implementation bound to the transaction started
// by Begin.
type UnitOfWork interface {
	Begin(ctx context.Context) error

	// Commit returns an error if no transaction is active.
	Commit(ctx context.Context) error

	// Rollback returns an error if no transaction is active.
	Rollback(ctx context.Context) error

	TransferRepository() TransferRepository

	InventoryReader() InventoryReader

	CSRRecommender() services.CSRRecommender

	EventOutbox() EventOutbox
}
