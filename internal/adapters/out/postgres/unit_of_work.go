// Package postgres provides the GORM unit of work shared by all transfer
// commands. Repositories handed out by a unit of work run inside the
// transaction opened by Begin, so a recommendation run stores its plan, its
// status history and its outbox events atomically.
//
// Usage:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	if err := uow.TransferRepository().SavePlan(ctx, plan); err != nil {
//	    return err
//	}
//	if err := uow.EventOutbox().Append(ctx, events...); err != nil {
//	    return err
//	}
//	return uow.Commit(ctx)
//
// Each UnitOfWork instance holds one transaction and must not be shared
// between goroutines.
package postgres

import (
	"context"

	"canistertransfer/internal/adapters/out/postgres/csrrepo"
	"canistertransfer/internal/adapters/out/postgres/inventoryrepo"
	"canistertransfer/internal/adapters/out/postgres/outboxrepo"
	"canistertransfer/internal/adapters/out/postgres/transferrepo"
	"canistertransfer/internal/core/domain/model/kernel"
	"canistertransfer/internal/core/domain/services"
	"canistertransfer/internal/core/ports"

	"gorm.io/gorm"
)

// trackedAggregate is an aggregate written during the unit of work.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// GormUnitOfWorkFactory creates UnitOfWork instances over one connection pool.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create returns a fresh unit of work with no active transaction.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork implements ports.UnitOfWork with a GORM transaction.
// Accessors called before Begin, or after Commit or Rollback, use the plain
// connection.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	trackedAggregates []trackedAggregate
}

// Begin opens the transaction. Calling it again while a transaction is
// active is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	tx := uow.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	uow.tx = tx
	return nil
}

// Commit returns gorm.ErrInvalidTransaction if no transaction is active.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback discards the transaction and everything tracked in it. Handlers
// defer it unconditionally, so after Commit it returns
// gorm.ErrInvalidTransaction.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return err
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

func (uow *GormUnitOfWork) TransferRepository() ports.TransferRepository {
	return transferrepo.NewGormTransferRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) InventoryReader() ports.InventoryReader {
	return inventoryrepo.NewGormInventoryReader(uow.conn())
}

func (uow *GormUnitOfWork) CSRRecommender() services.CSRRecommender {
	return csrrepo.NewGormCSRRecommender(uow.conn())
}

func (uow *GormUnitOfWork) EventOutbox() ports.EventOutbox {
	return outboxrepo.NewGormEventOutbox(uow.conn())
}

// TrackAggregate is called by repositories after they wrote an aggregate.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

// TrackedIDs returns the ids of the aggregates written since Begin.
func (uow *GormUnitOfWork) TrackedIDs() []kernel.UUID {
	ids := make([]kernel.UUID, 0, len(uow.trackedAggregates))
	for _, t := range uow.trackedAggregates {
		ids = append(ids, t.ID)
	}
	return ids
}
