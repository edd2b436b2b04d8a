package ports

import (
	"context"

	"canistertransfer/internal/core/domain/model/transfer"
)

// EventOutbox stores events in the same transaction as the change that
// caused them. A background job publishes them afterwards.
type EventOutbox interface {
	// Append stores events and assigns their ids.
	Append(ctx context.Context, events ...transfer.Event) error

	// Pending returns up to limit unpublished events ordered by id.
	Pending(ctx context.Context, limit int) ([]transfer.Event, error)

	// MarkPublished flags events as delivered.
	MarkPublished(ctx context.Context, ids []int64) error
}
