package transfer

import (
	"time"

	"canistertransfer/internal/core/domain/model/kernel"
)

// EventType names the outbox events written next to plan and status changes.
type EventType string

const (
	PlanRecommended     EventType = "plan_recommended"
	StatusChanged       EventType = "status_changed"
	DeviceStageChanged  EventType = "device_stage_changed"
	CanisterSubstituted EventType = "canister_substituted"
	ReplenishRequested  EventType = "replenish_requested"
)

// Event is an outbox record. ID is assigned by the outbox on append.
type Event struct {
	ID         int64
	Type       EventType
	RunID      string
	BatchID    kernel.BatchID
	SystemID   kernel.SystemID
	Cycle      int
	Canister   kernel.CanisterID
	Device     kernel.DeviceID
	Value      string
	Attributes map[string]string
	OccurredAt time.Time
}
