// Package outboxrepo is the transactional event outbox of the transfer engine.
package outboxrepo

import (
	"time"

	"canistertransfer/internal/core/domain/model/kernel"
	"canistertransfer/internal/core/domain/model/transfer"
)

type EventDTO struct {
	ID          int64             `gorm:"primaryKey;autoIncrement"`
	Type        string            `gorm:"type:varchar(64);not null"`
	RunID       string            `gorm:"type:varchar(36)"`
	BatchID     kernel.BatchID    `gorm:"not null"`
	SystemID    kernel.SystemID   `gorm:"not null;index"`
	Cycle       int               `gorm:"not null"`
	Canister    kernel.CanisterID `gorm:"not null"`
	Device      kernel.DeviceID   `gorm:"not null"`
	Value       string            `gorm:"type:varchar(256)"`
	Attributes  map[string]string `gorm:"type:jsonb;serializer:json"`
	OccurredAt  time.Time         `gorm:"not null"`
	Published   bool              `gorm:"not null;default:false;index"`
	PublishedAt *time.Time
}

func (EventDTO) TableName() string {
	return "canister_transfer_events"
}

func eventFromDomain(e transfer.Event) EventDTO {
	return EventDTO{
		Type:       string(e.Type),
		RunID:      e.RunID,
		BatchID:    e.BatchID,
		SystemID:   e.SystemID,
		Cycle:      e.Cycle,
		Canister:   e.Canister,
		Device:     e.Device,
		Value:      e.Value,
		Attributes: e.Attributes,
		OccurredAt: e.OccurredAt,
	}
}

func eventToDomain(dto EventDTO) transfer.Event {
	return transfer.Event{
		ID:         dto.ID,
		Type:       transfer.EventType(dto.Type),
		RunID:      dto.RunID,
		BatchID:    dto.BatchID,
		SystemID:   dto.SystemID,
		Cycle:      dto.Cycle,
		Canister:   dto.Canister,
		Device:     dto.Device,
		Value:      dto.Value,
		Attributes: dto.Attributes,
		OccurredAt: dto.OccurredAt.UTC(),
	}
}
