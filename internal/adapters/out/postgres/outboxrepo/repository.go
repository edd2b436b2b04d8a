package outboxrepo

import (
	"context"
	"time"

	"canistertransfer/internal/core/domain/model/transfer"
	"canistertransfer/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormEventOutbox implements ports.EventOutbox using GORM.
type GormEventOutbox struct {
	db *gorm.DB
}

func NewGormEventOutbox(db *gorm.DB) *GormEventOutbox {
	return &GormEventOutbox{db: db}
}

// Append stores the events and writes the assigned ids back into events.
func (o *GormEventOutbox) Append(ctx context.Context, events ...transfer.Event) error {
	if len(events) == 0 {
		return nil
	}

	dtos := make([]EventDTO, 0, len(events))
	for _, e := range events {
		if e.Type == "" {
			return errs.NewValueIsRequiredError("event type")
		}
		dtos = append(dtos, eventFromDomain(e))
	}
	if err := o.db.WithContext(ctx).Create(&dtos).Error; err != nil {
		return err
	}

	for i := range dtos {
		events[i].ID = dtos[i].ID
	}
	return nil
}

func (o *GormEventOutbox) Pending(ctx context.Context, limit int) ([]transfer.Event, error) {
	if limit <= 0 {
		return nil, errs.NewValueIsOutOfRangeError("limit", limit, 1, "unbounded")
	}

	var dtos []EventDTO
	err := o.db.WithContext(ctx).
		Where("published = ?", false).
		Order("id").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	out := make([]transfer.Event, 0, len(dtos))
	for _, dto := range dtos {
		out = append(out, eventToDomain(dto))
	}
	return out, nil
}

func (o *GormEventOutbox) MarkPublished(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	now := time.Now().UTC()
	return o.db.WithContext(ctx).
		Model(&EventDTO{}).
		Where("id IN ?", ids).
		Updates(map[string]any{"published": true, "published_at": now}).Error
}
