// Package wizardrepo stores the per-system wizard documents with optimistic
// versioning.
package wizardrepo

import (
	"time"

	"canistertransfer/internal/core/domain/model/wizard"
)

type DocumentDTO struct {
	Name      string       `gorm:"type:varchar(128);primaryKey"`
	Version   int          `gorm:"not null"`
	State     wizard.State `gorm:"type:jsonb;serializer:json"`
	UpdatedAt time.Time
}

func (DocumentDTO) TableName() string {
	return "wizard_documents"
}

func documentToDomain(dto DocumentDTO) *wizard.Document {
	return wizard.RestoreDocument(dto.Name, dto.Version, dto.State)
}
