package wizardrepo

import (
	"context"
	"errors"
	"fmt"

	"canistertransfer/internal/adapters/out/postgres/pgerr"
	"canistertransfer/internal/core/domain/model/wizard"
	"canistertransfer/internal/core/ports"
	"canistertransfer/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormWizardDocumentStore implements ports.WizardDocumentStore using GORM.
type GormWizardDocumentStore struct {
	db *gorm.DB
}

func NewGormWizardDocumentStore(db *gorm.DB) *GormWizardDocumentStore {
	return &GormWizardDocumentStore{db: db}
}

func (s *GormWizardDocumentStore) Get(ctx context.Context, name string) (*wizard.Document, error) {
	var dto DocumentDTO
	if err := s.db.WithContext(ctx).Where("name = ?", name).First(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("wizard document", name)
		}
		return nil, err
	}
	return documentToDomain(dto), nil
}

// Put inserts a document of version 0 and otherwise updates the row only
// while its stored version equals doc's.
func (s *GormWizardDocumentStore) Put(ctx context.Context, doc *wizard.Document) (*wizard.Document, error) {
	if doc == nil {
		return nil, errs.NewValueIsRequiredError("wizard document")
	}

	db := s.db.WithContext(ctx)
	next := DocumentDTO{
		Name:    doc.Name(),
		Version: doc.Version() + 1,
		State:   doc.State(),
	}

	if doc.Version() == 0 {
		if err := db.Create(&next).Error; err != nil {
			if pgerr.IsUniqueViolation(err) {
				return nil, fmt.Errorf("document %s: %w", doc.Name(), ports.ErrConflict)
			}
			return nil, err
		}
		return documentToDomain(next), nil
	}

	result := db.Model(&DocumentDTO{}).
		Where("name = ? AND version = ?", doc.Name(), doc.Version()).
		Select("version", "state", "updated_at").
		Updates(&next)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("document %s version %d: %w", doc.Name(), doc.Version(), ports.ErrConflict)
	}
	return documentToDomain(next), nil
}
