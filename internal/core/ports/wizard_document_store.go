package ports

import (
	"context"
	"errors"

	"canistertransfer/internal/core/domain/model/wizard"
)

var ErrConflict = errors.New("document version conflict")

// WizardDocumentStore keeps the per-system documents the operator wizard
// renders. Writes use optimistic versioning.
type WizardDocumentStore interface {
	// Get returns the stored document, or errs.ErrObjectNotFound.
	Get(ctx context.Context, name string) (*wizard.Document, error)

	// Put stores doc if its version still matches the stored one and returns
	// the document with its new version. Returns ErrConflict otherwise.
	Put(ctx context.Context, doc *wizard.Document) (*wizard.Document, error)
}
