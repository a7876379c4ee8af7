package driven

import (
	"context"

	"github.com/custodia-labs/ainki-cli/internal/core/domain"
)

// ObjectStore persists knowledge objects.
type ObjectStore interface {
	// SaveObject stores a knowledge object.
	SaveObject(ctx context.Context, obj *domain.KnowledgeObject) error

	// GetObject retrieves an object by ID.
	// Returns domain.ErrNotFound when no such object exists.
	GetObject(ctx context.Context, id string) (*domain.KnowledgeObject, error)

	// ListObjects returns the non-orphaned objects of a document.
	ListObjects(ctx context.Context, documentID string) ([]domain.KnowledgeObject, error)

	// ListObjectsEndingBy returns the non-orphaned objects of a document
	// whose chunk range end is <= ordinal, i.e. objects a reader at that
	// ordinal has fully read past.
	ListObjectsEndingBy(ctx context.Context, documentID string, ordinal int) ([]domain.KnowledgeObject, error)

	// CountObjects returns the number of non-orphaned objects of a document.
	CountObjects(ctx context.Context, documentID string) (int, error)

	// OrphanObjects marks every object of a document orphaned. Used when
	// a forced re-process invalidates the chunk set their ranges refer to.
	OrphanObjects(ctx context.Context, documentID string) error
}
