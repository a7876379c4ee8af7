package driven

import (
	"context"

	"github.com/custodia-labs/ainki-cli/internal/core/domain"
)

// DocumentStore persists document metadata.
type DocumentStore interface {
	// SaveDocument stores or updates a document.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// GetDocumentByName retrieves a document by display name.
	GetDocumentByName(ctx context.Context, name string) (*domain.Document, error)

	// ListDocuments returns all documents ordered by creation time.
	ListDocuments(ctx context.Context) ([]domain.Document, error)
}

// UserStore persists minimal user identity records.
type UserStore interface {
	// SaveUser stores a new user. Returns domain.ErrAlreadyExists when
	// the username is taken.
	SaveUser(ctx context.Context, user *domain.User) error

	// GetUser retrieves a user by ID.
	GetUser(ctx context.Context, id string) (*domain.User, error)

	// GetUserByName retrieves a user by username or email.
	GetUserByName(ctx context.Context, name string) (*domain.User, error)

	// ListUsers returns all users.
	ListUsers(ctx context.Context) ([]domain.User, error)
}
