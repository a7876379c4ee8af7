package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/ainki-cli/internal/core/domain"
	"github.com/custodia-labs/ainki-cli/internal/core/ports/driven"
)

// ==================== Document Store ====================

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

// SaveDocument stores or updates a document.
func (s *documentStore) SaveDocument(ctx context.Context, doc *domain.Document) error {
	if doc == nil || doc.ID == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO documents (id, name, folder, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			folder = excluded.folder,
			updated_at = excluded.updated_at
	`, doc.ID, doc.Name, doc.Folder, doc.CreatedAt, doc.UpdatedAt)

	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by ID.
func (s *documentStore) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, name, folder, created_at, updated_at
		FROM documents WHERE id = ?
	`, id)

	return scanDocument(row)
}

// GetDocumentByName retrieves a document by display name.
func (s *documentStore) GetDocumentByName(ctx context.Context, name string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, name, folder, created_at, updated_at
		FROM documents WHERE name = ?
	`, name)

	return scanDocument(row)
}

// ListDocuments returns all documents ordered by creation time.
func (s *documentStore) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, name, folder, created_at, updated_at
		FROM documents ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		var doc domain.Document
		var createdAt, updatedAt sql.NullTime
		if err := rows.Scan(&doc.ID, &doc.Name, &doc.Folder, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		if createdAt.Valid {
			doc.CreatedAt = createdAt.Time
		}
		if updatedAt.Valid {
			doc.UpdatedAt = updatedAt.Time
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	return docs, nil
}

// scanDocument scans a single document row.
func scanDocument(row *sql.Row) (*domain.Document, error) {
	var doc domain.Document
	var createdAt, updatedAt sql.NullTime

	if err := row.Scan(&doc.ID, &doc.Name, &doc.Folder, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	if createdAt.Valid {
		doc.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		doc.UpdatedAt = updatedAt.Time
	}

	return &doc, nil
}

// ==================== User Store ====================

// userStore implements driven.UserStore.
type userStore struct {
	store *Store
}

var _ driven.UserStore = (*userStore)(nil)

// SaveUser stores a new user.
func (s *userStore) SaveUser(ctx context.Context, user *domain.User) error {
	if user == nil || user.ID == "" || user.Username == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO users (id, username, email, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, user.ID, user.Username, user.Email, user.PasswordHash, user.CreatedAt)

	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("%w: username %q", domain.ErrAlreadyExists, user.Username)
		}
		return fmt.Errorf("saving user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by ID.
func (s *userStore) GetUser(ctx context.Context, id string) (*domain.User, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, created_at
		FROM users WHERE id = ?
	`, id)

	return scanUser(row)
}

// GetUserByName retrieves a user by username or email.
func (s *userStore) GetUserByName(ctx context.Context, name string) (*domain.User, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, created_at
		FROM users WHERE username = ? OR email = ?
	`, name, name)

	return scanUser(row)
}

// ListUsers returns all users.
func (s *userStore) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, username, email, password_hash, created_at
		FROM users ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("querying users: %w", err)
	}
	defer rows.Close()

	var users []domain.User //nolint:prealloc // size unknown from query
	for rows.Next() {
		var user domain.User
		var createdAt sql.NullTime
		if err := rows.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		if createdAt.Valid {
			user.CreatedAt = createdAt.Time
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating users: %w", err)
	}

	return users, nil
}

// scanUser scans a single user row.
func scanUser(row *sql.Row) (*domain.User, error) {
	var user domain.User
	var createdAt sql.NullTime

	if err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}

	if createdAt.Valid {
		user.CreatedAt = createdAt.Time
	}

	return &user, nil
}
