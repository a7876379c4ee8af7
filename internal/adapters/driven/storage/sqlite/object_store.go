package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/custodia-labs/ainki-cli/internal/core/domain"
	"github.com/custodia-labs/ainki-cli/internal/core/ports/driven"
)

// ==================== Object Store ====================

// objectStore implements driven.ObjectStore.
type objectStore struct {
	store *Store
}

var _ driven.ObjectStore = (*objectStore)(nil)

// SaveObject stores a knowledge object.
func (s *objectStore) SaveObject(ctx context.Context, obj *domain.KnowledgeObject) error {
	if obj == nil || obj.ID == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO knowledge_objects (id, document_id, name, type, chunk_start, chunk_end, orphaned, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			type = excluded.type,
			chunk_start = excluded.chunk_start,
			chunk_end = excluded.chunk_end,
			orphaned = excluded.orphaned
	`, obj.ID, obj.DocumentID, obj.Name, obj.Type.String(),
		obj.ChunkStart, obj.ChunkEnd, obj.Orphaned, obj.CreatedAt)

	if err != nil {
		return fmt.Errorf("saving object: %w", err)
	}
	return nil
}

// GetObject retrieves an object by ID.
func (s *objectStore) GetObject(ctx context.Context, id string) (*domain.KnowledgeObject, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, document_id, name, type, chunk_start, chunk_end, orphaned, created_at
		FROM knowledge_objects WHERE id = ?
	`, id)

	var obj domain.KnowledgeObject
	var typeTag string
	var createdAt sql.NullTime
	if err := row.Scan(&obj.ID, &obj.DocumentID, &obj.Name, &typeTag,
		&obj.ChunkStart, &obj.ChunkEnd, &obj.Orphaned, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning object: %w", err)
	}

	obj.Type = domain.ParseObjectType(typeTag)
	if createdAt.Valid {
		obj.CreatedAt = createdAt.Time
	}

	return &obj, nil
}

// ListObjects returns the non-orphaned objects of a document.
func (s *objectStore) ListObjects(ctx context.Context, documentID string) ([]domain.KnowledgeObject, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, document_id, name, type, chunk_start, chunk_end, orphaned, created_at
		FROM knowledge_objects WHERE document_id = ? AND orphaned = 0
		ORDER BY chunk_start, chunk_end
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying objects: %w", err)
	}
	defer rows.Close()

	return scanObjects(rows)
}

// ListObjectsEndingBy returns the non-orphaned objects whose chunk range
// ends at or before the given ordinal.
func (s *objectStore) ListObjectsEndingBy(ctx context.Context, documentID string, ordinal int) ([]domain.KnowledgeObject, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, document_id, name, type, chunk_start, chunk_end, orphaned, created_at
		FROM knowledge_objects WHERE document_id = ? AND orphaned = 0 AND chunk_end <= ?
		ORDER BY chunk_start, chunk_end
	`, documentID, ordinal)
	if err != nil {
		return nil, fmt.Errorf("querying objects by chunk end: %w", err)
	}
	defer rows.Close()

	return scanObjects(rows)
}

// CountObjects returns the number of non-orphaned objects of a document.
func (s *objectStore) CountObjects(ctx context.Context, documentID string) (int, error) {
	var count int
	err := s.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM knowledge_objects WHERE document_id = ? AND orphaned = 0",
		documentID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting objects: %w", err)
	}
	return count, nil
}

// OrphanObjects marks every object of a document orphaned.
func (s *objectStore) OrphanObjects(ctx context.Context, documentID string) error {
	_, err := s.store.db.ExecContext(ctx,
		"UPDATE knowledge_objects SET orphaned = 1 WHERE document_id = ?", documentID)
	if err != nil {
		return fmt.Errorf("orphaning objects: %w", err)
	}
	return nil
}

// scanObjects scans multiple knowledge object rows.
func scanObjects(rows *sql.Rows) ([]domain.KnowledgeObject, error) {
	var objects []domain.KnowledgeObject //nolint:prealloc // size unknown from query
	for rows.Next() {
		var obj domain.KnowledgeObject
		var typeTag string
		var createdAt sql.NullTime
		if err := rows.Scan(&obj.ID, &obj.DocumentID, &obj.Name, &typeTag,
			&obj.ChunkStart, &obj.ChunkEnd, &obj.Orphaned, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning object: %w", err)
		}
		obj.Type = domain.ParseObjectType(typeTag)
		if createdAt.Valid {
			obj.CreatedAt = createdAt.Time
		}
		objects = append(objects, obj)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating objects: %w", err)
	}

	return objects, nil
}
