package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/custodia-labs/ainki-cli/internal/core/domain"
	"github.com/custodia-labs/ainki-cli/internal/core/ports/driven"
)

// ==================== Chunk Store ====================

// chunkStore implements driven.ChunkStore.
type chunkStore struct {
	store *Store
}

var _ driven.ChunkStore = (*chunkStore)(nil)

// InsertChunks stores a new active chunk set for a document.
func (s *chunkStore) InsertChunks(ctx context.Context, chunks []domain.Chunk) (int, error) {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, document_id, ordinal, page_idx, content, reader_tag, active)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		var pageIdx sql.NullInt64
		if chunk.PageIndex != nil {
			pageIdx = sql.NullInt64{Int64: int64(*chunk.PageIndex), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, chunk.ID, chunk.DocumentID, chunk.Ordinal,
			pageIdx, chunk.Content, chunk.ReaderTag, chunk.Active); err != nil {
			return 0, fmt.Errorf("inserting chunk %d: %w", chunk.Ordinal, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}
	return len(chunks), nil
}

// GetChunks retrieves the active chunks of a document, ordered by ordinal.
func (s *chunkStore) GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, document_id, ordinal, page_idx, content, reader_tag, active
		FROM chunks WHERE document_id = ? AND active = 1
		ORDER BY ordinal
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	return scanChunks(rows)
}

// GetRange retrieves active chunks with start <= ordinal <= end.
func (s *chunkStore) GetRange(ctx context.Context, documentID string, start, end int) ([]domain.Chunk, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, document_id, ordinal, page_idx, content, reader_tag, active
		FROM chunks WHERE document_id = ? AND active = 1 AND ordinal BETWEEN ? AND ?
		ORDER BY ordinal
	`, documentID, start, end)
	if err != nil {
		return nil, fmt.Errorf("querying chunk range: %w", err)
	}
	defer rows.Close()

	return scanChunks(rows)
}

// DeactivateChunks marks every active chunk of the document inactive.
func (s *chunkStore) DeactivateChunks(ctx context.Context, documentID string) error {
	_, err := s.store.db.ExecContext(ctx,
		"UPDATE chunks SET active = 0 WHERE document_id = ? AND active = 1", documentID)
	if err != nil {
		return fmt.Errorf("deactivating chunks: %w", err)
	}
	return nil
}

// MaxOrdinal returns the highest active ordinal for the document.
func (s *chunkStore) MaxOrdinal(ctx context.Context, documentID string) (int, error) {
	var ordinal sql.NullInt64
	err := s.store.db.QueryRowContext(ctx,
		"SELECT MAX(ordinal) FROM chunks WHERE document_id = ? AND active = 1",
		documentID).Scan(&ordinal)
	if err != nil {
		return 0, fmt.Errorf("querying max ordinal: %w", err)
	}
	if !ordinal.Valid {
		return 0, domain.ErrNotFound
	}
	return int(ordinal.Int64), nil
}

// PageOfChunk returns the recorded page index of an active chunk.
func (s *chunkStore) PageOfChunk(ctx context.Context, documentID string, ordinal int) (int, error) {
	var pageIdx sql.NullInt64
	err := s.store.db.QueryRowContext(ctx,
		"SELECT page_idx FROM chunks WHERE document_id = ? AND ordinal = ? AND active = 1",
		documentID, ordinal).Scan(&pageIdx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("querying chunk page: %w", err)
	}
	if !pageIdx.Valid {
		return 0, fmt.Errorf("%w: chunk ordinal %d of document %s", domain.ErrMissingPageMapping, ordinal, documentID)
	}
	return int(pageIdx.Int64), nil
}

// scanChunks scans multiple chunk rows.
func scanChunks(rows *sql.Rows) ([]domain.Chunk, error) {
	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		var chunk domain.Chunk
		var pageIdx sql.NullInt64
		if err := rows.Scan(&chunk.ID, &chunk.DocumentID, &chunk.Ordinal,
			&pageIdx, &chunk.Content, &chunk.ReaderTag, &chunk.Active); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		if pageIdx.Valid {
			page := int(pageIdx.Int64)
			chunk.PageIndex = &page
		}
		chunks = append(chunks, chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return chunks, nil
}
