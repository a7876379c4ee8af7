package driven

import (
	"context"

	"github.com/custodia-labs/ainki-cli/internal/core/domain"
)

// ChunkStore persists the ordered chunk sets of documents.
// Chunks are never deleted: re-processing deactivates a document's
// current set before inserting a new one, so historical chunk ordinals
// referenced by knowledge objects stay resolvable.
type ChunkStore interface {
	// InsertChunks stores a new active chunk set for a document and
	// returns the number of chunks inserted. Ordinals must already be
	// dense and 0-based; callers deactivate any prior set first.
	InsertChunks(ctx context.Context, chunks []domain.Chunk) (int, error)

	// GetChunks retrieves the active chunks of a document, ordered by ordinal.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// GetRange retrieves active chunks with start <= ordinal <= end,
	// ordered by ordinal. Out-of-range bounds return the available subset.
	GetRange(ctx context.Context, documentID string, start, end int) ([]domain.Chunk, error)

	// DeactivateChunks marks every active chunk of the document inactive.
	DeactivateChunks(ctx context.Context, documentID string) error

	// MaxOrdinal returns the highest active ordinal for the document.
	// Returns domain.ErrNotFound when the document has no active chunks.
	MaxOrdinal(ctx context.Context, documentID string) (int, error)

	// PageOfChunk returns the recorded page index of an active chunk.
	// Returns domain.ErrMissingPageMapping when the chunk exists but was
	// never aligned, and domain.ErrNotFound when there is no such chunk.
	PageOfChunk(ctx context.Context, documentID string, ordinal int) (int, error)
}
