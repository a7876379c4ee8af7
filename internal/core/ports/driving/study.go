package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/ainki-cli/internal/core/domain"
)

// PendingItem is one due review item with its surrounding context,
// ready for display.
type PendingItem struct {
	// ObjectID identifies the knowledge object under review.
	ObjectID string

	// Name is the object's human-readable name.
	Name string

	// Type is the object's kind.
	Type domain.ObjectType

	// DocumentID identifies the source document.
	DocumentID string

	// ChunkStart and ChunkEnd delimit the object's chunk range.
	ChunkStart int
	ChunkEnd   int

	// Content is the concatenated text of the object's own chunk range.
	Content string

	// Context is the excerpt spanning the range plus the configured
	// context window, truncated to head/tail when it exceeds the
	// configured threshold.
	Context string

	// Level is the current mastery level.
	Level int

	// NextReview is when the state became (or becomes) due.
	NextReview time.Time
}

// ReviewService drives review sessions: surfacing due items, applying
// quiz answers, and producing questions.
type ReviewService interface {
	// Pending returns the due review items for a user, next-review
	// ascending. A nil userID returns due items across all users.
	Pending(ctx context.Context, userID *string) ([]PendingItem, error)

	// Answer applies a quiz answer to the (objectID, userID) state and
	// returns the state after the transition.
	Answer(ctx context.Context, objectID, userID string, correct bool) (*domain.RepetitionState, error)

	// NextQuestion picks a question style for the object via the
	// configured sampler and generates a question of that style.
	// The second return is false when the sampler elected to skip.
	NextQuestion(ctx context.Context, objectID string) (*domain.ReviewQuestion, bool, error)
}

// ProgressService instantiates repetition state as a user reads.
type ProgressService interface {
	// Assign upserts a level-0 repetition state for every knowledge
	// object of the document whose chunk range ends at or before the
	// given ordinal. Idempotent; safe to call for every page turn.
	// Returns the number of newly created states.
	Assign(ctx context.Context, userID, documentID string, ordinal int) (int, error)
}

// MasteryService aggregates per-object mastery into chunk- and
// page-level signals for a user and document.
type MasteryService interface {
	// ChunkMastery returns one value per active chunk ordinal: the mean
	// mastery level of the objects covering that ordinal, with gaps
	// filled by linear interpolation between defined neighbours.
	ChunkMastery(ctx context.Context, userID, documentID string) ([]float64, error)

	// PageMastery averages chunk mastery per page and normalises the
	// vector by its maximum into [0, 1]. An all-zero vector is returned
	// unnormalised.
	PageMastery(ctx context.Context, userID, documentID string) ([]float64, error)
}

// IngestResult summarises an upload.
type IngestResult struct {
	// DocumentID identifies the created or re-processed document.
	DocumentID string

	// Chunks is the number of active chunks inserted.
	Chunks int

	// Pages is the number of layout pages the chunks were aligned to.
	Pages int

	// Objects is the number of knowledge objects extracted.
	Objects int
}

// IngestService runs the upload pipeline: chunk, align, persist, extract.
type IngestService interface {
	// Ingest processes a document's text against its layout output.
	// Re-processing an existing document is refused while knowledge
	// objects reference its chunk set unless force is set, in which case
	// prior chunks are deactivated and the objects marked orphaned.
	Ingest(ctx context.Context, name string, folder string, text string, layout []byte, readerTag string, force bool) (*IngestResult, error)
}
