package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/ainki-cli/internal/core/domain"
)

// PendingRecord pairs a due repetition state with its knowledge object.
type PendingRecord struct {
	Object domain.KnowledgeObject
	State  domain.RepetitionState
}

// RepetitionStore persists per-(object, user) repetition states.
//
// Answer is the concurrency-critical operation: the transition must
// read-modify-write the currently stored level inside one storage-side
// atomic unit. Two concurrent answers for the same pair must both be
// applied; last-writer-wins over a caller-cached level is unacceptable.
type RepetitionStore interface {
	// Merge upserts the state for (objectID, userID) keyed on pair
	// identity. On first creation the state is stored as given with the
	// zero-time last-reviewed sentinel; when the pair already exists only
	// last-reviewed is advanced to now - level and next-review are left
	// untouched so progress is never reset. Reports whether a new state
	// was created.
	Merge(ctx context.Context, state *domain.RepetitionState, now time.Time) (bool, error)

	// Answer applies a quiz answer atomically: the new level is computed
	// from the stored level (up on correct, down on incorrect, clamped to
	// cfg), last-reviewed becomes now and next-review becomes
	// now + cfg.Interval(new level). Returns the stored state after the
	// transition, or domain.ErrNotFound when the pair has no state.
	Answer(ctx context.Context, objectID, userID string, correct bool, cfg domain.ReviewConfig, now time.Time) (*domain.RepetitionState, error)

	// GetState retrieves the state for a pair.
	// Returns domain.ErrNotFound when the pair has no state.
	GetState(ctx context.Context, objectID, userID string) (*domain.RepetitionState, error)

	// ListPending returns records whose next-review is strictly before
	// now, joined with their objects, ordered by next-review ascending.
	// Orphaned objects are excluded. A nil userID disables the user
	// filter (diagnostics mode).
	ListPending(ctx context.Context, userID *string, now time.Time) ([]PendingRecord, error)

	// ListAssigned returns every record of a user for a document's
	// non-orphaned objects, due or not.
	ListAssigned(ctx context.Context, userID, documentID string) ([]PendingRecord, error)
}

// QuestionStore persists review questions and their usage counters.
type QuestionStore interface {
	// SaveQuestion stores a generated question.
	SaveQuestion(ctx context.Context, q *domain.ReviewQuestion) error

	// ListQuestions returns the questions of an object.
	ListQuestions(ctx context.Context, objectID string) ([]domain.ReviewQuestion, error)

	// CountAskedByType returns, per question type, how many times
	// questions of that type were asked for the object.
	CountAskedByType(ctx context.Context, objectID string) (map[domain.QuestionType]int, error)

	// RecordAsked increments the asked counter, and the correct counter
	// when correct is true.
	RecordAsked(ctx context.Context, questionID string, correct bool) error
}
