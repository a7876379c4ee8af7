package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/custodia-labs/ainki-cli/internal/core/domain"
	"github.com/custodia-labs/ainki-cli/internal/core/ports/driven"
	"github.com/custodia-labs/ainki-cli/internal/core/ports/driving"
	"github.com/custodia-labs/ainki-cli/internal/logger"
)

// Ensure ReviewService implements the interface.
var _ driving.ReviewService = (*ReviewService)(nil)

// ReviewService applies quiz answers and surfaces due review items.
type ReviewService struct {
	objects   driven.ObjectStore
	chunks    driven.ChunkStore
	reps      driven.RepetitionStore
	questions driven.QuestionStore
	extractor driven.Extractor
	cfg       domain.ReviewConfig

	now      func() time.Time
	randFunc func() float64
}

// NewReviewService creates a review service. The question store and
// extractor may be nil; NextQuestion then reports the extractor as
// unavailable.
func NewReviewService(
	objects driven.ObjectStore,
	chunks driven.ChunkStore,
	reps driven.RepetitionStore,
	questions driven.QuestionStore,
	extractor driven.Extractor,
	cfg domain.ReviewConfig,
) *ReviewService {
	return &ReviewService{
		objects:   objects,
		chunks:    chunks,
		reps:      reps,
		questions: questions,
		extractor: extractor,
		cfg:       cfg,
		now:       time.Now,
		randFunc:  rand.Float64,
	}
}

// Answer applies a quiz answer to the (objectID, userID) state.
// The level transition happens inside the store against the currently
// stored level, so concurrent answers never lose an update.
func (s *ReviewService) Answer(ctx context.Context, objectID, userID string, correct bool) (*domain.RepetitionState, error) {
	if _, err := s.objects.GetObject(ctx, objectID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnknownObject, objectID)
		}
		return nil, err
	}

	state, err := s.reps.Answer(ctx, objectID, userID, correct, s.cfg, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("applying answer: %w", err)
	}

	logger.Debug("answer for object %s user %s: correct=%t level=%d next=%s",
		objectID, userID, correct, state.Level, state.NextReview.Format(time.RFC3339))
	return state, nil
}

// Pending returns the due review items for a user, next-review
// ascending. A nil userID disables the user filter.
func (s *ReviewService) Pending(ctx context.Context, userID *string) ([]driving.PendingItem, error) {
	records, err := s.reps.ListPending(ctx, userID, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("listing pending states: %w", err)
	}

	items := make([]driving.PendingItem, 0, len(records))
	for _, rec := range records {
		obj := rec.Object

		content, err := s.excerpt(ctx, obj.DocumentID, obj.ChunkStart, obj.ChunkEnd)
		if err != nil {
			return nil, err
		}

		contextStart := obj.ChunkStart - s.cfg.ContextChunks
		if contextStart < 0 {
			contextStart = 0
		}
		excerpt, err := s.excerpt(ctx, obj.DocumentID, contextStart, obj.ChunkEnd+s.cfg.ContextChunks)
		if err != nil {
			return nil, err
		}

		items = append(items, driving.PendingItem{
			ObjectID:   obj.ID,
			Name:       obj.Name,
			Type:       obj.Type,
			DocumentID: obj.DocumentID,
			ChunkStart: obj.ChunkStart,
			ChunkEnd:   obj.ChunkEnd,
			Content:    content,
			Context:    truncateExcerpt(excerpt, s.cfg.TruncateAfter),
			Level:      rec.State.Level,
			NextReview: rec.State.NextReview,
		})
	}

	logger.Debug("pending review: %d items", len(items))
	return items, nil
}

// NextQuestion samples a question style for the object and generates a
// question of that style via the extraction backend.
func (s *ReviewService) NextQuestion(ctx context.Context, objectID string) (*domain.ReviewQuestion, bool, error) {
	obj, err := s.objects.GetObject(ctx, objectID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, false, fmt.Errorf("%w: %s", domain.ErrUnknownObject, objectID)
		}
		return nil, false, err
	}
	if s.extractor == nil || s.questions == nil {
		return nil, false, domain.ErrExtractorUnavailable
	}

	counts, err := s.questions.CountAskedByType(ctx, objectID)
	if err != nil {
		return nil, false, fmt.Errorf("counting asked questions: %w", err)
	}

	qt, ok := sampleQuestionType(s.cfg, counts, s.randFunc())
	if !ok {
		logger.Debug("question sampler skipped object %s", objectID)
		return nil, false, nil
	}

	reference, err := s.excerpt(ctx, obj.DocumentID, obj.ChunkStart, obj.ChunkEnd)
	if err != nil {
		return nil, false, err
	}

	question, err := s.extractor.GenerateQuestion(ctx, obj, reference, qt)
	if err != nil {
		return nil, false, fmt.Errorf("generating question: %w", err)
	}
	if err := s.questions.SaveQuestion(ctx, question); err != nil {
		return nil, false, fmt.Errorf("saving question: %w", err)
	}

	return question, true, nil
}

// excerpt concatenates the active chunk contents in [start, end].
func (s *ReviewService) excerpt(ctx context.Context, documentID string, start, end int) (string, error) {
	chunks, err := s.chunks.GetRange(ctx, documentID, start, end)
	if err != nil {
		return "", fmt.Errorf("reading chunks %d..%d of %s: %w", start, end, documentID, err)
	}

	var builder strings.Builder
	for _, chunk := range chunks {
		builder.WriteString(chunk.Content)
	}
	return builder.String(), nil
}

// truncateExcerpt bounds an excerpt to a head/tail pair when it exceeds
// twice the threshold. Counted in runes so multi-byte text never splits
// mid-character.
func truncateExcerpt(s string, threshold int) string {
	if threshold <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= 2*threshold {
		return s
	}
	return string(runes[:threshold]) + " ... " + string(runes[len(runes)-threshold:])
}
