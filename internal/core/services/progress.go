package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/ainki-cli/internal/core/domain"
	"github.com/custodia-labs/ainki-cli/internal/core/ports/driven"
	"github.com/custodia-labs/ainki-cli/internal/core/ports/driving"
	"github.com/custodia-labs/ainki-cli/internal/logger"
)

// Ensure ProgressService implements the interface.
var _ driving.ProgressService = (*ProgressService)(nil)

// ProgressService instantiates repetition state as a user reads through
// a document.
type ProgressService struct {
	objects driven.ObjectStore
	reps    driven.RepetitionStore
	cfg     domain.ReviewConfig

	now func() time.Time
}

// NewProgressService creates a progress service.
func NewProgressService(objects driven.ObjectStore, reps driven.RepetitionStore, cfg domain.ReviewConfig) *ProgressService {
	return &ProgressService{
		objects: objects,
		reps:    reps,
		cfg:     cfg,
		now:     time.Now,
	}
}

// Assign upserts a level-0 repetition state for every knowledge object
// of the document the user has fully read past, i.e. whose chunk range
// ends at or before the given ordinal. Existing states are merged, not
// reset, so re-reading never discards progress.
func (s *ProgressService) Assign(ctx context.Context, userID, documentID string, ordinal int) (int, error) {
	objects, err := s.objects.ListObjectsEndingBy(ctx, documentID, ordinal)
	if err != nil {
		return 0, fmt.Errorf("listing objects ending by ordinal %d: %w", ordinal, err)
	}

	now := s.now().UTC()
	created := 0
	for i := range objects {
		state := &domain.RepetitionState{
			ObjectID:   objects[i].ID,
			UserID:     userID,
			Level:      0,
			NextReview: now.Add(s.cfg.Interval(0)),
		}
		isNew, err := s.reps.Merge(ctx, state, now)
		if err != nil {
			return created, fmt.Errorf("merging state for object %s: %w", objects[i].ID, err)
		}
		if isNew {
			created++
		}
	}

	logger.Debug("assign user %s doc %s ordinal %d: %d objects eligible, %d states created",
		userID, documentID, ordinal, len(objects), created)
	return created, nil
}
