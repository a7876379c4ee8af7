package domain

import (
	"fmt"
	"time"
)

// RepetitionState is the Leitner-style review state for exactly one
// (knowledge object, user) pair. There is at most one state per pair;
// creating a second is a merge on the pair identity.
type RepetitionState struct {
	// ObjectID links to the knowledge object under review.
	ObjectID string

	// UserID identifies the learner.
	UserID string

	// Level is the discrete mastery level, 0..MaxLevel of the config
	// the state was created under. Clamped, never wraps.
	Level int

	// LastReviewed is when the user last answered a question on this
	// object. The zero time is the first-creation sentinel: the state
	// has never been reviewed.
	LastReviewed time.Time

	// NextReview is when the state becomes eligible for review again.
	// A state is pending when NextReview is strictly before now.
	NextReview time.Time
}

// Reviewed reports whether the state has ever been answered.
func (s *RepetitionState) Reviewed() bool {
	return !s.LastReviewed.IsZero()
}

// Pending reports whether the state is due at the given instant.
// The comparison is strict: NextReview == now is not yet pending.
func (s *RepetitionState) Pending(now time.Time) bool {
	return s.NextReview.Before(now)
}

// DefaultBaseInterval is one Leitner base unit.
const DefaultBaseInterval = 10 * time.Minute

// DefaultLevelRatios are the per-level interval multipliers. The jumps
// at the top levels model "effectively mastered, stop bothering the user".
var DefaultLevelRatios = []int{1, 2, 3, 1000, 10000}

// ReviewConfig is the immutable configuration for the repetition engine.
// It is captured once at service construction; services never mutate it.
type ReviewConfig struct {
	// BaseInterval is the Leitner base unit.
	BaseInterval time.Duration

	// LevelRatios maps mastery level to interval multiplier. The number
	// of levels is len(LevelRatios); ratios must be non-decreasing.
	LevelRatios []int

	// ContextChunks is the symmetric window of chunks added around an
	// object's range when building a review excerpt.
	ContextChunks int

	// TruncateAfter bounds review excerpts: an excerpt longer than
	// 2*TruncateAfter runes is reduced to head + " ... " + tail.
	TruncateAfter int

	// SamplerExponent shapes the question-type sampler: a type asked n
	// times is weighted 1/(1+n)^SamplerExponent.
	SamplerExponent float64

	// SamplerSkipWeight is the residual weight of asking no question at
	// all, competing with every question type.
	SamplerSkipWeight float64
}

// DefaultReviewConfig returns the stock Leitner configuration.
func DefaultReviewConfig() ReviewConfig {
	return ReviewConfig{
		BaseInterval:      DefaultBaseInterval,
		LevelRatios:       DefaultLevelRatios,
		ContextChunks:     2,
		TruncateAfter:     100,
		SamplerExponent:   2,
		SamplerSkipWeight: 1,
	}
}

// Validate checks the configuration invariants.
func (c ReviewConfig) Validate() error {
	if c.BaseInterval <= 0 {
		return fmt.Errorf("%w: base interval must be positive", ErrInvalidInput)
	}
	if len(c.LevelRatios) == 0 {
		return fmt.Errorf("%w: at least one mastery level required", ErrInvalidInput)
	}
	for i, r := range c.LevelRatios {
		if r <= 0 {
			return fmt.Errorf("%w: level ratio %d must be positive", ErrInvalidInput, i)
		}
		if i > 0 && r < c.LevelRatios[i-1] {
			return fmt.Errorf("%w: level ratios must be non-decreasing", ErrInvalidInput)
		}
	}
	if c.ContextChunks < 0 || c.TruncateAfter < 0 {
		return fmt.Errorf("%w: context window and truncation threshold must be non-negative", ErrInvalidInput)
	}
	return nil
}

// MaxLevel is the highest mastery level.
func (c ReviewConfig) MaxLevel() int {
	return len(c.LevelRatios) - 1
}

// ClampLevel bounds a level into 0..MaxLevel.
func (c ReviewConfig) ClampLevel(level int) int {
	if level < 0 {
		return 0
	}
	if level > c.MaxLevel() {
		return c.MaxLevel()
	}
	return level
}

// Interval returns the review interval for a mastery level.
// Out-of-range levels are clamped first.
func (c ReviewConfig) Interval(level int) time.Duration {
	return time.Duration(c.LevelRatios[c.ClampLevel(level)]) * c.BaseInterval
}

// NextLevel computes the level transition for an answer:
// correct moves one box up, incorrect one box down, clamped at both ends.
func (c ReviewConfig) NextLevel(level int, correct bool) int {
	if correct {
		return c.ClampLevel(level + 1)
	}
	return c.ClampLevel(level - 1)
}
