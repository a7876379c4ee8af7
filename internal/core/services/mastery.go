package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/ainki-cli/internal/core/domain"
	"github.com/custodia-labs/ainki-cli/internal/core/ports/driven"
	"github.com/custodia-labs/ainki-cli/internal/core/ports/driving"
)

// Ensure MasteryService implements the interface.
var _ driving.MasteryService = (*MasteryService)(nil)

// MasteryService rolls per-object mastery levels up into chunk- and
// page-level signals for one user and document.
type MasteryService struct {
	chunks driven.ChunkStore
	reps   driven.RepetitionStore
}

// NewMasteryService creates a mastery service.
func NewMasteryService(chunks driven.ChunkStore, reps driven.RepetitionStore) *MasteryService {
	return &MasteryService{chunks: chunks, reps: reps}
}

// ChunkMastery returns one value per active chunk ordinal: the mean
// mastery level of every assigned object covering that ordinal. Chunks
// covered by no object are filled by linear interpolation between the
// nearest defined neighbours; a document with no defined chunk at all
// degenerates to zeros. The result never contains NaN.
func (s *MasteryService) ChunkMastery(ctx context.Context, userID, documentID string) ([]float64, error) {
	maxOrdinal, err := s.chunks.MaxOrdinal(ctx, documentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return []float64{}, nil
		}
		return nil, fmt.Errorf("reading max ordinal: %w", err)
	}

	records, err := s.reps.ListAssigned(ctx, userID, documentID)
	if err != nil {
		return nil, fmt.Errorf("listing assigned states: %w", err)
	}

	sums := make([]float64, maxOrdinal+1)
	counts := make([]int, maxOrdinal+1)
	for _, rec := range records {
		start := rec.Object.ChunkStart
		if start < 0 {
			start = 0
		}
		end := rec.Object.ChunkEnd
		if end > maxOrdinal {
			end = maxOrdinal
		}
		for ordinal := start; ordinal <= end; ordinal++ {
			sums[ordinal] += float64(rec.State.Level)
			counts[ordinal]++
		}
	}

	values := make([]float64, maxOrdinal+1)
	for i := range values {
		if counts[i] > 0 {
			values[i] = sums[i] / float64(counts[i])
		}
	}

	interpolateGaps(values, counts)
	return values, nil
}

// PageMastery averages chunk mastery per page and normalises the vector
// by its maximum so values lie in [0, 1]. When the maximum is zero the
// vector is returned as all zeros rather than divided.
func (s *MasteryService) PageMastery(ctx context.Context, userID, documentID string) ([]float64, error) {
	values, err := s.ChunkMastery(ctx, userID, documentID)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return []float64{}, nil
	}

	chunks, err := s.chunks.GetChunks(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("reading chunks: %w", err)
	}

	maxPage := 0
	for _, chunk := range chunks {
		if chunk.PageIndex == nil {
			return nil, fmt.Errorf("%w: chunk ordinal %d of document %s", domain.ErrMissingPageMapping, chunk.Ordinal, documentID)
		}
		if *chunk.PageIndex > maxPage {
			maxPage = *chunk.PageIndex
		}
	}

	pageSums := make([]float64, maxPage+1)
	pageCounts := make([]int, maxPage+1)
	for _, chunk := range chunks {
		if chunk.Ordinal < 0 || chunk.Ordinal >= len(values) {
			continue
		}
		pageSums[*chunk.PageIndex] += values[chunk.Ordinal]
		pageCounts[*chunk.PageIndex]++
	}

	pages := make([]float64, maxPage+1)
	maxValue := 0.0
	for i := range pages {
		if pageCounts[i] > 0 {
			pages[i] = pageSums[i] / float64(pageCounts[i])
		}
		if pages[i] > maxValue {
			maxValue = pages[i]
		}
	}

	if maxValue > 0 {
		for i := range pages {
			pages[i] /= maxValue
		}
	}
	return pages, nil
}

// interpolateGaps fills undefined positions (counts[i] == 0) in place.
// Interior gaps are linearly interpolated between the nearest defined
// neighbours; boundary gaps hold the nearest defined value. With no
// defined position at all the values stay zero.
func interpolateGaps(values []float64, counts []int) {
	firstDefined, lastDefined := -1, -1
	for i, c := range counts {
		if c > 0 {
			if firstDefined == -1 {
				firstDefined = i
			}
			lastDefined = i
		}
	}
	if firstDefined == -1 {
		return
	}

	for i := 0; i < firstDefined; i++ {
		values[i] = values[firstDefined]
	}
	for i := lastDefined + 1; i < len(values); i++ {
		values[i] = values[lastDefined]
	}

	prev := firstDefined
	for i := firstDefined + 1; i <= lastDefined; i++ {
		if counts[i] == 0 {
			continue
		}
		if i > prev+1 {
			step := (values[i] - values[prev]) / float64(i-prev)
			for j := prev + 1; j < i; j++ {
				values[j] = values[prev] + step*float64(j-prev)
			}
		}
		prev = i
	}
}
