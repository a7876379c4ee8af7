package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/ainki-cli/internal/core/domain"
)

// AlignChunks maps an ordered chunk sequence onto the page boundaries of
// a layout, returning one 0-based page index per chunk.
//
// The concatenation of pages is treated as ground truth with a running
// remaining-character budget per page. Chunks consume the current page's
// budget in order; a chunk that would exceed it advances to the page
// whose budget covers the chunk's end, carrying the deficit over. A
// chunk spanning a page boundary is therefore attributed entirely to the
// page holding more of its trailing content, never split.
//
// The two pipelines normalise text differently, so budgets are counted
// in runes and the walk clamps at the final page instead of demanding an
// exact character match.
func AlignChunks(chunks, pages []string) ([]int, error) {
	if len(chunks) == 0 {
		return []int{}, nil
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("%w: no pages to align %d chunks against", domain.ErrInvalidInput, len(chunks))
	}

	indices := make([]int, len(chunks))
	page := 0
	remaining := utf8.RuneCountInString(pages[0])

	for i, chunk := range chunks {
		need := utf8.RuneCountInString(chunk)
		for need > remaining && page < len(pages)-1 {
			need -= remaining
			page++
			remaining = utf8.RuneCountInString(pages[page])
		}
		indices[i] = page
		remaining -= need
		if remaining < 0 {
			remaining = 0
		}
	}

	return indices, nil
}

// VerifyChunks checks that every chunk's text occurs in the
// concatenation of the page segments. A chunk that cannot be located is
// a hard error: the caller gets domain.ErrAlignmentMismatch and no page
// mapping at all, never a silently wrong one.
func VerifyChunks(chunks, pages []string) error {
	full := strings.Join(pages, "")
	for i, chunk := range chunks {
		if !strings.Contains(full, chunk) {
			return fmt.Errorf("%w: chunk %d not found in reconstructed text", domain.ErrAlignmentMismatch, i)
		}
	}
	return nil
}
