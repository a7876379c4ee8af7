package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAlignmentMismatch indicates a chunk's text could not be located
	// in the reconstructed page text. The alignment call aborts without
	// producing any partial page mapping.
	ErrAlignmentMismatch = errors.New("alignment mismatch")

	// ErrMissingPageMapping indicates an active chunk has no recorded
	// page index. Mastery aggregation requires every active chunk to
	// have been aligned; defaulting to page 0 would silently skew the
	// per-page rollup, so this is surfaced instead.
	ErrMissingPageMapping = errors.New("missing page mapping")

	// ErrUnknownObject indicates a repetition update or question targets
	// a knowledge object that does not exist.
	ErrUnknownObject = errors.New("unknown knowledge object")

	// ErrObjectsExist indicates a document cannot be re-processed because
	// knowledge objects still reference its current chunk set.
	ErrObjectsExist = errors.New("knowledge objects reference the current chunk set")

	// ErrExtractorUnavailable indicates the extraction backend is not
	// configured. Uploads still chunk and align; object extraction is skipped.
	ErrExtractorUnavailable = errors.New("extraction backend unavailable")

	// ErrUnsupportedLayout indicates an unknown layout reader tag.
	ErrUnsupportedLayout = errors.New("unsupported layout format")
)
