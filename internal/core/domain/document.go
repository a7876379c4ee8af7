package domain

import "time"

// Document represents an uploaded study document.
// It is created once on upload and is immutable thereafter, except for
// re-processing which replaces its active chunk set.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Name is the human-readable display name, unique per library.
	Name string

	// Folder is the storage folder holding the original file and any
	// extraction backend output.
	Folder string

	// CreatedAt is when the document was first uploaded.
	CreatedAt time.Time

	// UpdatedAt is when the document was last (re-)processed.
	UpdatedAt time.Time
}

// Chunk is an ordered slice of a document's extracted text. It is the
// atomic unit of scheduling and alignment.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the owning Document.
	DocumentID string

	// Ordinal is the 0-based position within the document.
	// Ordinals are unique and dense among active chunks of a document.
	Ordinal int

	// PageIndex is the 0-based page of the original layout this chunk
	// predominantly belongs to. Nil until the aligner has run.
	PageIndex *int

	// Content is the chunk text.
	Content string

	// ReaderTag names the extraction backend that produced the layout
	// this chunk was aligned against.
	ReaderTag string

	// Active reports whether the chunk belongs to the document's current
	// chunk set. Re-processing deactivates chunks rather than deleting
	// them, preserving historical references from knowledge objects.
	Active bool
}
