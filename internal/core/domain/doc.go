// Package domain defines the core business entities for Ainki.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An uploaded study document
//   - Chunk: An ordered slice of a document's extracted text
//   - KnowledgeObject: An extracted fact/definition/theorem with a chunk range
//   - RepetitionState: Per-user, per-object mastery level and review schedule
//   - ReviewQuestion: A generated question bound to a knowledge object
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
