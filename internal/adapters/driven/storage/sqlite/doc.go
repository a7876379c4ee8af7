// Package sqlite provides a unified SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements multiple store interfaces
// through a single database connection:
//
//   - DocumentStore: Document metadata persistence
//   - UserStore: Learner identity persistence
//   - ChunkStore: Append-only chunk set persistence
//   - ObjectStore: Knowledge object persistence
//   - RepetitionStore: Per-(object, user) review state persistence
//   - QuestionStore: Generated question and counter persistence
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory.
//
// # Data Location
//
// By default, the database is stored at ~/.ainki/data/metadata.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode, and review-state transitions run inside immediate
// transactions so concurrent answers serialise on the stored level.
package sqlite
