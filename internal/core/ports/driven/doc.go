// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - DocumentStore: Document metadata persistence
//   - ChunkStore: Ordered chunk persistence with page mapping
//   - ObjectStore: Knowledge object persistence
//   - RepetitionStore: Per-user repetition state persistence
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - Extractor: LLM-backed knowledge object and question extraction.
//     Without it, uploads still chunk and align, but no objects are created.
//   - QuestionStore: Review question persistence. Only needed when an
//     Extractor is configured.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, layout, or chunker package
package driven
