// Package domain defines the core business entities for artisan.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Endpoint: The resolved base address of the remote service
//   - RefinementSession: An in-flight prompt refinement conversation
//   - IngestionRequest / IngestionOutcome: A document ingestion batch and its per-file results
//   - DocumentRecord / ChunkRecord: Read-only projections of remote documents
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
