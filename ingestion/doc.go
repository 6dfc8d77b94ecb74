// Package ingestion loads creator profiles into a candidate store.
//
// The Pipeline type manages the ingestion workflow:
//   - Validating records and reporting the ones it rejects
//   - Adding valid records to storage
//   - Generating embeddings asynchronously
//
// Embedding work runs on a worker pool. Errors during async processing are
// logged and counted but do not fail the ingestion operation; Wait blocks
// until submitted work has drained. ReadCandidates decodes JSON Lines
// catalogs.
package ingestion
