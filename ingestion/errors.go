package ingestion

import "errors"

var (
	// ErrCandidateRepositoryRequired is returned when a candidate repository is not provided.
	ErrCandidateRepositoryRequired = errors.New("candidate repository required")

	// ErrEmbeddingRepositoryRequired is returned when embeddings are enabled
	// without an embedding repository.
	ErrEmbeddingRepositoryRequired = errors.New("embedding repository required")

	// ErrEmbedderRequired is returned when embeddings are enabled without an embedder.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrDuplicateUsername marks a record repeating an earlier username in the same batch.
	ErrDuplicateUsername = errors.New("duplicate username in batch")
)
