package storage

import (
	"context"

	"github.com/poiesic/creatorsearch/core"
)

// CandidateStore is the read capability the search core depends on.
// Implementations must be thread-safe and support concurrent access.
type CandidateStore interface {
	// Count returns the number of candidates matching pred.
	// A nil predicate matches every candidate.
	Count(ctx context.Context, pred Predicate) (int, error)

	// Query returns candidates matching pred, sorted by order, skipping
	// offset and returning at most limit results. A limit <= 0 means no limit.
	Query(ctx context.Context, pred Predicate, order Order, offset, limit int) ([]*core.Candidate, error)
}

// CandidateRepository provides operations for managing candidate records.
type CandidateRepository interface {
	CandidateStore

	// AddCandidates inserts or replaces candidates.
	// Candidates with ID=0 receive core.CandidateID(username).
	// Usernames are unique case-insensitively; a clash with a different ID
	// returns ErrDuplicateKey.
	// Sets InsertedAt on first insert and UpdatedAt on every write.
	AddCandidates(ctx context.Context, candidates ...*core.Candidate) ([]*core.Candidate, error)

	// GetCandidate retrieves a single candidate by ID.
	// Returns ErrNotFound if the candidate doesn't exist.
	GetCandidate(ctx context.Context, id core.ID) (*core.Candidate, error)

	// GetCandidates retrieves multiple candidates by their IDs.
	// Returns only the candidates that exist, in request order.
	GetCandidates(ctx context.Context, ids ...core.ID) ([]*core.Candidate, error)

	// DeleteCandidates removes candidates by their IDs.
	// Returns ErrNotFound if any candidate doesn't exist.
	DeleteCandidates(ctx context.Context, ids ...core.ID) error

	// Close releases resources held by the repository.
	Close() error
}

// EmbeddingRepository stores candidate vectors for similarity search.
type EmbeddingRepository interface {
	// SetEmbeddings inserts or replaces embeddings, keyed by candidate ID.
	SetEmbeddings(ctx context.Context, embeddings ...*core.Embedding) error

	// GetEmbedding retrieves the embedding of a candidate.
	// Returns ErrNotFound if the candidate has none.
	GetEmbedding(ctx context.Context, id core.ID) (*core.Embedding, error)

	// FindSimilar returns candidates whose vectors have similarity >= minSimilarity
	// with vector, highest first, up to limit results.
	FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]core.SimilarityMatch, error)

	// Close releases resources held by the repository.
	Close() error
}
