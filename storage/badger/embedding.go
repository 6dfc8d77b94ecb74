package badger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/creatorsearch/core"
	"github.com/poiesic/creatorsearch/storage"
)

// EmbeddingRepository implements storage.EmbeddingRepository for BadgerDB.
type EmbeddingRepository struct {
	backend *Backend
}

var _ storage.EmbeddingRepository = (*EmbeddingRepository)(nil)

// NewEmbeddingRepository creates a new EmbeddingRepository.
func NewEmbeddingRepository(backend *Backend) (*EmbeddingRepository, error) {
	if backend == nil {
		return nil, errors.New("backend required")
	}
	return &EmbeddingRepository{
		backend: backend,
	}, nil
}

// Close releases resources. EmbeddingRepository has no resources to release.
func (r *EmbeddingRepository) Close() error {
	return nil
}

// SetEmbeddings stores embeddings for existing candidates.
// Returns ErrNotFound if a referenced candidate doesn't exist.
func (r *EmbeddingRepository) SetEmbeddings(ctx context.Context, embeddings ...*core.Embedding) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		now := time.Now().UTC()
		for _, embedding := range embeddings {
			if _, err := tx.Get(makeCandidateKey(embedding.CandidateId)); err != nil {
				if err == badger.ErrKeyNotFound {
					return fmt.Errorf("%w: candidate %d", storage.ErrNotFound, embedding.CandidateId)
				}
				return err
			}
			embedding.UpdatedAt = now
			if err := tx.Set(makeEmbeddingKey(embedding.CandidateId), storage.MarshalEmbedding(embedding)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetEmbedding retrieves the embedding of a candidate.
func (r *EmbeddingRepository) GetEmbedding(ctx context.Context, id core.ID) (*core.Embedding, error) {
	var result *core.Embedding
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeEmbeddingKey(id))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var unmarshalErr error
			result, unmarshalErr = storage.UnmarshalEmbedding(val)
			return unmarshalErr
		})
	}, false)
	return result, err
}

// FindSimilar delegates to the backend.
func (r *EmbeddingRepository) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]core.SimilarityMatch, error) {
	return r.backend.FindSimilar(ctx, vector, minSimilarity, limit)
}
