package reembed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/poiesic/creatorsearch/ai"
	"github.com/poiesic/creatorsearch/core"
	"github.com/poiesic/creatorsearch/storage"
)

// BatchResult counts what happened to one batch.
type BatchResult struct {
	Embedded int // new vectors written
	Skipped  int // already current, or no profile text to embed
}

// BatchProcessor handles embedding generation for batches of candidates.
type BatchProcessor struct {
	embeddings     storage.EmbeddingRepository
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
	force          bool
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of attempts for embedding API calls
// retryBaseDelay: base delay for exponential backoff
// force: re-embed candidates whose stored vector is already current
func NewBatchProcessor(embeddings storage.EmbeddingRepository, embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration, force bool) *BatchProcessor {
	return &BatchProcessor{
		embeddings:     embeddings,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
		force:          force,
	}
}

// Process generates embeddings for a batch of candidates and stores them.
// Vectors are normalized after embedding so stores can rank by dot product.
func (bp *BatchProcessor) Process(ctx context.Context, candidates []*core.Candidate) (BatchResult, error) {
	var (
		result  BatchResult
		pending []*core.Candidate
		texts   []string
		hashes  []uint64
	)

	for _, c := range candidates {
		text := core.EmbeddingText(c)
		if text == "" {
			result.Skipped++
			continue
		}
		hash := core.ContentHash(text)

		if !bp.force {
			current, err := bp.isCurrent(ctx, c.Id, hash)
			if err != nil {
				return result, err
			}
			if current {
				result.Skipped++
				continue
			}
		}

		pending = append(pending, c)
		texts = append(texts, text)
		hashes = append(hashes, hash)
	}
	if len(texts) == 0 {
		return result, nil
	}

	var vectors [][]float32
	err := RetryWithBackoff(ctx, func(ctx context.Context) error {
		var err error
		vectors, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)
	if err != nil {
		return result, fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(vectors) != len(texts) {
		return result, fmt.Errorf("embedding count mismatch: expected %d, got %d", len(texts), len(vectors))
	}

	embeddings := make([]*core.Embedding, len(pending))
	for i, c := range pending {
		embeddings[i] = &core.Embedding{
			CandidateId: c.Id,
			Vector:      ai.NormalizeVector(vectors[i]),
			ContentHash: hashes[i],
		}
	}

	if err := bp.embeddings.SetEmbeddings(ctx, embeddings...); err != nil {
		return result, fmt.Errorf("failed to store embeddings: %w", err)
	}
	result.Embedded = len(embeddings)
	return result, nil
}

func (bp *BatchProcessor) isCurrent(ctx context.Context, id core.ID, hash uint64) (bool, error) {
	existing, err := bp.embeddings.GetEmbedding(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read embedding: %w", err)
	}
	return existing.ContentHash == hash && len(existing.Vector) > 0, nil
}
