package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/creatorsearch/ai"
	"github.com/poiesic/creatorsearch/core"
	"github.com/poiesic/creatorsearch/storage"
)

// embeddingProcessor generates embeddings for stored candidates.
type embeddingProcessor struct {
	candidateRepository storage.CandidateRepository
	embeddingRepository storage.EmbeddingRepository
	embedder            ai.Embedder
	logger              *slog.Logger
}

func newEmbeddingProcessor(
	candidateRepository storage.CandidateRepository,
	embeddingRepository storage.EmbeddingRepository,
	embedder ai.Embedder,
	logger *slog.Logger,
) *embeddingProcessor {
	if logger == nil {
		logger = slog.Default()
	}
	return &embeddingProcessor{
		candidateRepository: candidateRepository,
		embeddingRepository: embeddingRepository,
		embedder:            embedder,
		logger:              logger.With("processor", "embeddings"),
	}
}

// process embeds the candidates identified by ids and returns how many
// embeddings it wrote or found already current. Candidates without
// embeddable text are skipped.
func (ep *embeddingProcessor) process(ctx context.Context, ids ...core.ID) (int, error) {
	ep.logger.Debug("processing candidates for embeddings", "candidates", len(ids))

	candidates, err := ep.candidateRepository.GetCandidates(ctx, ids...)
	if err != nil {
		ep.logger.Error("error retrieving candidates", "err", err)
		return 0, err
	}

	current := 0
	var (
		pending []*core.Candidate
		texts   []string
		hashes  []uint64
	)
	for _, c := range candidates {
		text := core.EmbeddingText(c)
		if text == "" {
			continue
		}
		hash := core.ContentHash(text)

		existing, err := ep.embeddingRepository.GetEmbedding(ctx, c.Id)
		switch {
		case err == nil && existing.ContentHash == hash && len(existing.Vector) > 0:
			current++
			continue
		case err != nil && !errors.Is(err, storage.ErrNotFound):
			return current, err
		}

		pending = append(pending, c)
		texts = append(texts, text)
		hashes = append(hashes, hash)
	}
	if len(texts) == 0 {
		return current, nil
	}

	vectors, err := ep.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		ep.logger.Error("error generating embeddings", "err", err)
		return current, err
	}
	if len(vectors) != len(texts) {
		return current, fmt.Errorf("embedding result mismatch. expected %d, received %d", len(texts), len(vectors))
	}

	embeddings := make([]*core.Embedding, len(pending))
	for i, c := range pending {
		embeddings[i] = &core.Embedding{
			CandidateId: c.Id,
			Vector:      ai.NormalizeVector(vectors[i]),
			ContentHash: hashes[i],
		}
	}
	if err := ep.embeddingRepository.SetEmbeddings(ctx, embeddings...); err != nil {
		return current, err
	}
	return current + len(embeddings), nil
}
