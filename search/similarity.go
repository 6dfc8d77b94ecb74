package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/poiesic/creatorsearch/ai"
	"github.com/poiesic/creatorsearch/core"
	"github.com/poiesic/creatorsearch/storage"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultSimilarityThreshold is the minimum cosine similarity FindSimilar keeps.
const DefaultSimilarityThreshold = 0.7

// SimilarityQueryPrefix is prepended to queries before embedding them.
const SimilarityQueryPrefix = "Search query: "

// CandidateGetter hydrates candidates by ID.
type CandidateGetter interface {
	GetCandidates(ctx context.Context, ids ...core.ID) ([]*core.Candidate, error)
}

// WithSimilarity enables FindSimilar. The embedder must produce vectors of
// the same model that filled embeddings.
func WithSimilarity(embedder ai.Embedder, embeddings storage.EmbeddingRepository, candidates CandidateGetter) Option {
	return func(s *Searcher) error {
		if embedder == nil || embeddings == nil || candidates == nil {
			return fmt.Errorf("%w: similarity needs an embedder, embeddings and candidates", ErrInvalidOption)
		}
		s.embedder = embedder
		s.embeddings = embeddings
		s.candidates = candidates
		return nil
	}
}

// WithSimilarityThreshold sets the minimum similarity FindSimilar keeps.
func WithSimilarityThreshold(threshold float32) Option {
	return func(s *Searcher) error {
		if !(threshold >= 0 && threshold <= 1) {
			return fmt.Errorf("%w: similarity threshold %v outside [0,1]", ErrInvalidOption, threshold)
		}
		s.similarityThreshold = threshold
		return nil
	}
}

// FindSimilar ranks candidates by embedding similarity to query.
// Results are tagged vector_similarity and are never merged with keyword ranking.
func (s *Searcher) FindSimilar(ctx context.Context, query string, limit int) ([]*core.ScoredResult, error) {
	if s.embedder == nil {
		return nil, ErrSimilarityUnavailable
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	limit = min(max(limit, 1), s.maxLimit)
	start := time.Now()

	ctx, span := searchTracer.Start(ctx, "search.similarity", trace.WithAttributes(
		attribute.Int("query.length", len(query)),
		attribute.Int("request.limit", limit),
	))
	defer span.End()

	results, err := s.findSimilar(ctx, query, limit)
	elapsed := time.Since(start)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "similarity_failed")
		recordSearchMetrics(ctx, "similarity", elapsed, false)
		s.logger.Error("similarity search failed", "query", query, "err", err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("results.returned", len(results)))
	recordSearchMetrics(ctx, "similarity", elapsed, true)
	s.logger.Debug("similarity search complete", "query", query, "returned", len(results), "elapsed", elapsed)
	return results, nil
}

func (s *Searcher) findSimilar(ctx context.Context, query string, limit int) ([]*core.ScoredResult, error) {
	vector, err := s.embedder.EmbedText(ctx, SimilarityQueryPrefix+query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	matches, err := s.embeddings.FindSimilar(ctx, ai.NormalizeVector(vector), s.similarityThreshold, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrStoreUnavailable, err)
	}
	if len(matches) == 0 {
		return []*core.ScoredResult{}, nil
	}

	ids := make([]core.ID, len(matches))
	for i, m := range matches {
		ids[i] = m.CandidateId
	}
	candidates, err := s.candidates.GetCandidates(ctx, ids...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrStoreUnavailable, err)
	}
	byID := make(map[core.ID]*core.Candidate, len(candidates))
	for _, c := range candidates {
		byID[c.Id] = c
	}

	// Keep similarity order; skip embeddings whose candidate is gone
	results := make([]*core.ScoredResult, 0, len(matches))
	for _, m := range matches {
		c, ok := byID[m.CandidateId]
		if !ok {
			continue
		}
		results = append(results, &core.ScoredResult{
			Candidate:      c,
			RelevanceScore: min(max(float64(m.Score), 0), MaxScore),
			SearchType:     core.SearchTypeVectorSimilarity,
		})
	}
	return results, nil
}
