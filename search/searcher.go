package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/poiesic/creatorsearch/ai"
	"github.com/poiesic/creatorsearch/core"
	"github.com/poiesic/creatorsearch/lexicon"
	"github.com/poiesic/creatorsearch/storage"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Defaults applied by NewSearcher.
const (
	DefaultRelevanceThreshold = 0.15
	DefaultLimit              = 12
	DefaultMaxLimit           = 100
	DefaultWindowSize         = 100
)

// Strategy tags reported in SearchInsights.
const (
	StrategyKeyword = "enhanced_hybrid_search"
	StrategyBrowse  = "attribute_browse"
)

// minTermLength is the shortest phrase or keyword used for candidate selection.
const minTermLength = 3

// ThresholdMode selects where the relevance threshold is applied.
type ThresholdMode string

const (
	// ThresholdBeforePagination drops low-scoring candidates before offset
	// and limit are applied, so pages are full whenever enough relevant
	// matches exist.
	ThresholdBeforePagination ThresholdMode = "before_pagination"

	// ThresholdAfterPagination fetches the page first and then drops
	// low-scoring items from it. Pages may come back short.
	ThresholdAfterPagination ThresholdMode = "after_pagination"
)

// ParseThresholdMode converts a configuration string into a ThresholdMode.
func ParseThresholdMode(s string) (ThresholdMode, error) {
	switch m := ThresholdMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ThresholdBeforePagination, ThresholdAfterPagination:
		return m, nil
	case "":
		return ThresholdBeforePagination, nil
	}
	return "", fmt.Errorf("%w: threshold mode %q", ErrInvalidOption, s)
}

// Request is one search call.
type Request struct {
	Query   string
	Filters core.FilterRecord

	// RawFilters holds loosely typed filter values, for example from query
	// strings. They are parsed with ParseFilters and fill fields Filters
	// leaves unset.
	RawFilters map[string]string

	Limit  int
	Offset int
}

// Searcher provides keyword and attribute search over a candidate store.
// It holds no per-request state and is safe for concurrent use.
type Searcher struct {
	store   storage.CandidateStore
	lexicon *lexicon.Lexicon
	scorer  *Scorer
	logger  *slog.Logger

	threshold    float64
	mode         ThresholdMode
	defaultLimit int
	maxLimit     int
	windowSize   int

	embedder            ai.Embedder
	embeddings          storage.EmbeddingRepository
	candidates          CandidateGetter
	similarityThreshold float32
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithLexicon replaces the built-in lexicon.
func WithLexicon(lex *lexicon.Lexicon) Option {
	return func(s *Searcher) error {
		if lex == nil {
			return ErrLexiconRequired
		}
		s.lexicon = lex
		return nil
	}
}

// WithThreshold sets the minimum relevance score kept for queries.
func WithThreshold(threshold float64) Option {
	return func(s *Searcher) error {
		if !(threshold >= 0 && threshold <= MaxScore) {
			return fmt.Errorf("%w: threshold %v outside [0,1]", ErrInvalidOption, threshold)
		}
		s.threshold = threshold
		return nil
	}
}

// WithThresholdMode selects where the relevance threshold is applied.
func WithThresholdMode(mode ThresholdMode) Option {
	return func(s *Searcher) error {
		m, err := ParseThresholdMode(string(mode))
		if err != nil {
			return err
		}
		s.mode = m
		return nil
	}
}

// WithDefaultLimit sets the page size used when a request asks for less than one.
func WithDefaultLimit(limit int) Option {
	return func(s *Searcher) error {
		if limit < 1 {
			return fmt.Errorf("%w: default limit %d", ErrInvalidOption, limit)
		}
		s.defaultLimit = limit
		return nil
	}
}

// WithMaxLimit caps the page size a request may ask for.
func WithMaxLimit(limit int) Option {
	return func(s *Searcher) error {
		if limit < 1 {
			return fmt.Errorf("%w: max limit %d", ErrInvalidOption, limit)
		}
		s.maxLimit = limit
		return nil
	}
}

// WithWindowSize sets how many candidates are fetched per store round trip
// when the threshold is applied before pagination.
func WithWindowSize(size int) Option {
	return func(s *Searcher) error {
		if size < 1 {
			return fmt.Errorf("%w: window size %d", ErrInvalidOption, size)
		}
		s.windowSize = size
		return nil
	}
}

// NewSearcher creates a new searcher over store.
func NewSearcher(store storage.CandidateStore, opts ...Option) (*Searcher, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}

	s := &Searcher{
		store:               store,
		lexicon:             lexicon.Default(),
		logger:              slog.Default(),
		threshold:           DefaultRelevanceThreshold,
		mode:                ThresholdBeforePagination,
		defaultLimit:        DefaultLimit,
		maxLimit:            DefaultMaxLimit,
		windowSize:          DefaultWindowSize,
		similarityThreshold: DefaultSimilarityThreshold,
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	if s.defaultLimit > s.maxLimit {
		return nil, fmt.Errorf("%w: default limit %d exceeds max limit %d", ErrInvalidOption, s.defaultLimit, s.maxLimit)
	}
	s.scorer = NewScorer(s.lexicon)
	s.logger = s.logger.With("component", "searcher")
	return s, nil
}

// Explain returns the relevance breakdown of c for query.
func (s *Searcher) Explain(c *core.Candidate, query string) Breakdown {
	return s.score(c, ExtractKeywords(s.lexicon, query), query)
}

// Search runs a keyword and attribute search. It never returns nil and
// never fails: store errors are reported through the response envelope.
func (s *Searcher) Search(ctx context.Context, req Request) *core.SearchResponse {
	return s.SearchWithMonitor(ctx, req, nil)
}

// SearchWithMonitor runs Search, reporting each stage to monitor.
func (s *Searcher) SearchWithMonitor(ctx context.Context, req Request, monitor SearchMonitor) *core.SearchResponse {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	start := time.Now()

	ctx, span := searchTracer.Start(ctx, "search.keyword", trace.WithAttributes(
		attribute.Int("query.length", len(req.Query)),
		attribute.Int("request.limit", req.Limit),
		attribute.Int("request.offset", req.Offset),
	))
	defer span.End()

	monitor.Start(req)

	limit, offset, warnings := s.normalize(req)

	// 1. Expand the query
	keywords := ExtractKeywords(s.lexicon, req.Query)
	sortedKeywords := keywords.Sorted()
	monitor.AfterKeywordExtraction(sortedKeywords)

	// 2-3. Candidate set and filters
	filters := req.Filters
	if len(req.RawFilters) > 0 {
		parsed, parseWarnings := ParseFilters(req.RawFilters)
		filters = filters.Merge(parsed)
		warnings = appendFilterWarnings(warnings, parseWarnings)
	}
	filterPred, filterWarnings := TranslateFilters(filters)
	warnings = appendFilterWarnings(warnings, filterWarnings)
	monitor.AfterFilterTranslation(filterPred, filterWarnings)

	var textPred storage.Predicate
	if req.Query != "" && keywords.Len() > 0 {
		textPred = keywordPredicate(req.Query, sortedKeywords)
	}
	pred := storage.And(textPred, filterPred)

	strategy := StrategyBrowse
	order := storage.DefaultOrder()
	if keywords.Len() > 0 {
		strategy = StrategyKeyword
		order = storage.RelevanceOrder(sortedKeywords)
	}

	resp := &core.SearchResponse{
		Success: true,
		Query:   req.Query,
		Results: []*core.ScoredResult{},
		Insights: core.SearchInsights{
			Keywords:           append([]string{}, sortedKeywords...),
			RelevanceThreshold: s.threshold,
			ThresholdMode:      string(s.mode),
			CurrentPage:        offset/limit + 1,
			ResultsPerPage:     limit,
			Complexity:         core.ComplexityFor(keywords.Len()),
			Strategy:           strategy,
			Warnings:           warnings,
		},
	}
	span.SetAttributes(attribute.Int("keywords.count", keywords.Len()))

	// 4. Count before pagination
	total, err := s.store.Count(ctx, pred)
	if err != nil {
		return s.fail(ctx, span, resp, start, err, monitor)
	}
	monitor.AfterCount(total)
	resp.TotalCount = total
	resp.Insights.TotalPages = (total + limit - 1) / limit

	// 5-7. Order, paginate and score
	if offset < total {
		applyThreshold := req.Query != ""
		var results []*core.ScoredResult
		var below int
		if applyThreshold && s.mode == ThresholdBeforePagination {
			results, below, err = s.collectBeforePagination(ctx, pred, order, keywords, req.Query, offset, limit, total, monitor)
		} else {
			results, below, err = s.collectPage(ctx, pred, order, keywords, req.Query, offset, limit, applyThreshold, monitor)
		}
		if err != nil {
			return s.fail(ctx, span, resp, start, err, monitor)
		}
		resp.Results = results
		resp.Insights.BelowThreshold = below
	}

	// 8. Assemble
	s.finish(resp, start)
	span.SetAttributes(
		attribute.Int("results.total", resp.TotalCount),
		attribute.Int("results.returned", len(resp.Results)),
	)
	recordSearchMetrics(ctx, "keyword", resp.Elapsed, true)
	s.logger.Debug("search complete",
		"query", req.Query,
		"keywords", keywords.Len(),
		"total", resp.TotalCount,
		"returned", len(resp.Results),
		"below_threshold", resp.Insights.BelowThreshold,
		"elapsed", resp.Elapsed)
	monitor.Finish(resp)
	return resp
}

// collectPage fetches one page and filters it by score.
func (s *Searcher) collectPage(
	ctx context.Context,
	pred storage.Predicate,
	order storage.Order,
	keywords KeywordSet,
	query string,
	offset, limit int,
	applyThreshold bool,
	monitor SearchMonitor,
) ([]*core.ScoredResult, int, error) {
	page, err := s.store.Query(ctx, pred, order, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	monitor.AfterPageRetrieval(page)

	results := make([]*core.ScoredResult, 0, len(page))
	below := 0
	for _, c := range page {
		b := s.score(c, keywords, query)
		kept := !applyThreshold || b.Total >= s.threshold
		monitor.Scored(c, b, kept)
		if !kept {
			below++
			continue
		}
		results = append(results, newResult(c, b.Total))
	}
	return results, below, nil
}

// collectBeforePagination walks the ordered candidate set in windows,
// skipping sub-threshold items, and returns the offset/limit slice of the
// items that pass.
func (s *Searcher) collectBeforePagination(
	ctx context.Context,
	pred storage.Predicate,
	order storage.Order,
	keywords KeywordSet,
	query string,
	offset, limit, total int,
	monitor SearchMonitor,
) ([]*core.ScoredResult, int, error) {
	results := make([]*core.ScoredResult, 0, limit)
	passed, below := 0, 0

	for pos := 0; pos < total && len(results) < limit; pos += s.windowSize {
		window, err := s.store.Query(ctx, pred, order, pos, s.windowSize)
		if err != nil {
			return nil, 0, err
		}
		monitor.AfterPageRetrieval(window)

		for _, c := range window {
			b := s.score(c, keywords, query)
			kept := b.Total >= s.threshold
			monitor.Scored(c, b, kept)
			if !kept {
				below++
				continue
			}
			if passed >= offset {
				results = append(results, newResult(c, b.Total))
				if len(results) == limit {
					break
				}
			}
			passed++
		}
		if len(window) < s.windowSize {
			break
		}
	}
	return results, below, nil
}

func (s *Searcher) score(c *core.Candidate, keywords KeywordSet, query string) Breakdown {
	if keywords.Len() == 0 {
		return Breakdown{Total: NeutralScore}
	}
	return s.scorer.Explain(c, keywords, query)
}

func newResult(c *core.Candidate, score float64) *core.ScoredResult {
	return &core.ScoredResult{
		Candidate:      c,
		RelevanceScore: score,
		SearchType:     core.SearchTypeEnhancedHybrid,
	}
}

// normalize clamps limit and offset, describing every adjustment.
func (s *Searcher) normalize(req Request) (limit, offset int, warnings []string) {
	limit, offset = req.Limit, req.Offset
	if limit < 1 {
		warnings = append(warnings, fmt.Sprintf("limit %d below 1, using %d", limit, s.defaultLimit))
		limit = s.defaultLimit
	}
	if limit > s.maxLimit {
		warnings = append(warnings, fmt.Sprintf("limit %d above maximum, using %d", limit, s.maxLimit))
		limit = s.maxLimit
	}
	if offset < 0 {
		warnings = append(warnings, fmt.Sprintf("offset %d below 0, using 0", offset))
		offset = 0
	}
	return limit, offset, warnings
}

func (s *Searcher) fail(
	ctx context.Context,
	span trace.Span,
	resp *core.SearchResponse,
	start time.Time,
	err error,
	monitor SearchMonitor,
) *core.SearchResponse {
	resp.Success = false
	resp.Results = []*core.ScoredResult{}
	resp.TotalCount = 0
	resp.Insights.TotalPages = 0
	resp.Insights.Error = err.Error()
	resp.Err = fmt.Errorf("%w: %w", core.ErrStoreUnavailable, err)
	s.finish(resp, start)

	span.RecordError(err)
	span.SetStatus(codes.Error, "store_unavailable")
	recordSearchMetrics(ctx, "keyword", resp.Elapsed, false)
	s.logger.Error("search failed", "query", resp.Query, "err", err)
	monitor.Finish(resp)
	return resp
}

func (s *Searcher) finish(resp *core.SearchResponse, start time.Time) {
	resp.Elapsed = time.Since(start)
	resp.ElapsedMS = float64(resp.Elapsed.Microseconds()) / 1000
}

// keywordPredicate selects candidates mentioning the phrase or any keyword.
// Terms shorter than three characters are ignored; it returns nil when no
// term is long enough.
func keywordPredicate(query string, keywords []string) storage.Predicate {
	var anyOf storage.Any

	phrase := strings.ToLower(strings.TrimSpace(query))
	if utf8.RuneCountInString(phrase) >= minTermLength {
		for _, field := range []storage.TextField{storage.FieldCategory, storage.FieldUsername, storage.FieldBio} {
			anyOf = append(anyOf, storage.Contains{Field: field, Substring: phrase})
		}
	}

	for _, kw := range keywords {
		if utf8.RuneCountInString(kw) < minTermLength {
			continue
		}
		for _, field := range keywordFields {
			anyOf = append(anyOf, storage.Contains{Field: field, Substring: kw})
		}
	}

	if len(anyOf) == 0 {
		return nil
	}
	return anyOf
}

var keywordFields = []storage.TextField{
	storage.FieldUsername,
	storage.FieldFullName,
	storage.FieldCategory,
	storage.FieldBio,
	storage.FieldYouTubeChannel,
	storage.FieldInstagramHandle,
	storage.FieldTikTokHandle,
}

func appendFilterWarnings(dst []string, warnings []core.FilterWarning) []string {
	for _, w := range warnings {
		dst = append(dst, w.String())
	}
	return dst
}
