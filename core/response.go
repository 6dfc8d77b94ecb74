package core

import "time"

// SearchType tags how a result was produced.
type SearchType string

const (
	SearchTypeEnhancedHybrid   SearchType = "enhanced_hybrid"
	SearchTypeVectorSimilarity SearchType = "vector_similarity"
)

// Complexity is a coarse tag derived from the number of expanded keywords.
type Complexity string

const (
	ComplexitySimple Complexity = "simple"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// ComplexityFor maps a keyword count to its complexity tag.
func ComplexityFor(keywordCount int) Complexity {
	switch {
	case keywordCount > 3:
		return ComplexityHigh
	case keywordCount > 1:
		return ComplexityMedium
	}
	return ComplexitySimple
}

// ScoredResult is a candidate with its relevance score.
type ScoredResult struct {
	Candidate      *Candidate `json:"candidate"`
	RelevanceScore float64    `json:"relevance_score"` // always within [0,1]
	SearchType     SearchType `json:"search_type"`
}

// SearchInsights describes how a search executed.
type SearchInsights struct {
	Keywords           []string   `json:"keywords"`
	RelevanceThreshold float64    `json:"relevance_threshold"`
	ThresholdMode      string     `json:"threshold_mode,omitempty"`
	BelowThreshold     int        `json:"below_threshold"`
	CurrentPage        int        `json:"current_page"`
	TotalPages         int        `json:"total_pages"`
	ResultsPerPage     int        `json:"results_per_page"`
	Complexity         Complexity `json:"query_complexity"`
	Strategy           string     `json:"strategy"`
	Warnings           []string   `json:"warnings,omitempty"`
	Error              string     `json:"error,omitempty"`
}

// SearchResponse is the envelope returned for every search.
// Failures are reported through Success, Insights.Error and Err, never by panics.
type SearchResponse struct {
	Success    bool            `json:"success"`
	Query      string          `json:"query"`
	Results    []*ScoredResult `json:"results"`
	TotalCount int             `json:"total_count"` // matches before pagination
	Elapsed    time.Duration   `json:"-"`
	ElapsedMS  float64         `json:"elapsed_ms"`
	Insights   SearchInsights  `json:"insights"`
	Err        error           `json:"-"`
}
