package search

import (
	"strings"
	"unicode/utf8"

	"github.com/poiesic/creatorsearch/core"
	"github.com/poiesic/creatorsearch/lexicon"
)

// Relevance signal weights. The final score is their sum capped at MaxScore.
const (
	ExactPhraseWeight       = 0.6
	CategoryExactWeight     = 0.5
	CategoryPartialWeight   = 0.35
	UsernameExactWeight     = 0.3
	UsernamePartialWeight   = 0.21
	FullNameWeight          = 0.25
	BioKeywordWeight        = 0.1
	BioKeywordCap           = 0.15
	DomainContextWeight     = 0.1
	VerifiedWeight          = 0.15
	EngagementHighWeight    = 0.2
	EngagementMidWeight     = 0.14
	EngagementLowWeight     = 0.08
	FollowersHighWeight     = 0.1
	FollowersMidWeight      = 0.07
	FollowersLowWeight      = 0.04
	MultiPlatformWeight     = 0.1
	MultiPlatformMinimum    = 1000 // followers a platform needs to count as active
	MultiPlatformActiveNeed = 2

	MaxScore     = 1.0
	NeutralScore = 0.5 // used when a query yields no keywords
)

// Breakdown lists the contribution of each signal to a score.
type Breakdown struct {
	ExactPhrase   float64 `json:"exact_phrase"`
	Category      float64 `json:"category"`
	Username      float64 `json:"username"`
	FullName      float64 `json:"full_name"`
	Bio           float64 `json:"bio"`
	DomainContext float64 `json:"domain_context"`
	Verified      float64 `json:"verified"`
	Engagement    float64 `json:"engagement"`
	Followers     float64 `json:"followers"`
	MultiPlatform float64 `json:"multi_platform"`
	Total         float64 `json:"total"` // capped sum
}

// Scorer computes bounded relevance scores. It holds no mutable state.
type Scorer struct {
	contextTerms []string
}

// NewScorer creates a scorer using the context terms of lex.
func NewScorer(lex *lexicon.Lexicon) *Scorer {
	return &Scorer{contextTerms: lex.ContextTerms()}
}

// Score returns the relevance of c for keywords and the raw query, in [0,1].
func (s *Scorer) Score(c *core.Candidate, keywords KeywordSet, query string) float64 {
	return s.Explain(c, keywords, query).Total
}

// Explain computes every signal for c. Signals are summed in a fixed order
// over sorted keywords so identical inputs yield bit-identical totals.
func (s *Scorer) Explain(c *core.Candidate, keywords KeywordSet, query string) Breakdown {
	var b Breakdown

	category := strings.ToLower(c.Category)
	username := strings.ToLower(c.Username)
	fullName := strings.ToLower(c.FullName)
	bio := strings.ToLower(c.Bio)

	phrase := strings.ToLower(strings.TrimSpace(query))
	if utf8.RuneCountInString(phrase) >= minTermLength &&
		(strings.Contains(category, phrase) || strings.Contains(username, phrase) || strings.Contains(bio, phrase)) {
		b.ExactPhrase = ExactPhraseWeight
	}

	bioMatches := 0
	for _, kw := range keywords.Sorted() {
		switch {
		case kw == category:
			b.Category += CategoryExactWeight
		case strings.Contains(category, kw):
			b.Category += CategoryPartialWeight
		}
		switch {
		case kw == username:
			b.Username += UsernameExactWeight
		case strings.Contains(username, kw):
			b.Username += UsernamePartialWeight
		}
		if strings.Contains(fullName, kw) {
			b.FullName += FullNameWeight
		}
		if strings.Contains(bio, kw) {
			bioMatches++
		}
	}
	b.Bio = min(float64(bioMatches)*BioKeywordWeight, BioKeywordCap)

	for _, term := range s.contextTerms {
		if strings.Contains(bio, term) || strings.Contains(category, term) {
			b.DomainContext = DomainContextWeight
			break
		}
	}

	if c.Verified {
		b.Verified = VerifiedWeight
	}

	switch {
	case c.EngagementRate >= 8:
		b.Engagement = EngagementHighWeight
	case c.EngagementRate >= 5:
		b.Engagement = EngagementMidWeight
	case c.EngagementRate >= 3:
		b.Engagement = EngagementLowWeight
	}

	switch total := c.TotalFollowers(); {
	case total >= 1_000_000:
		b.Followers = FollowersHighWeight
	case total >= 100_000:
		b.Followers = FollowersMidWeight
	case total >= 50_000:
		b.Followers = FollowersLowWeight
	}

	active := 0
	for _, p := range core.Platforms {
		if c.Followers(p) > MultiPlatformMinimum {
			active++
		}
	}
	if active >= MultiPlatformActiveNeed {
		b.MultiPlatform = MultiPlatformWeight
	}

	sum := b.ExactPhrase + b.Category + b.Username + b.FullName + b.Bio +
		b.DomainContext + b.Verified + b.Engagement + b.Followers + b.MultiPlatform
	b.Total = min(max(sum, 0), MaxScore)
	return b
}
