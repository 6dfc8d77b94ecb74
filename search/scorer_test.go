package search

import (
	"testing"

	"github.com/poiesic/creatorsearch/core"
	"github.com/poiesic/creatorsearch/lexicon"
	"github.com/poiesic/creatorsearch/storage/storagetest"
	"github.com/stretchr/testify/assert"
)

func TestScorer_Breakdown(t *testing.T) {
	lex := lexicon.Default()
	scorer := NewScorer(lex)

	c := &core.Candidate{
		Username:           "techguru",
		FullName:           "Ali Tech",
		Bio:                "Phone reviews from Lahore",
		Category:           "tech",
		InstagramFollowers: 600_000,
		YouTubeSubscribers: 500_000,
		EngagementRate:     8.5,
		Verified:           true,
	}

	b := scorer.Explain(c, ExtractKeywords(lex, "tech"), "tech")

	assert.InDelta(t, ExactPhraseWeight, b.ExactPhrase, 1e-9)
	assert.InDelta(t, CategoryExactWeight, b.Category, 1e-9)
	assert.InDelta(t, UsernamePartialWeight, b.Username, 1e-9)
	assert.InDelta(t, FullNameWeight, b.FullName, 1e-9)
	assert.InDelta(t, BioKeywordWeight, b.Bio, 1e-9) // "review"
	assert.InDelta(t, DomainContextWeight, b.DomainContext, 1e-9)
	assert.InDelta(t, VerifiedWeight, b.Verified, 1e-9)
	assert.InDelta(t, EngagementHighWeight, b.Engagement, 1e-9)
	assert.InDelta(t, FollowersHighWeight, b.Followers, 1e-9)
	assert.InDelta(t, MultiPlatformWeight, b.MultiPlatform, 1e-9)
	assert.Equal(t, MaxScore, b.Total)
}

func TestScorer_NoMatch(t *testing.T) {
	lex := lexicon.Default()
	scorer := NewScorer(lex)

	c := &core.Candidate{Username: "chef", Category: "food", Bio: "Home cooking"}
	assert.Zero(t, scorer.Score(c, ExtractKeywords(lex, "tech"), "tech"))
}

func TestScorer_Signals(t *testing.T) {
	lex := lexicon.Default()
	scorer := NewScorer(lex)

	t.Run("exact username", func(t *testing.T) {
		c := &core.Candidate{Username: "Gadget"}
		b := scorer.Explain(c, NewKeywordSet("gadget"), "")
		assert.InDelta(t, UsernameExactWeight, b.Username, 1e-9)
	})

	t.Run("partial category", func(t *testing.T) {
		c := &core.Candidate{Category: "Street Food"}
		b := scorer.Explain(c, NewKeywordSet("food"), "")
		assert.InDelta(t, CategoryPartialWeight, b.Category, 1e-9)
	})

	t.Run("bio keywords capped", func(t *testing.T) {
		c := &core.Candidate{Bio: "tech technology gadget review mobile"}
		b := scorer.Explain(c, ExtractKeywords(lex, "tech"), "")
		assert.InDelta(t, BioKeywordCap, b.Bio, 1e-9)
	})

	t.Run("phrase needs more than two characters", func(t *testing.T) {
		c := &core.Candidate{Category: "ai"}
		b := scorer.Explain(c, NewKeywordSet("ai"), "ai")
		assert.Zero(t, b.ExactPhrase)
		assert.InDelta(t, CategoryExactWeight, b.Category, 1e-9)
	})

	t.Run("phrase length counts characters", func(t *testing.T) {
		c := &core.Candidate{Category: "éé café"}
		assert.Zero(t, scorer.Explain(c, KeywordSet{}, "éé").ExactPhrase)
		assert.InDelta(t, ExactPhraseWeight, scorer.Explain(c, KeywordSet{}, "CAFÉ").ExactPhrase, 1e-9)
	})

	t.Run("phrase matched in bio", func(t *testing.T) {
		c := &core.Candidate{Bio: "The best street food in town"}
		b := scorer.Explain(c, NewKeywordSet("unrelated"), "  Street Food ")
		assert.InDelta(t, ExactPhraseWeight, b.ExactPhrase, 1e-9)
	})

	t.Run("context term in category", func(t *testing.T) {
		c := &core.Candidate{Category: "Desi Cooking"}
		b := scorer.Explain(c, NewKeywordSet("unrelated"), "")
		assert.InDelta(t, DomainContextWeight, b.DomainContext, 1e-9)
	})

	t.Run("engagement tiers", func(t *testing.T) {
		tests := []struct {
			rate float64
			want float64
		}{
			{9.5, EngagementHighWeight},
			{8, EngagementHighWeight},
			{7.99, EngagementMidWeight},
			{5, EngagementMidWeight},
			{3, EngagementLowWeight},
			{2.99, 0},
			{0, 0},
		}
		for _, tt := range tests {
			b := scorer.Explain(&core.Candidate{EngagementRate: tt.rate}, NewKeywordSet("x"), "")
			assert.InDelta(t, tt.want, b.Engagement, 1e-9, "rate %v", tt.rate)
		}
	})

	t.Run("follower tiers", func(t *testing.T) {
		tests := []struct {
			followers int64
			want      float64
		}{
			{1_000_000, FollowersHighWeight},
			{999_999, FollowersMidWeight},
			{100_000, FollowersMidWeight},
			{50_000, FollowersLowWeight},
			{49_999, 0},
		}
		for _, tt := range tests {
			b := scorer.Explain(&core.Candidate{TikTokFollowers: tt.followers}, NewKeywordSet("x"), "")
			assert.InDelta(t, tt.want, b.Followers, 1e-9, "followers %d", tt.followers)
		}
	})

	t.Run("multi platform needs two active accounts", func(t *testing.T) {
		c := &core.Candidate{InstagramFollowers: 1000, YouTubeSubscribers: 5000}
		assert.Zero(t, scorer.Explain(c, NewKeywordSet("x"), "").MultiPlatform)

		c.InstagramFollowers = 1001
		assert.InDelta(t, MultiPlatformWeight, scorer.Explain(c, NewKeywordSet("x"), "").MultiPlatform, 1e-9)
	})
}

func TestScorer_BoundedAndDeterministic(t *testing.T) {
	lex := lexicon.Default()
	scorer := NewScorer(lex)
	queries := []string{"", "tech", "fitness gym", "food lahore", "yoga", "verified creators", "zzz"}

	for _, c := range storagetest.Fixture() {
		for _, q := range queries {
			ks := ExtractKeywords(lex, q)
			first := scorer.Score(c, ks, q)
			second := scorer.Score(c, ks, q)

			assert.GreaterOrEqual(t, first, 0.0)
			assert.LessOrEqual(t, first, MaxScore)
			assert.Equal(t, first, second, "%s / %q", c.Username, q)
		}
	}
}
