package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/poiesic/creatorsearch/core"
	"github.com/poiesic/creatorsearch/lexicon"
	"github.com/poiesic/creatorsearch/storage"
	"github.com/poiesic/creatorsearch/storage/badger"
	"github.com/poiesic/creatorsearch/storage/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type storeFactory func(t *testing.T) storage.CandidateRepository

var storeFactories = map[string]storeFactory{
	"badger": func(t *testing.T) storage.CandidateRepository {
		candidates, embeddings, backend, err := badger.NewMemoryRepositories()
		require.NoError(t, err)
		t.Cleanup(func() {
			embeddings.Close()
			candidates.Close()
			backend.Close()
		})
		return candidates
	},
	"sqlite": func(t *testing.T) storage.CandidateRepository {
		store, err := sqlite.Open(sqlite.MemoryPath)
		require.NoError(t, err)
		t.Cleanup(func() { store.Close() })
		return store
	},
}

// forEachStore runs fn against every store implementation.
func forEachStore(t *testing.T, fn func(t *testing.T, newStore storeFactory)) {
	for name, factory := range storeFactories {
		t.Run(name, func(t *testing.T) {
			fn(t, factory)
		})
	}
}

// techCatalog holds 20 tech creators and 5 food creators that share no
// tech vocabulary.
func techCatalog() []*core.Candidate {
	var out []*core.Candidate
	for i := range 20 {
		c := &core.Candidate{
			Username:           fmt.Sprintf("gadgetpro%02d", i),
			FullName:           fmt.Sprintf("Gadget Pro %02d", i),
			Category:           "Tech",
			Bio:                "Phone and laptop reviews",
			InstagramHandle:    fmt.Sprintf("gadgetpro%02d", i),
			InstagramFollowers: int64(1000 * (i + 1)),
			EngagementRate:     float64(i%10) + 0.5,
			Verified:           i%3 == 0,
		}
		if i%2 == 0 {
			c.YouTubeChannel = fmt.Sprintf("gp%02d", i)
			c.YouTubeSubscribers = int64(50 * i)
		}
		out = append(out, c)
	}
	for j := range 5 {
		c := &core.Candidate{
			Username:           fmt.Sprintf("cook%02d", j),
			FullName:           fmt.Sprintf("Cook %02d", j),
			Category:           "Food",
			Bio:                "Home cooking and family recipes",
			InstagramHandle:    fmt.Sprintf("cook%02d", j),
			InstagramFollowers: int64(2000 * (j + 1)),
			EngagementRate:     9.5 - float64(j),
			Verified:           j%2 == 0,
		}
		if j == 0 {
			c.YouTubeChannel = "cookingtv"
			c.YouTubeSubscribers = 5000
		}
		out = append(out, c)
	}
	return out
}

func seedCatalog(t *testing.T, repo storage.CandidateRepository, candidates []*core.Candidate) {
	t.Helper()
	_, err := repo.AddCandidates(context.Background(), candidates...)
	require.NoError(t, err)
}

func newTestSearcher(t *testing.T, store storage.CandidateStore, opts ...Option) *Searcher {
	t.Helper()
	s, err := NewSearcher(store, opts...)
	require.NoError(t, err)
	return s
}

func resultNames(resp *core.SearchResponse) []string {
	out := make([]string, len(resp.Results))
	for i, r := range resp.Results {
		out[i] = r.Candidate.Username
	}
	return out
}

func TestNewSearcher(t *testing.T) {
	candidates, embeddings, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		embeddings.Close()
		candidates.Close()
		backend.Close()
	}()

	t.Run("valid configuration", func(t *testing.T) {
		searcher, err := NewSearcher(candidates)
		require.NoError(t, err)
		assert.NotNil(t, searcher)
	})

	t.Run("with custom logger", func(t *testing.T) {
		searcher, err := NewSearcher(candidates, WithLogger(slog.Default()))
		require.NoError(t, err)
		assert.NotNil(t, searcher)
	})

	t.Run("with nil logger falls back to default", func(t *testing.T) {
		searcher, err := NewSearcher(candidates, WithLogger(nil))
		require.NoError(t, err)
		assert.NotNil(t, searcher)
	})

	t.Run("nil store", func(t *testing.T) {
		_, err := NewSearcher(nil)
		assert.Equal(t, ErrStoreRequired, err)
	})

	t.Run("nil lexicon", func(t *testing.T) {
		_, err := NewSearcher(candidates, WithLexicon(nil))
		assert.Equal(t, ErrLexiconRequired, err)
	})

	t.Run("invalid options", func(t *testing.T) {
		invalid := []Option{
			WithThreshold(-0.1),
			WithThreshold(1.5),
			WithThresholdMode("sometimes"),
			WithDefaultLimit(0),
			WithMaxLimit(0),
			WithWindowSize(0),
			WithSimilarityThreshold(2),
			WithSimilarity(nil, embeddings, candidates),
		}
		for i, opt := range invalid {
			_, err := NewSearcher(candidates, opt)
			assert.ErrorIs(t, err, ErrInvalidOption, "option %d", i)
		}
	})

	t.Run("default limit above max limit", func(t *testing.T) {
		_, err := NewSearcher(candidates, WithDefaultLimit(50), WithMaxLimit(20))
		assert.ErrorIs(t, err, ErrInvalidOption)
	})
}

func TestParseThresholdMode(t *testing.T) {
	tests := []struct {
		in   string
		want ThresholdMode
	}{
		{"", ThresholdBeforePagination},
		{"before_pagination", ThresholdBeforePagination},
		{" AFTER_PAGINATION ", ThresholdAfterPagination},
	}
	for _, tt := range tests {
		got, err := ParseThresholdMode(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseThresholdMode("never")
	assert.ErrorIs(t, err, ErrInvalidOption)
}

func TestSearch_KeywordQuery(t *testing.T) {
	forEachStore(t, func(t *testing.T, newStore storeFactory) {
		store := newStore(t)
		seedCatalog(t, store, techCatalog())
		searcher := newTestSearcher(t, store)

		resp := searcher.Search(context.Background(), Request{Query: "tech", Limit: 12})

		require.True(t, resp.Success)
		assert.NoError(t, resp.Err)
		assert.Equal(t, "tech", resp.Query)
		assert.Equal(t, 20, resp.TotalCount)
		assert.Len(t, resp.Results, 12)
		for _, r := range resp.Results {
			text := strings.ToLower(r.Candidate.Category + " " + r.Candidate.Bio)
			assert.Contains(t, text, "tech")
			assert.Equal(t, core.SearchTypeEnhancedHybrid, r.SearchType)
			assert.GreaterOrEqual(t, r.RelevanceScore, DefaultRelevanceThreshold)
			assert.LessOrEqual(t, r.RelevanceScore, MaxScore)
		}

		insights := resp.Insights
		assert.Equal(t, []string{"gadget", "mobile", "review", "tech", "technology"}, insights.Keywords)
		assert.Equal(t, StrategyKeyword, insights.Strategy)
		assert.Equal(t, core.ComplexityHigh, insights.Complexity)
		assert.Equal(t, 1, insights.CurrentPage)
		assert.Equal(t, 2, insights.TotalPages)
		assert.Equal(t, 12, insights.ResultsPerPage)
		assert.Equal(t, DefaultRelevanceThreshold, insights.RelevanceThreshold)
		assert.Equal(t, string(ThresholdBeforePagination), insights.ThresholdMode)
		assert.Empty(t, insights.Warnings)
		assert.Empty(t, insights.Error)
	})
}

func TestSearch_BrowseVerified(t *testing.T) {
	forEachStore(t, func(t *testing.T, newStore storeFactory) {
		store := newStore(t)
		catalog := techCatalog()
		seedCatalog(t, store, catalog)
		searcher := newTestSearcher(t, store)

		verified := 0
		for _, c := range catalog {
			if c.Verified {
				verified++
			}
		}

		resp := searcher.Search(context.Background(), Request{
			Filters: core.FilterRecord{Verified: ptr(true)},
			Limit:   5,
		})

		require.True(t, resp.Success)
		assert.Equal(t, verified, resp.TotalCount)
		require.Len(t, resp.Results, 5)
		assert.Equal(t, StrategyBrowse, resp.Insights.Strategy)
		assert.Empty(t, resp.Insights.Keywords)

		for i, r := range resp.Results {
			assert.True(t, r.Candidate.Verified)
			assert.Equal(t, NeutralScore, r.RelevanceScore)
			if i == 0 {
				continue
			}
			prev := resp.Results[i-1].Candidate
			cur := r.Candidate
			assert.GreaterOrEqual(t, prev.EngagementRate, cur.EngagementRate)
			if prev.EngagementRate == cur.EngagementRate {
				assert.GreaterOrEqual(t, prev.TotalFollowers(), cur.TotalFollowers())
			}
		}
	})
}

func TestSearch_PlatformFilter(t *testing.T) {
	forEachStore(t, func(t *testing.T, newStore storeFactory) {
		store := newStore(t)
		seedCatalog(t, store, techCatalog())
		searcher := newTestSearcher(t, store)

		resp := searcher.Search(context.Background(), Request{
			Query:   "tech",
			Filters: core.FilterRecord{Platform: ptr(core.PlatformYouTube)},
			Limit:   20,
		})

		require.True(t, resp.Success)
		assert.Equal(t, 8, resp.TotalCount)
		require.Len(t, resp.Results, 8)
		for _, r := range resp.Results {
			assert.NotEmpty(t, strings.TrimSpace(r.Candidate.YouTubeChannel))
			assert.Greater(t, r.Candidate.YouTubeSubscribers, int64(PlatformActivityThreshold))
		}
	})
}

func TestSearch_Deterministic(t *testing.T) {
	forEachStore(t, func(t *testing.T, newStore storeFactory) {
		store := newStore(t)
		seedCatalog(t, store, techCatalog())
		searcher := newTestSearcher(t, store)
		req := Request{Query: "phone reviews", Limit: 10, Offset: 3}

		first := searcher.Search(context.Background(), req)
		second := searcher.Search(context.Background(), req)

		require.True(t, first.Success)
		assert.Equal(t, resultNames(first), resultNames(second))
		for i := range first.Results {
			assert.Equal(t, first.Results[i].RelevanceScore, second.Results[i].RelevanceScore)
		}
	})
}

func TestSearch_OffsetPastEnd(t *testing.T) {
	forEachStore(t, func(t *testing.T, newStore storeFactory) {
		store := newStore(t)
		seedCatalog(t, store, techCatalog())
		searcher := newTestSearcher(t, store)

		for _, offset := range []int{20, 21, 500} {
			resp := searcher.Search(context.Background(), Request{Query: "tech", Limit: 12, Offset: offset})
			assert.True(t, resp.Success)
			assert.NotNil(t, resp.Results)
			assert.Empty(t, resp.Results)
			assert.Equal(t, 20, resp.TotalCount)
		}
	})
}

func TestSearch_PageLengthAndFilters(t *testing.T) {
	forEachStore(t, func(t *testing.T, newStore storeFactory) {
		store := newStore(t)
		seedCatalog(t, store, techCatalog())
		searcher := newTestSearcher(t, store)

		filters := core.FilterRecord{MinFollowers: ptr(int64(5000)), EngagementMin: ptr(2.0)}
		filterPred, _ := TranslateFilters(filters)

		for _, query := range []string{"", "tech", "cooking", "nothing matches this"} {
			for _, limit := range []int{1, 3, 7} {
				for _, offset := range []int{0, 2, 9, 30} {
					resp := searcher.Search(context.Background(), Request{
						Query: query, Filters: filters, Limit: limit, Offset: offset,
					})
					require.True(t, resp.Success)
					assert.LessOrEqual(t, len(resp.Results), min(limit, max(0, resp.TotalCount-offset)))
					for _, r := range resp.Results {
						assert.True(t, filterPred.Match(r.Candidate), "%s violates filters", r.Candidate.Username)
					}
				}
			}
		}
	})
}

func TestSearch_EmptyQueryDefaultOrder(t *testing.T) {
	forEachStore(t, func(t *testing.T, newStore storeFactory) {
		store := newStore(t)
		catalog := techCatalog()
		seedCatalog(t, store, catalog)
		searcher := newTestSearcher(t, store)

		storage.DefaultOrder().Sort(catalog)
		want := make([]string, len(catalog))
		for i, c := range catalog {
			want[i] = c.Username
		}

		resp := searcher.Search(context.Background(), Request{Limit: 100})
		require.True(t, resp.Success)
		assert.Equal(t, len(catalog), resp.TotalCount)
		assert.Equal(t, want, resultNames(resp))
		assert.Zero(t, resp.Insights.BelowThreshold)
	})
}

func TestSearch_StopwordQueryBrowses(t *testing.T) {
	store := storeFactories["badger"](t)
	seedCatalog(t, store, techCatalog())
	searcher := newTestSearcher(t, store)

	resp := searcher.Search(context.Background(), Request{Query: "the best", Limit: 5})

	require.True(t, resp.Success)
	assert.Equal(t, 25, resp.TotalCount)
	assert.Equal(t, StrategyBrowse, resp.Insights.Strategy)
	assert.Equal(t, core.ComplexitySimple, resp.Insights.Complexity)
	for _, r := range resp.Results {
		assert.Equal(t, NeutralScore, r.RelevanceScore)
	}
}

// zumbaCatalog orders three weak matches ahead of three strong ones: the
// weak creators only mention the term in a TikTok handle.
func zumbaCatalog() []*core.Candidate {
	var out []*core.Candidate
	for i := 1; i <= 3; i++ {
		out = append(out, &core.Candidate{
			Username:        fmt.Sprintf("dancer%d", i),
			Category:        "Dance",
			Bio:             "Latin dance workouts",
			TikTokHandle:    fmt.Sprintf("zumba_fan%d", i),
			TikTokFollowers: 40000,
			EngagementRate:  9,
			Verified:        true,
		})
	}
	for i := 1; i <= 3; i++ {
		out = append(out, &core.Candidate{
			Username:           fmt.Sprintf("zumbastar%d", i),
			Category:           "Dance",
			InstagramHandle:    fmt.Sprintf("zumbastar%d", i),
			InstagramFollowers: 1000,
		})
	}
	return out
}

func TestSearch_ThresholdBeforePagination(t *testing.T) {
	forEachStore(t, func(t *testing.T, newStore storeFactory) {
		store := newStore(t)
		seedCatalog(t, store, zumbaCatalog())

		for _, window := range []int{1, 2, DefaultWindowSize} {
			t.Run(fmt.Sprintf("window %d", window), func(t *testing.T) {
				searcher := newTestSearcher(t, store, WithThreshold(0.5), WithWindowSize(window))

				resp := searcher.Search(context.Background(), Request{Query: "zumba", Limit: 2})
				require.True(t, resp.Success)
				assert.Equal(t, 6, resp.TotalCount)
				assert.Equal(t, []string{"zumbastar1", "zumbastar2"}, resultNames(resp))
				assert.Equal(t, 3, resp.Insights.BelowThreshold)

				resp = searcher.Search(context.Background(), Request{Query: "zumba", Limit: 2, Offset: 2})
				assert.Equal(t, []string{"zumbastar3"}, resultNames(resp))
			})
		}
	})
}

func TestSearch_ThresholdAfterPagination(t *testing.T) {
	forEachStore(t, func(t *testing.T, newStore storeFactory) {
		store := newStore(t)
		seedCatalog(t, store, zumbaCatalog())
		searcher := newTestSearcher(t, store, WithThreshold(0.5), WithThresholdMode(ThresholdAfterPagination))

		resp := searcher.Search(context.Background(), Request{Query: "zumba", Limit: 2})
		require.True(t, resp.Success)
		assert.Equal(t, 6, resp.TotalCount)
		assert.Empty(t, resp.Results)
		assert.Equal(t, 2, resp.Insights.BelowThreshold)
		assert.Equal(t, string(ThresholdAfterPagination), resp.Insights.ThresholdMode)

		resp = searcher.Search(context.Background(), Request{Query: "zumba", Limit: 2, Offset: 2})
		assert.Equal(t, []string{"zumbastar1"}, resultNames(resp))
		assert.Equal(t, 1, resp.Insights.BelowThreshold)
	})
}

func TestSearch_Normalization(t *testing.T) {
	store := storeFactories["badger"](t)
	seedCatalog(t, store, techCatalog())
	searcher := newTestSearcher(t, store, WithDefaultLimit(8), WithMaxLimit(10))

	t.Run("limit below one", func(t *testing.T) {
		resp := searcher.Search(context.Background(), Request{Query: "tech"})
		assert.Equal(t, 8, resp.Insights.ResultsPerPage)
		assert.Len(t, resp.Results, 8)
		require.Len(t, resp.Insights.Warnings, 1)
		assert.Contains(t, resp.Insights.Warnings[0], "below 1")
	})

	t.Run("limit above max", func(t *testing.T) {
		resp := searcher.Search(context.Background(), Request{Query: "tech", Limit: 1000})
		assert.Equal(t, 10, resp.Insights.ResultsPerPage)
		assert.Len(t, resp.Results, 10)
		assert.Equal(t, 2, resp.Insights.TotalPages)
	})

	t.Run("negative offset", func(t *testing.T) {
		resp := searcher.Search(context.Background(), Request{Query: "tech", Limit: 5, Offset: -3})
		assert.Equal(t, 1, resp.Insights.CurrentPage)
		require.Len(t, resp.Insights.Warnings, 1)
		assert.Contains(t, resp.Insights.Warnings[0], "offset -3")
	})

	t.Run("current page", func(t *testing.T) {
		resp := searcher.Search(context.Background(), Request{Query: "tech", Limit: 5, Offset: 12})
		assert.Equal(t, 3, resp.Insights.CurrentPage)
		assert.Equal(t, 4, resp.Insights.TotalPages)
	})
}

func TestSearch_RawFilters(t *testing.T) {
	store := storeFactories["badger"](t)
	seedCatalog(t, store, techCatalog())
	searcher := newTestSearcher(t, store)

	resp := searcher.Search(context.Background(), Request{
		Query:      "tech",
		Filters:    core.FilterRecord{Verified: ptr(true)},
		RawFilters: map[string]string{"verified": "false", "min_followers": "10000", "colour": "red"},
		Limit:      20,
	})

	require.True(t, resp.Success)
	// typed filters win over raw ones: verified tech creators with >= 10000 followers
	assert.Equal(t, 4, resp.TotalCount)
	for _, r := range resp.Results {
		assert.True(t, r.Candidate.Verified)
		assert.GreaterOrEqual(t, r.Candidate.TotalFollowers(), int64(10000))
	}
	require.Len(t, resp.Insights.Warnings, 1)
	assert.Contains(t, resp.Insights.Warnings[0], "colour")
}

func TestSearch_InvalidFilterWarns(t *testing.T) {
	store := storeFactories["badger"](t)
	seedCatalog(t, store, techCatalog())
	searcher := newTestSearcher(t, store)

	resp := searcher.Search(context.Background(), Request{
		RawFilters: map[string]string{FilterEngagementMin: "high"},
		Limit:      5,
	})

	require.True(t, resp.Success)
	assert.Equal(t, 25, resp.TotalCount)
	require.Len(t, resp.Insights.Warnings, 1)
	assert.Contains(t, resp.Insights.Warnings[0], FilterEngagementMin)
}

func TestSearch_UnsatisfiableBounds(t *testing.T) {
	forEachStore(t, func(t *testing.T, newStore storeFactory) {
		store := newStore(t)
		seedCatalog(t, store, techCatalog())
		searcher := newTestSearcher(t, store)

		filters := map[string]core.FilterRecord{
			"engagement_min=150": {EngagementMin: ptr(150.0)},
			"max_followers=-1":   {MaxFollowers: ptr(int64(-1))},
		}
		for name, f := range filters {
			t.Run(name, func(t *testing.T) {
				resp := searcher.Search(context.Background(), Request{Filters: f, Limit: 5})
				require.True(t, resp.Success)
				assert.Equal(t, 0, resp.TotalCount)
				assert.Empty(t, resp.Results)
				assert.Empty(t, resp.Insights.Warnings)
			})
		}

		t.Run("raw engagement_min=150", func(t *testing.T) {
			resp := searcher.Search(context.Background(), Request{
				Query:      "tech",
				RawFilters: map[string]string{FilterEngagementMin: "150"},
				Limit:      5,
			})
			require.True(t, resp.Success)
			assert.Equal(t, 0, resp.TotalCount)
		})

		t.Run("negative minimum keeps everything", func(t *testing.T) {
			resp := searcher.Search(context.Background(), Request{
				Filters: core.FilterRecord{EngagementMin: ptr(-4.0)},
				Limit:   5,
			})
			require.True(t, resp.Success)
			assert.Equal(t, 25, resp.TotalCount)
		})
	})
}

func TestKeywordPredicate_CountsCharacters(t *testing.T) {
	assert.Nil(t, keywordPredicate("éé", []string{"éé", "ñu"}))

	pred := keywordPredicate("mú", []string{"música"})
	require.IsType(t, storage.Any{}, pred)
	assert.Len(t, pred, len(keywordFields))
	for _, p := range pred.(storage.Any) {
		assert.Equal(t, "música", p.(storage.Contains).Substring)
	}
}

func TestSearch_NonASCIICategory(t *testing.T) {
	forEachStore(t, func(t *testing.T, newStore storeFactory) {
		store := newStore(t)
		catalog := append(techCatalog(), &core.Candidate{
			Username: "banda_sol", FullName: "Banda Sol", Category: "MÚSICA",
			Bio: "Canciones en vivo", EngagementRate: 4,
		})
		seedCatalog(t, store, catalog)
		searcher := newTestSearcher(t, store)

		resp := searcher.Search(context.Background(), Request{
			Query:   "música",
			Filters: core.FilterRecord{Category: ptr("música")},
			Limit:   5,
		})
		require.True(t, resp.Success)
		assert.Equal(t, 1, resp.TotalCount)
		assert.Equal(t, []string{"banda_sol"}, resultNames(resp))
	})
}

func TestSearch_CustomLexicon(t *testing.T) {
	lex, err := lexicon.New(nil, []lexicon.Category{{Name: "kitchen", Synonyms: []string{"cooking"}}}, nil)
	require.NoError(t, err)

	store := storeFactories["badger"](t)
	seedCatalog(t, store, techCatalog())
	searcher := newTestSearcher(t, store, WithLexicon(lex))

	resp := searcher.Search(context.Background(), Request{Query: "kitchen", Limit: 10})
	require.True(t, resp.Success)
	assert.Equal(t, []string{"cooking", "kitchen"}, resp.Insights.Keywords)
	assert.Equal(t, 5, resp.TotalCount)
}

// failingStore fails Count or Query on demand.
type failingStore struct {
	storage.CandidateStore
	countErr error
	queryErr error
}

func (f *failingStore) Count(ctx context.Context, pred storage.Predicate) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.CandidateStore.Count(ctx, pred)
}

func (f *failingStore) Query(ctx context.Context, pred storage.Predicate, order storage.Order, offset, limit int) ([]*core.Candidate, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.CandidateStore.Query(ctx, pred, order, offset, limit)
}

func TestSearch_StoreFailure(t *testing.T) {
	store := storeFactories["badger"](t)
	seedCatalog(t, store, techCatalog())
	boom := errors.New("disk on fire")

	tests := []struct {
		name  string
		store *failingStore
	}{
		{"count fails", &failingStore{CandidateStore: store, countErr: boom}},
		{"query fails", &failingStore{CandidateStore: store, queryErr: boom}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, mode := range []ThresholdMode{ThresholdBeforePagination, ThresholdAfterPagination} {
				searcher := newTestSearcher(t, tt.store, WithThresholdMode(mode))

				resp := searcher.Search(context.Background(), Request{Query: "tech", Limit: 5})

				require.NotNil(t, resp)
				assert.False(t, resp.Success)
				assert.NotNil(t, resp.Results)
				assert.Empty(t, resp.Results)
				assert.Zero(t, resp.TotalCount)
				assert.Contains(t, resp.Insights.Error, "disk on fire")
				assert.ErrorIs(t, resp.Err, core.ErrStoreUnavailable)
				assert.ErrorIs(t, resp.Err, boom)
				assert.Equal(t, "tech", resp.Query)
			}
		})
	}
}

func TestSearch_ClosedStore(t *testing.T) {
	candidates, embeddings, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	seedCatalog(t, candidates, techCatalog())
	searcher := newTestSearcher(t, candidates)

	embeddings.Close()
	candidates.Close()
	require.NoError(t, backend.Close())

	resp := searcher.Search(context.Background(), Request{Query: "tech", Limit: 5})
	assert.False(t, resp.Success)
	assert.ErrorIs(t, resp.Err, storage.ErrStorageClosed)
}

func TestExplain(t *testing.T) {
	store := storeFactories["badger"](t)
	searcher := newTestSearcher(t, store)

	c := &core.Candidate{Username: "gadgetpro", Category: "Tech", EngagementRate: 5}
	b := searcher.Explain(c, "tech")
	assert.InDelta(t, ExactPhraseWeight, b.ExactPhrase, 1e-9)
	assert.InDelta(t, EngagementMidWeight, b.Engagement, 1e-9)

	assert.Equal(t, Breakdown{Total: NeutralScore}, searcher.Explain(c, "the"))
}

type testMonitor struct {
	started    bool
	keywords   []string
	filterPred storage.Predicate
	total      int
	pages      int
	scored     int
	kept       int
	finished   *core.SearchResponse
}

func (m *testMonitor) Start(Request) {
	m.started = true
}

func (m *testMonitor) AfterKeywordExtraction(keywords []string) {
	m.keywords = keywords
}

func (m *testMonitor) AfterFilterTranslation(pred storage.Predicate, _ []core.FilterWarning) {
	m.filterPred = pred
}

func (m *testMonitor) AfterCount(total int) {
	m.total = total
}

func (m *testMonitor) AfterPageRetrieval([]*core.Candidate) {
	m.pages++
}

func (m *testMonitor) Scored(_ *core.Candidate, _ Breakdown, kept bool) {
	m.scored++
	if kept {
		m.kept++
	}
}

func (m *testMonitor) Finish(resp *core.SearchResponse) {
	m.finished = resp
}

func TestSearchWithMonitor(t *testing.T) {
	store := storeFactories["badger"](t)
	seedCatalog(t, store, zumbaCatalog())
	searcher := newTestSearcher(t, store, WithThreshold(0.5), WithWindowSize(2))

	monitor := &testMonitor{}
	resp := searcher.SearchWithMonitor(context.Background(), Request{
		Query:   "zumba",
		Filters: core.FilterRecord{Category: ptr("dance")},
		Limit:   2,
	}, monitor)

	require.True(t, resp.Success)
	assert.True(t, monitor.started)
	assert.Equal(t, []string{"zumba"}, monitor.keywords)
	assert.Equal(t, storage.Contains{Field: storage.FieldCategory, Substring: "dance"}, monitor.filterPred)
	assert.Equal(t, 6, monitor.total)
	assert.Equal(t, 3, monitor.pages)
	assert.Equal(t, 5, monitor.scored)
	assert.Equal(t, 2, monitor.kept)
	assert.Same(t, resp, monitor.finished)
}
