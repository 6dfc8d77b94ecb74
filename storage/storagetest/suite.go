// Package storagetest holds a behavioral suite shared by every
// storage.CandidateRepository implementation.
package storagetest

import (
	"context"
	"testing"

	"github.com/poiesic/creatorsearch/core"
	"github.com/poiesic/creatorsearch/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory opens an empty repository pair. Cleanup is registered on t.
type Factory func(t *testing.T) (storage.CandidateRepository, storage.EmbeddingRepository)

// Fixture returns a small catalogue covering every filterable attribute.
func Fixture() []*core.Candidate {
	return []*core.Candidate{
		{
			Username: "fitguru", FullName: "Fit Guru", Category: "Fitness",
			Bio:             "Daily workouts and gym routines",
			InstagramHandle: "fitguru", InstagramFollowers: 50000,
			YouTubeChannel: "FitGuruTV", YouTubeSubscribers: 20000,
			YouTubeURL:     "https://youtube.com/@fitguru",
			VideoCount:     120, TotalViews: 900000,
			EngagementRate: 6.5, Verified: true,
		},
		{
			Username: "yogaflow", FullName: "Yoga Flow", Category: "Yoga",
			InstagramHandle: "yogaflow", InstagramFollowers: 8000,
			EngagementRate: 9.1,
		},
		{
			Username: "techtalk", FullName: "Tech Talk", Category: "Technology",
			YouTubeChannel: "TechTalk", YouTubeSubscribers: 300000,
			YouTubeURL: "https://youtube.com/@techtalk",
			VideoCount: 400, TotalViews: 12000000,
			EngagementRate: 3.2,
		},
		{
			Username: "chefmia", FullName: "Chef Mia", Category: "food",
			TikTokHandle: "chefmia", TikTokFollowers: 75000,
			InstagramHandle: "chefmia", InstagramFollowers: 90,
			EngagementRate: 4.8, Verified: true,
		},
		{
			Username: "TechGuru", FullName: "The Tech Guru", Category: "tech",
			InstagramHandle: "  ", InstagramFollowers: 1000,
			EngagementRate: 8.0,
		},
	}
}

// Seed stores Fixture into repo and returns the stored records.
func Seed(t *testing.T, repo storage.CandidateRepository) []*core.Candidate {
	t.Helper()
	added, err := repo.AddCandidates(context.Background(), Fixture()...)
	require.NoError(t, err)
	return added
}

func usernames(candidates []*core.Candidate) []string {
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.Username
	}
	return out
}

// Run executes the suite against repositories produced by factory.
func Run(t *testing.T, factory Factory) {
	ctx := context.Background()

	t.Run("AddAndGet", func(t *testing.T) {
		repo, _ := factory(t)
		added := Seed(t, repo)

		for _, c := range added {
			assert.NotZero(t, c.Id)
			assert.Equal(t, core.CandidateID(c.Username), c.Id)
			assert.False(t, c.InsertedAt.IsZero())
			assert.False(t, c.UpdatedAt.IsZero())
		}

		got, err := repo.GetCandidate(ctx, added[0].Id)
		require.NoError(t, err)
		assert.Equal(t, "fitguru", got.Username)
		assert.Equal(t, int64(70000), got.TotalFollowers())
		assert.True(t, got.Verified)
		assert.InDelta(t, 6.5, got.EngagementRate, 1e-9)
	})

	t.Run("GetMissing", func(t *testing.T) {
		repo, _ := factory(t)
		_, err := repo.GetCandidate(ctx, 42)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("GetCandidatesRequestOrder", func(t *testing.T) {
		repo, _ := factory(t)
		added := Seed(t, repo)

		got, err := repo.GetCandidates(ctx, added[2].Id, 99, added[0].Id)
		require.NoError(t, err)
		assert.Equal(t, []string{"techtalk", "fitguru"}, usernames(got))
	})

	t.Run("UpsertKeepsInsertedAt", func(t *testing.T) {
		repo, _ := factory(t)
		added := Seed(t, repo)
		first, err := repo.GetCandidate(ctx, added[1].Id)
		require.NoError(t, err)

		_, err = repo.AddCandidates(ctx, &core.Candidate{Username: "yogaflow", Category: "Yoga", EngagementRate: 1})
		require.NoError(t, err)

		got, err := repo.GetCandidate(ctx, added[1].Id)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, got.EngagementRate, 1e-9)
		assert.True(t, first.InsertedAt.Equal(got.InsertedAt))

		count, err := repo.Count(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, 5, count)
	})

	t.Run("DuplicateUsername", func(t *testing.T) {
		repo, _ := factory(t)
		Seed(t, repo)

		_, err := repo.AddCandidates(ctx, &core.Candidate{Id: 7, Username: "FITGURU"})
		assert.ErrorIs(t, err, storage.ErrDuplicateKey)
	})

	t.Run("Delete", func(t *testing.T) {
		repo, embeddings := factory(t)
		added := Seed(t, repo)
		require.NoError(t, embeddings.SetEmbeddings(ctx, &core.Embedding{CandidateId: added[0].Id, Vector: []float32{1, 0}}))

		require.NoError(t, repo.DeleteCandidates(ctx, added[0].Id))
		_, err := repo.GetCandidate(ctx, added[0].Id)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		_, err = embeddings.GetEmbedding(ctx, added[0].Id)
		assert.ErrorIs(t, err, storage.ErrNotFound)

		err = repo.DeleteCandidates(ctx, added[0].Id)
		assert.ErrorIs(t, err, storage.ErrNotFound)

		// Username is free again
		_, err = repo.AddCandidates(ctx, &core.Candidate{Id: 7, Username: "fitguru"})
		assert.NoError(t, err)
	})

	t.Run("CountPredicates", func(t *testing.T) {
		repo, _ := factory(t)
		Seed(t, repo)

		tests := []struct {
			name string
			pred storage.Predicate
			want int
		}{
			{"nil", nil, 5},
			{"empty all", storage.All{}, 5},
			{"empty any", storage.Any{}, 0},
			{"category contains", storage.Contains{Field: storage.FieldCategory, Substring: "tech"}, 2},
			{"bio contains", storage.Contains{Field: storage.FieldBio, Substring: "gym"}, 1},
			{"verified", storage.Verified{Value: true}, 2},
			{"unverified", storage.Verified{Value: false}, 3},
			{"youtube url present", storage.NonEmpty{Field: storage.FieldYouTubeURL}, 2},
			{"youtube url absent", storage.Empty{Field: storage.FieldYouTubeURL}, 3},
			{"blank handle is empty", storage.NonEmpty{Field: storage.FieldInstagramHandle}, 3},
			{"total followers >=", storage.Compare{Field: storage.FieldTotalFollowers, Op: storage.OpGreaterEqual, Value: 70000}, 3},
			{"total followers <=", storage.Compare{Field: storage.FieldTotalFollowers, Op: storage.OpLessEqual, Value: 8000}, 2},
			{"engagement >=", storage.Compare{Field: storage.FieldEngagementRate, Op: storage.OpGreaterEqual, Value: 6.5}, 3},
			{"video count", storage.Compare{Field: storage.FieldVideoCount, Op: storage.OpGreaterEqual, Value: 200}, 1},
			{"total views", storage.Compare{Field: storage.FieldTotalViews, Op: storage.OpGreaterEqual, Value: 1}, 2},
			{
				"instagram active",
				storage.All{
					storage.NonEmpty{Field: storage.FieldInstagramHandle},
					storage.Compare{Field: storage.FieldInstagramFollowers, Op: storage.OpGreater, Value: 100},
				},
				2,
			},
			{
				"keyword any",
				storage.Any{
					storage.Contains{Field: storage.FieldUsername, Substring: "yoga"},
					storage.Contains{Field: storage.FieldFullName, Substring: "chef"},
				},
				2,
			},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, err := repo.Count(ctx, tt.pred)
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			})
		}
	})

	t.Run("QueryDefaultOrder", func(t *testing.T) {
		repo, _ := factory(t)
		Seed(t, repo)

		got, err := repo.Query(ctx, nil, storage.DefaultOrder(), 0, 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"yogaflow", "TechGuru", "fitguru", "chefmia", "techtalk"}, usernames(got))

		page, err := repo.Query(ctx, nil, storage.DefaultOrder(), 1, 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"TechGuru", "fitguru"}, usernames(page))

		past, err := repo.Query(ctx, nil, storage.DefaultOrder(), 10, 2)
		require.NoError(t, err)
		assert.Empty(t, past)
	})

	t.Run("QueryRelevanceOrder", func(t *testing.T) {
		repo, _ := factory(t)
		Seed(t, repo)

		order := storage.RelevanceOrder([]string{"tech"})
		pred := storage.Any{
			storage.Contains{Field: storage.FieldCategory, Substring: "tech"},
			storage.Contains{Field: storage.FieldUsername, Substring: "tech"},
		}
		got, err := repo.Query(ctx, pred, order, 0, 10)
		require.NoError(t, err)
		// TechGuru: category exact 10 + username substring 5 + engagement 3 = 18
		// techtalk: category substring 8 + username substring 5 + engagement 1 = 14
		assert.Equal(t, []string{"TechGuru", "techtalk"}, usernames(got))
	})

	t.Run("QueryMatchesInProcessOrder", func(t *testing.T) {
		repo, _ := factory(t)
		added := Seed(t, repo)

		for _, order := range []storage.Order{
			storage.DefaultOrder(),
			storage.RelevanceOrder([]string{"fit", "tech", "yoga"}),
		} {
			want := append([]*core.Candidate(nil), added...)
			order.Sort(want)

			got, err := repo.Query(ctx, nil, order, 0, 0)
			require.NoError(t, err)
			assert.Equal(t, usernames(want), usernames(got))
		}
	})

	t.Run("Embeddings", func(t *testing.T) {
		repo, embeddings := factory(t)
		added := Seed(t, repo)

		err := embeddings.SetEmbeddings(ctx, &core.Embedding{CandidateId: 12345, Vector: []float32{1}})
		assert.ErrorIs(t, err, storage.ErrNotFound)

		require.NoError(t, embeddings.SetEmbeddings(ctx,
			&core.Embedding{CandidateId: added[0].Id, Vector: []float32{1, 0}, ContentHash: 11},
			&core.Embedding{CandidateId: added[1].Id, Vector: []float32{0.8, 0.6}, ContentHash: 22},
			&core.Embedding{CandidateId: added[2].Id, Vector: []float32{0, 1}, ContentHash: 33},
		))

		got, err := embeddings.GetEmbedding(ctx, added[1].Id)
		require.NoError(t, err)
		assert.Equal(t, uint64(22), got.ContentHash)
		assert.Equal(t, []float32{0.8, 0.6}, got.Vector)

		_, err = embeddings.GetEmbedding(ctx, added[3].Id)
		assert.ErrorIs(t, err, storage.ErrNotFound)

		matches, err := embeddings.FindSimilar(ctx, []float32{1, 0}, 0.5, 10)
		require.NoError(t, err)
		require.Len(t, matches, 2)
		assert.Equal(t, added[0].Id, matches[0].CandidateId)
		assert.Equal(t, added[1].Id, matches[1].CandidateId)
		assert.InDelta(t, 0.8, matches[1].Score, 1e-6)

		limited, err := embeddings.FindSimilar(ctx, []float32{1, 0}, 0, 1)
		require.NoError(t, err)
		assert.Len(t, limited, 1)
	})

	t.Run("NonASCIICaseFolding", func(t *testing.T) {
		repo, _ := factory(t)
		Seed(t, repo)
		_, err := repo.AddCandidates(ctx, &core.Candidate{
			Username: "ÉLODIE", FullName: "Élodie Música", Category: "MÚSICA",
			EngagementRate: 2,
		})
		require.NoError(t, err)

		for _, pred := range []storage.Predicate{
			storage.Contains{Field: storage.FieldCategory, Substring: "música"},
			storage.Contains{Field: storage.FieldUsername, Substring: "élo"},
			storage.Contains{Field: storage.FieldFullName, Substring: "élodie música"},
		} {
			got, err := repo.Count(ctx, pred)
			require.NoError(t, err)
			assert.Equal(t, 1, got, "%+v", pred)
		}

		// category exact 10 + username exact 7 outranks every seeded creator
		order := storage.RelevanceOrder([]string{"música", "élodie"})
		got, err := repo.Query(ctx, nil, order, 0, 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"ÉLODIE"}, usernames(got))
	})

	t.Run("CanceledContext", func(t *testing.T) {
		repo, _ := factory(t)
		Seed(t, repo)

		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := repo.Query(cctx, nil, storage.DefaultOrder(), 0, 0)
		assert.Error(t, err)
	})
}
