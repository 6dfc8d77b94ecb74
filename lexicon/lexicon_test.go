package lexicon

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	lex := Default()
	require.NotNil(t, lex)
	assert.Same(t, lex, Default(), "default lexicon must be built once")

	t.Run("stopwords", func(t *testing.T) {
		for _, w := range []string{"the", "best", "top", "find", "search"} {
			assert.True(t, lex.IsStopword(w), w)
		}
		assert.False(t, lex.IsStopword("tech"))
	})

	t.Run("categories in declaration order", func(t *testing.T) {
		assert.Equal(t, []string{
			"tech", "beauty", "food", "gaming", "comedy", "travel",
			"fitness", "music", "lifestyle", "business", "education", "news",
		}, lex.Categories())
	})

	t.Run("synonym order preserved", func(t *testing.T) {
		assert.Equal(t, []string{"technology", "gadget", "review", "mobile"}, lex.FirstSynonyms("tech", 4))
		assert.Equal(t, []string{"cooking", "recipe"}, lex.FirstSynonyms("food", 2))
	})

	t.Run("reverse lookup", func(t *testing.T) {
		assert.Equal(t, []string{"travel", "lifestyle"}, lex.CategoriesContaining("vlog"))
		assert.Equal(t, []string{"fitness", "education"}, lex.CategoriesContaining("training"))
		assert.Empty(t, lex.CategoriesContaining("nothing"))
	})

	t.Run("context terms", func(t *testing.T) {
		assert.Contains(t, lex.ContextTerms(), "karachi")
		assert.Len(t, lex.ContextTerms(), 9)
	})
}

func TestLexicon_AccessorsReturnCopies(t *testing.T) {
	lex := Default()

	syn := lex.Synonyms("tech")
	syn[0] = "mutated"
	assert.Equal(t, "technology", lex.Synonyms("tech")[0])

	terms := lex.ContextTerms()
	terms[0] = "mutated"
	assert.Equal(t, "pakistan", lex.ContextTerms()[0])

	cats := lex.CategoriesContaining("vlog")
	cats[0] = "mutated"
	assert.Equal(t, "travel", lex.CategoriesContaining("vlog")[0])
}

func TestNew(t *testing.T) {
	t.Run("normalizes input", func(t *testing.T) {
		lex, err := New([]string{" The "}, []Category{{Name: "Tech", Synonyms: []string{"Gadget", "gadget", ""}}}, []string{"Lahore"})
		require.NoError(t, err)
		assert.True(t, lex.IsStopword("the"))
		assert.True(t, lex.IsCategory("tech"))
		assert.Equal(t, []string{"gadget"}, lex.Synonyms("tech"))
		assert.Equal(t, []string{"lahore"}, lex.ContextTerms())
	})

	t.Run("rejects empty category", func(t *testing.T) {
		_, err := New(nil, []Category{{Name: " "}}, nil)
		assert.ErrorIs(t, err, ErrInvalidLexicon)
	})

	t.Run("rejects duplicate category", func(t *testing.T) {
		_, err := New(nil, []Category{{Name: "tech"}, {Name: "TECH"}}, nil)
		assert.ErrorIs(t, err, ErrInvalidLexicon)
	})

	t.Run("unknown category", func(t *testing.T) {
		lex, err := New(nil, nil, nil)
		require.NoError(t, err)
		assert.Nil(t, lex.Synonyms("tech"))
		assert.Nil(t, lex.FirstSynonyms("tech", 2))
	})
}

func TestLoad(t *testing.T) {
	doc := `
stopwords: [the, best]
categories:
  - name: pets
    synonyms: [dog, cat, vet]
context_terms: [berlin]
`
	lex, err := Load(strings.NewReader(doc))
	require.NoError(t, err)
	assert.True(t, lex.IsStopword("best"))
	assert.Equal(t, []string{"dog", "cat"}, lex.FirstSynonyms("pets", 2))
	assert.Equal(t, []string{"pets"}, lex.CategoriesContaining("vet"))
	assert.Equal(t, []string{"berlin"}, lex.ContextTerms())

	t.Run("unknown field", func(t *testing.T) {
		_, err := Load(strings.NewReader("synonyms: {}\n"))
		assert.ErrorIs(t, err, ErrInvalidLexicon)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(t.TempDir() + "/missing.yaml")
		assert.Error(t, err)
	})
}
