package lexicon

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Category is a domain category and its related terms, most relevant first.
type Category struct {
	Name     string   `yaml:"name"`
	Synonyms []string `yaml:"synonyms"`
}

// Lexicon holds the stopwords, synonym map and domain-context terms used
// by keyword extraction and scoring. It is never mutated after construction.
type Lexicon struct {
	stopwords    map[string]struct{}
	categories   []Category
	byName       map[string]int
	containing   map[string][]string
	contextTerms []string
}

// New builds a Lexicon. All inputs are copied and normalized to lowercase.
func New(stopwords []string, categories []Category, contextTerms []string) (*Lexicon, error) {
	l := &Lexicon{
		stopwords:  make(map[string]struct{}, len(stopwords)),
		categories: make([]Category, 0, len(categories)),
		byName:     make(map[string]int, len(categories)),
		containing: make(map[string][]string),
	}

	for _, w := range stopwords {
		w = normalize(w)
		if w != "" {
			l.stopwords[w] = struct{}{}
		}
	}

	for _, c := range categories {
		name := normalize(c.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: empty category name", ErrInvalidLexicon)
		}
		if _, exists := l.byName[name]; exists {
			return nil, fmt.Errorf("%w: duplicate category %q", ErrInvalidLexicon, name)
		}

		synonyms := make([]string, 0, len(c.Synonyms))
		for _, s := range c.Synonyms {
			s = normalize(s)
			if s == "" || slices.Contains(synonyms, s) {
				continue
			}
			synonyms = append(synonyms, s)
			l.containing[s] = append(l.containing[s], name)
		}

		l.byName[name] = len(l.categories)
		l.categories = append(l.categories, Category{Name: name, Synonyms: synonyms})
	}

	for _, term := range contextTerms {
		term = normalize(term)
		if term != "" && !slices.Contains(l.contextTerms, term) {
			l.contextTerms = append(l.contextTerms, term)
		}
	}

	return l, nil
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// IsStopword reports whether token is ignored during extraction.
func (l *Lexicon) IsStopword(token string) bool {
	_, ok := l.stopwords[token]
	return ok
}

// IsCategory reports whether name is a synonym-map key.
func (l *Lexicon) IsCategory(name string) bool {
	_, ok := l.byName[name]
	return ok
}

// Synonyms returns a copy of a category's related terms, or nil.
func (l *Lexicon) Synonyms(category string) []string {
	i, ok := l.byName[category]
	if !ok {
		return nil
	}
	return slices.Clone(l.categories[i].Synonyms)
}

// FirstSynonyms returns up to n leading synonyms of a category.
func (l *Lexicon) FirstSynonyms(category string, n int) []string {
	i, ok := l.byName[category]
	if !ok || n <= 0 {
		return nil
	}
	syn := l.categories[i].Synonyms
	return slices.Clone(syn[:min(n, len(syn))])
}

// CategoriesContaining returns the categories whose synonym lists include
// term, in declaration order.
func (l *Lexicon) CategoriesContaining(term string) []string {
	return slices.Clone(l.containing[term])
}

// Categories returns the category names in declaration order.
func (l *Lexicon) Categories() []string {
	names := make([]string, len(l.categories))
	for i, c := range l.categories {
		names[i] = c.Name
	}
	return names
}

// ContextTerms returns a copy of the domain-context terms.
func (l *Lexicon) ContextTerms() []string {
	return slices.Clone(l.contextTerms)
}

// Default returns the built-in lexicon. It is constructed once per process.
var Default = sync.OnceValue(func() *Lexicon {
	l, err := New(defaultStopwords, defaultCategories, defaultContextTerms)
	if err != nil {
		panic(err)
	}
	return l
})
