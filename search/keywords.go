package search

import (
	"maps"
	"slices"
	"strings"
	"unicode"

	"github.com/poiesic/creatorsearch/lexicon"
)

// Expansion limits applied to lexicon matches.
const (
	CategorySynonymLimit = 4 // synonyms added when a token names a category
	RelatedSynonymLimit  = 2 // synonyms added for each category listing the token
)

// KeywordSet is a deduplicated set of lowercase search terms.
// The zero value is an empty set.
type KeywordSet struct {
	terms map[string]struct{}
}

// NewKeywordSet builds a set from terms, lowercasing each.
func NewKeywordSet(terms ...string) KeywordSet {
	var ks KeywordSet
	for _, t := range terms {
		ks.add(strings.ToLower(t))
	}
	return ks
}

func (ks *KeywordSet) add(term string) {
	if term == "" {
		return
	}
	if ks.terms == nil {
		ks.terms = make(map[string]struct{})
	}
	ks.terms[term] = struct{}{}
}

// Len returns the number of terms.
func (ks KeywordSet) Len() int {
	return len(ks.terms)
}

// Contains reports whether term is in the set.
func (ks KeywordSet) Contains(term string) bool {
	_, ok := ks.terms[term]
	return ok
}

// Sorted returns the terms in lexical order.
func (ks KeywordSet) Sorted() []string {
	return slices.Sorted(maps.Keys(ks.terms))
}

// ExtractKeywords turns a raw query into an expanded keyword set.
// An empty result means the query imposes no textual constraint.
func ExtractKeywords(lex *lexicon.Lexicon, query string) KeywordSet {
	var ks KeywordSet
	for _, token := range tokenize(query) {
		if lex.IsStopword(token) {
			continue
		}
		ks.add(token)

		if lex.IsCategory(token) {
			for _, syn := range lex.FirstSynonyms(token, CategorySynonymLimit) {
				ks.add(syn)
			}
		}
		for _, category := range lex.CategoriesContaining(token) {
			ks.add(category)
			for _, syn := range lex.FirstSynonyms(category, RelatedSynonymLimit) {
				ks.add(syn)
			}
		}
	}
	return ks
}

// tokenize lowercases text and splits it into runs of letters, digits and underscores.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !isWordRune(r)
	})
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
