package storage

import (
	"cmp"
	"slices"
	"strings"

	"github.com/poiesic/creatorsearch/core"
)

// Composite weights used to order keyword searches inside the store.
const (
	CategoryExactWeight     = 10
	CategorySubstringWeight = 8
	UsernameExactWeight     = 7
	UsernameSubstringWeight = 5
	EngagementHighWeight    = 3 // engagement >= 8
	EngagementMidWeight     = 2 // engagement >= 5
	EngagementLowWeight     = 1 // engagement >= 3
	VerifiedWeight          = 2
)

// Order describes how a store sorts query results.
// The zero value is the default order: engagement desc, total followers desc.
type Order struct {
	keywords []string
}

// DefaultOrder sorts by engagement rate then total followers, both descending.
func DefaultOrder() Order {
	return Order{}
}

// RelevanceOrder sorts by the composite keyword weight, then total
// followers and engagement rate, all descending.
func RelevanceOrder(keywords []string) Order {
	if len(keywords) == 0 {
		return Order{}
	}
	kw := slices.Clone(keywords)
	slices.Sort(kw)
	return Order{keywords: slices.Compact(kw)}
}

// IsRelevance reports whether keywords drive the order.
func (o Order) IsRelevance() bool {
	return len(o.keywords) > 0
}

// Keywords returns the sorted keywords of a relevance order.
func (o Order) Keywords() []string {
	return slices.Clone(o.keywords)
}

// Weight computes the composite relevance weight of c.
func (o Order) Weight(c *core.Candidate) int {
	category := strings.ToLower(c.Category)
	username := strings.ToLower(c.Username)

	weight := 0
	for _, kw := range o.keywords {
		switch {
		case category == kw:
			weight += CategoryExactWeight
		case strings.Contains(category, kw):
			weight += CategorySubstringWeight
		}
		switch {
		case username == kw:
			weight += UsernameExactWeight
		case strings.Contains(username, kw):
			weight += UsernameSubstringWeight
		}
	}

	switch {
	case c.EngagementRate >= 8:
		weight += EngagementHighWeight
	case c.EngagementRate >= 5:
		weight += EngagementMidWeight
	case c.EngagementRate >= 3:
		weight += EngagementLowWeight
	}
	if c.Verified {
		weight += VerifiedWeight
	}
	return weight
}

// Compare orders a before b when it returns a negative number.
// Ties fall back to the normalized username so results are stable across
// calls and identical between stores.
func (o Order) Compare(a, b *core.Candidate) int {
	if o.IsRelevance() {
		if c := cmp.Compare(o.Weight(b), o.Weight(a)); c != 0 {
			return c
		}
		if c := cmp.Compare(b.TotalFollowers(), a.TotalFollowers()); c != 0 {
			return c
		}
		if c := cmp.Compare(b.EngagementRate, a.EngagementRate); c != 0 {
			return c
		}
	} else {
		if c := cmp.Compare(b.EngagementRate, a.EngagementRate); c != 0 {
			return c
		}
		if c := cmp.Compare(b.TotalFollowers(), a.TotalFollowers()); c != 0 {
			return c
		}
	}
	if c := cmp.Compare(core.NormalizeUsername(a.Username), core.NormalizeUsername(b.Username)); c != 0 {
		return c
	}
	return cmp.Compare(a.Id, b.Id)
}

// Sort orders candidates in place.
func (o Order) Sort(candidates []*core.Candidate) {
	slices.SortFunc(candidates, o.Compare)
}

// Page returns the offset/limit window of an ordered slice.
// A limit of zero or less returns everything after offset.
func Page[T any](items []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
