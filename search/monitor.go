package search

import (
	"github.com/poiesic/creatorsearch/core"
	"github.com/poiesic/creatorsearch/storage"
)

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(req Request)
	AfterKeywordExtraction(keywords []string)
	AfterFilterTranslation(pred storage.Predicate, warnings []core.FilterWarning)
	AfterCount(total int)
	AfterPageRetrieval(candidates []*core.Candidate)
	Scored(candidate *core.Candidate, breakdown Breakdown, kept bool)
	Finish(resp *core.SearchResponse)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ Request)                                                    {}
func (n *noopMonitor) AfterKeywordExtraction(_ []string)                                  {}
func (n *noopMonitor) AfterFilterTranslation(_ storage.Predicate, _ []core.FilterWarning) {}
func (n *noopMonitor) AfterCount(_ int)                                                   {}
func (n *noopMonitor) AfterPageRetrieval(_ []*core.Candidate)                             {}
func (n *noopMonitor) Scored(_ *core.Candidate, _ Breakdown, _ bool)                      {}
func (n *noopMonitor) Finish(_ *core.SearchResponse)                                      {}
