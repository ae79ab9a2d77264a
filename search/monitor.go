package search

import (
	"github.com/perigee/recall/core"
	"github.com/perigee/recall/vector"
)

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string)
	AfterSemanticSearch(matches []vector.Match)
	AfterKeywordSearch(hits []*core.Message)
	Finish(results []*core.SearchResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                      {}
func (n *noopMonitor) AfterSemanticSearch(_ []vector.Match) {}
func (n *noopMonitor) AfterKeywordSearch(_ []*core.Message) {}
func (n *noopMonitor) Finish(_ []*core.SearchResult)        {}
