package search

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/perigee/recall/ai"
	"github.com/perigee/recall/core"
	"github.com/perigee/recall/storage"
	"github.com/perigee/recall/vector"
)

// sentinelText is a seed document written by connectivity probes. It is
// never a real search hit.
const sentinelText = "test message"

// Searcher provides hybrid semantic and keyword search over messages.
type Searcher struct {
	messages storage.MessageRepository
	store    vector.Store
	embedder ai.Embedder
	logger   *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(
	messages storage.MessageRepository,
	store vector.Store,
	embedder ai.Embedder,
	opts ...Option,
) (*Searcher, error) {
	if messages == nil {
		return nil, ErrMessageRepositoryRequired
	}
	if store == nil {
		return nil, ErrVectorStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	s := &Searcher{
		messages: messages,
		store:    store,
		embedder: embedder,
		logger:   slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Search returns up to limit messages ranked by a weighted blend of vector
// similarity and keyword matching. Alpha is the semantic weight: 0 is pure
// keyword search, 1 is pure semantic search.
func (s *Searcher) Search(ctx context.Context, query string, limit int, alpha float64) ([]*core.SearchResult, error) {
	return s.SearchWithMonitor(ctx, query, limit, alpha, nil)
}

// SearchWithMonitor is Search with callbacks at each stage of the process.
func (s *Searcher) SearchWithMonitor(ctx context.Context, query string, limit int, alpha float64, monitor SearchMonitor) ([]*core.SearchResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if alpha < 0 || alpha > 1 {
		return nil, ErrInvalidAlpha
	}
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}

	monitor.Start(query)

	var results []*core.SearchResult
	seen := make(map[string]bool)

	// 1. Semantic phase. A vector store failure degrades to keyword-only
	// results unless the caller asked for pure semantic search.
	if alpha > 0 {
		matches, err := s.semanticSearch(ctx, query, limit)
		if err != nil {
			if alpha == 1 {
				s.logger.Error("semantic search failed", "query", query, "err", err)
				return nil, err
			}
			s.logger.Warn("semantic search failed, keyword results only", "query", query, "err", err)
		} else {
			monitor.AfterSemanticSearch(matches)
			for _, match := range matches {
				if match.Document == sentinelText || seen[match.Document] {
					continue
				}
				seen[match.Document] = true
				results = append(results, semanticResult(match, alpha))
			}
		}
	}

	// 2. Keyword phase. Hits already present by exact text keep their
	// semantic score.
	if alpha < 1 {
		hits, err := s.messages.SearchText(ctx, query, 0)
		if err != nil {
			s.logger.Error("keyword search failed", "query", query, "err", err)
			return nil, fmt.Errorf("keyword search: %w", err)
		}
		monitor.AfterKeywordSearch(hits)
		for _, msg := range hits {
			if msg.Text == sentinelText || seen[msg.Text] {
				continue
			}
			seen[msg.Text] = true
			results = append(results, &core.SearchResult{
				Text:           msg.Text,
				ConversationID: msg.ConversationID,
				User:           msg.Username,
				Timestamp:      msg.Timestamp,
				Score:          1 - alpha,
				KeywordMatch:   true,
			})
		}
	}

	// Sort by score descending; ties keep discovery order
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}
	monitor.Finish(results)

	return results, nil
}

// semanticSearch embeds the query and asks the vector store for the nearest
// neighbors, capped at twice the requested limit or the corpus size,
// whichever is smaller.
func (s *Searcher) semanticSearch(ctx context.Context, query string, limit int) ([]vector.Match, error) {
	embedding, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	total, err := s.messages.CountMessages(ctx)
	if err != nil {
		return nil, fmt.Errorf("count messages: %w", err)
	}
	k := limit * 2
	if total < k {
		k = total
	}
	if k == 0 {
		return nil, nil
	}

	matches, err := s.store.Query(ctx, embedding, k)
	if err != nil {
		return nil, fmt.Errorf("query vector store: %w", err)
	}
	return matches, nil
}

func semanticResult(match vector.Match, alpha float64) *core.SearchResult {
	result := &core.SearchResult{
		Text:           match.Document,
		ConversationID: match.Metadata["conversation_id"],
		User:           match.Metadata["username"],
		Score:          alpha * (1 - float64(match.Distance)),
		KeywordMatch:   false,
	}
	if ts, err := time.Parse(time.RFC3339, match.Metadata["timestamp"]); err == nil {
		result.Timestamp = ts.UTC()
	}
	return result
}
