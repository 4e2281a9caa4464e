package search

import (
	"context"
	"log/slog"
	"time"

	"github.com/poiesic/recall/ai"
	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/storage"
)

// DefaultTopK is the result limit used when a query does not set one.
const DefaultTopK = 5

// Query holds optional retrieval parameters.
// A zero Query searches all projects with the default result limit.
type Query struct {
	// Project restricts results to chunks with this exact project label.
	// Empty matches all projects.
	Project string

	// TopK caps the number of results. Non-positive values use DefaultTopK.
	TopK int

	// Since restricts results to chunks created at or after this time.
	// The zero time disables the filter.
	Since time.Time
}

// Searcher provides semantic search over stored memory chunks.
type Searcher struct {
	chunks   storage.ChunkRepository
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
func NewSearcher(chunks storage.ChunkRepository, provider ai.AIProvider, opts ...Option) (*Searcher, error) {
	if chunks == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	s := &Searcher{
		chunks:   chunks,
		embedder: provider.Embedder(),
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Search embeds the query and returns the best-matching chunks, ranked by
// cosine similarity with recency tie-breaks. An empty result is not an error.
func (s *Searcher) Search(ctx context.Context, query string, q Query) ([]*core.ChunkMatch, error) {
	return s.SearchWithMonitor(ctx, query, q, nil)
}

// SearchWithMonitor searches with monitoring. The monitor receives callbacks
// at each stage of the search process.
func (s *Searcher) SearchWithMonitor(ctx context.Context, query string, q Query, monitor SearchMonitor) ([]*core.ChunkMatch, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	topK := q.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}

	monitor.Start(query)

	vector, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, err
	}
	monitor.AfterQueryEmbedding(len(vector))

	filter := storage.ChunkFilter{Project: q.Project, Since: q.Since}
	matches, err := s.chunks.SearchChunks(ctx, vector, filter, topK)
	if err != nil {
		s.logger.Error("error querying for similar chunks", "err", err)
		return nil, err
	}

	s.logger.Debug("search complete", "query", query, "hits", len(matches))
	monitor.Finish(matches)

	return matches, nil
}
