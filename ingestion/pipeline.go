package ingestion

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/memory"
)

// defaultConcurrency is the number of candidates embedded and written
// concurrently per window.
const defaultConcurrency = 5

// Stats summarizes the outcome of one Ingest call.
// A candidate counts in exactly one of Inserted, Skipped, or Failed.
// Tokens aggregates only over inserted candidates.
type Stats struct {
	Inserted int
	Skipped  int
	Failed   int
	Tokens   int
}

// Pipeline orchestrates batch ingestion of candidate chunks.
// Candidates within a window are processed concurrently on a worker pool;
// the next window starts only after the current one settles.
type Pipeline struct {
	writer      *memory.Writer
	pool        *ants.Pool
	concurrency int
	logger      *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the window size and worker pool size for concurrent
// processing. Default is 5.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}

		p.pool = pool
		p.concurrency = size
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline writing through the given gateway.
func NewPipeline(writer *memory.Writer, opts ...Option) (*Pipeline, error) {
	if writer == nil {
		return nil, ErrWriterRequired
	}

	pool, err := ants.NewPool(defaultConcurrency)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		writer:      writer,
		pool:        pool,
		concurrency: defaultConcurrency,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Ingest writes the candidates through the gateway in fixed concurrent
// windows. Per-candidate failures are logged and tallied, never fatal.
func (p *Pipeline) Ingest(ctx context.Context, candidates []*core.CandidateChunk) (*Stats, error) {
	logger := p.logger.With("batch", uuid.NewString())
	logger.Info("ingesting candidates", "count", len(candidates), "window", p.concurrency)

	var (
		mu    sync.Mutex
		stats Stats
	)

	for start := 0; start < len(candidates); start += p.concurrency {
		end := min(start+p.concurrency, len(candidates))

		var wg sync.WaitGroup
		for _, candidate := range candidates[start:end] {
			wg.Add(1)
			err := p.pool.Submit(func() {
				defer wg.Done()
				p.ingestOne(ctx, candidate, &mu, &stats, logger)
			})
			if err != nil {
				wg.Done()
				logger.Warn("failed to submit candidate", "uri", candidate.URI, "err", err)
				mu.Lock()
				stats.Failed++
				mu.Unlock()
			}
		}
		wg.Wait()

		logger.Debug("window settled", "processed", end, "total", len(candidates))
	}

	logger.Info("ingestion complete",
		"inserted", stats.Inserted,
		"skipped", stats.Skipped,
		"failed", stats.Failed,
		"tokens", stats.Tokens)

	return &stats, nil
}

func (p *Pipeline) ingestOne(ctx context.Context, candidate *core.CandidateChunk, mu *sync.Mutex, stats *Stats, logger *slog.Logger) {
	result, err := p.writer.Write(ctx, memory.WriteRequest{
		Kind:    memory.KindChunk,
		Project: candidate.Project,
		Source:  candidate.Source,
		URI:     candidate.URI,
		Title:   candidate.Title,
		Content: candidate.Content,
	})

	mu.Lock()
	defer mu.Unlock()

	if err != nil {
		logger.Warn("failed to ingest candidate", "uri", candidate.URI, "err", err)
		stats.Failed++
		return
	}

	if result.Skipped {
		stats.Skipped++
		return
	}

	stats.Inserted++
	stats.Tokens += memory.EstimateTokens(candidate.Content)
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
