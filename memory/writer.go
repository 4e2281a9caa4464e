// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package memory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/recall/ai"
	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/storage"
)

// Write kinds accepted by the Writer.
const (
	KindChunk   = "chunk"
	KindFact    = "fact"
	KindJournal = "journal"
)

// WriteRequest describes a single write of a chunk, fact, or journal entry.
// Kind selects the payload; only the fields for that kind are consulted.
type WriteRequest struct {
	Kind    string
	Project string

	// Chunk fields
	Source  string
	URI     string
	Title   string
	Content string

	// Fact fields
	FactKind string
	Key      string
	Value    string

	// Journal fields
	Summary string
	Details string
	Tags    []string
}

// WriteResult reports the outcome of a write.
// Skipped is true when a chunk with the same URI already existed.
type WriteResult struct {
	Kind    string
	Id      core.ID
	Skipped bool
}

// Writer is the single gateway for persisting memories. It enforces URI
// dedup for chunks, upsert semantics for facts, and append-only semantics
// for journal entries.
type Writer struct {
	chunks   storage.ChunkRepository
	facts    storage.FactRepository
	journal  storage.JournalRepository
	embedder ai.Embedder
	logger   *slog.Logger
}

// Option configures a Writer.
type Option func(*Writer) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(w *Writer) error {
		if logger == nil {
			logger = slog.Default()
		}
		w.logger = logger
		return nil
	}
}

// NewWriter creates a new write gateway.
func NewWriter(
	chunks storage.ChunkRepository,
	facts storage.FactRepository,
	journal storage.JournalRepository,
	embedder ai.Embedder,
	opts ...Option,
) (*Writer, error) {
	if chunks == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if facts == nil {
		return nil, ErrFactRepositoryRequired
	}
	if journal == nil {
		return nil, ErrJournalRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	w := &Writer{
		chunks:   chunks,
		facts:    facts,
		journal:  journal,
		embedder: embedder,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(w); err != nil {
			return nil, err
		}
	}

	return w, nil
}

// Write dispatches the request by kind and persists it.
func (w *Writer) Write(ctx context.Context, req WriteRequest) (*WriteResult, error) {
	switch req.Kind {
	case KindChunk:
		return w.writeChunk(ctx, req)
	case KindFact:
		return w.writeFact(ctx, req)
	case KindJournal:
		return w.writeJournal(ctx, req)
	default:
		return nil, fmt.Errorf("%w: unknown write kind %q", core.ErrValidation, req.Kind)
	}
}

// writeChunk embeds and inserts a chunk unless its URI is already stored.
// The URI check runs before embedding so duplicates never cost a provider call.
func (w *Writer) writeChunk(ctx context.Context, req WriteRequest) (*WriteResult, error) {
	candidate := &core.CandidateChunk{
		Project: req.Project,
		Source:  req.Source,
		URI:     req.URI,
		Title:   req.Title,
		Content: req.Content,
	}
	if err := core.ValidateCandidateChunk(candidate); err != nil {
		return nil, err
	}

	existing, err := w.chunks.GetChunkByURI(ctx, req.URI)
	if err == nil {
		w.logger.Debug("skipping duplicate chunk", "uri", req.URI)
		return &WriteResult{Kind: KindChunk, Id: existing.Id, Skipped: true}, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	vector, err := w.embedder.EmbedText(ctx, req.Content)
	if err != nil {
		return nil, err
	}

	chunk := &core.MemoryChunk{
		Project: req.Project,
		Source:  req.Source,
		URI:     req.URI,
		Title:   req.Title,
		Content: req.Content,
		Tokens:  EstimateTokens(req.Content),
		Vector:  vector,
	}

	added, inserted, err := w.chunks.AddChunk(ctx, chunk)
	if err != nil {
		return nil, err
	}

	return &WriteResult{Kind: KindChunk, Id: added.Id, Skipped: !inserted}, nil
}

func (w *Writer) writeFact(ctx context.Context, req WriteRequest) (*WriteResult, error) {
	fact := &core.Fact{
		Project: req.Project,
		Kind:    req.FactKind,
		Key:     req.Key,
		Value:   req.Value,
	}

	saved, err := w.facts.UpsertFact(ctx, fact)
	if err != nil {
		return nil, err
	}

	return &WriteResult{Kind: KindFact, Id: saved.Id}, nil
}

func (w *Writer) writeJournal(ctx context.Context, req WriteRequest) (*WriteResult, error) {
	entry := &core.JournalEntry{
		Project: req.Project,
		Summary: req.Summary,
		Details: req.Details,
		Tags:    req.Tags,
	}

	added, err := w.journal.AddEntries(ctx, entry)
	if err != nil {
		return nil, err
	}

	return &WriteResult{Kind: KindJournal, Id: added[0].Id}, nil
}
