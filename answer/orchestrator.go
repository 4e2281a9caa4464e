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


package answer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/recall/ai"
	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/search"
	"github.com/poiesic/recall/storage"
)

// askTopK is the number of memory chunks retrieved per question.
const askTopK = 5

// excerptChars caps the chunk content included in the model context.
const excerptChars = 500

// AskOptions holds optional parameters for Ask.
type AskOptions struct {
	// Project restricts retrieval and fact lookup to one project.
	// Empty searches everything.
	Project string
}

// Citation points at a retrieved chunk that grounded the answer.
// Citations map one-to-one onto the retrieval results, in rank order.
type Citation struct {
	Id         core.ID
	Title      string
	URI        string
	Similarity float32
	Source     string
}

// Response is the result of one Ask turn.
type Response struct {
	Answer            string
	Citations         []Citation
	Suggestions       []Suggestion
	MemoriesRetrieved int
	FactsRetrieved    int
}

// Orchestrator runs the retrieval-augmented answer flow: retrieve chunks,
// gather facts, assemble context, call the model once, and parse the result.
type Orchestrator struct {
	searcher  *search.Searcher
	facts     storage.FactRepository
	completer ai.Completer
	logger    *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

// NewOrchestrator creates a new answer orchestrator.
func NewOrchestrator(
	searcher *search.Searcher,
	facts storage.FactRepository,
	provider ai.AIProvider,
	opts ...Option,
) (*Orchestrator, error) {
	if searcher == nil {
		return nil, ErrSearcherRequired
	}
	if facts == nil {
		return nil, ErrFactRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	o := &Orchestrator{
		searcher:  searcher,
		facts:     facts,
		completer: provider.Completer(),
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	return o, nil
}

// Ask answers a question grounded in stored memories. Any failure in
// retrieval, fact lookup, or the model call aborts with that error.
func (o *Orchestrator) Ask(ctx context.Context, message string, opts AskOptions) (*Response, error) {
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("%w: message is required", core.ErrValidation)
	}

	o.logger.Debug("retrieving memories", "project", opts.Project)
	matches, err := o.searcher.Search(ctx, message, search.Query{
		Project: opts.Project,
		TopK:    askTopK,
	})
	if err != nil {
		return nil, err
	}

	o.logger.Debug("fetching facts", "project", opts.Project)
	facts, err := o.facts.GetFacts(ctx, opts.Project)
	if err != nil {
		return nil, err
	}

	contextBlock := buildContext(matches, facts)
	prompt := renderCitationPrompt(contextBlock, message)

	o.logger.Debug("generating answer", "memories", len(matches), "facts", len(facts))
	answerText, err := o.completer.Complete(ctx, systemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	citations := make([]Citation, len(matches))
	for i, match := range matches {
		citations[i] = Citation{
			Id:         match.Chunk.Id,
			Title:      match.Chunk.Title,
			URI:        match.Chunk.URI,
			Similarity: match.Similarity,
			Source:     match.Chunk.Source,
		}
	}

	return &Response{
		Answer:            answerText,
		Citations:         citations,
		Suggestions:       ParseSuggestions(answerText),
		MemoriesRetrieved: len(matches),
		FactsRetrieved:    len(facts),
	}, nil
}

// buildContext renders retrieved chunks and facts into the prompt context
// block. Sections without content are omitted entirely.
func buildContext(matches []*core.ChunkMatch, facts []*core.Fact) string {
	var parts []string

	if len(matches) > 0 {
		parts = append(parts, "## Memory Chunks\n")
		for i, match := range matches {
			parts = append(parts, fmt.Sprintf("[%d] %s (similarity: %.4f)", i+1, match.Chunk.Title, match.Similarity))
			parts = append(parts, "URI: "+match.Chunk.URI)
			parts = append(parts, "Content: "+excerpt(match.Chunk.Content)+"\n")
		}
	}

	if len(facts) > 0 {
		parts = append(parts, "\n## Facts\n")
		for _, fact := range facts {
			parts = append(parts, fmt.Sprintf("• %s: %s = %s", fact.Kind, fact.Key, fact.Value))
		}
	}

	return strings.Join(parts, "\n")
}

func excerpt(content string) string {
	runes := []rune(content)
	if len(runes) > excerptChars {
		runes = runes[:excerptChars]
	}
	return string(runes) + "..."
}
