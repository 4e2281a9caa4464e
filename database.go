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

package recall

import (
	"log/slog"

	"github.com/poiesic/recall/ai"
	"github.com/poiesic/recall/ai/openai"
	"github.com/poiesic/recall/answer"
	"github.com/poiesic/recall/ingestion"
	"github.com/poiesic/recall/memory"
	"github.com/poiesic/recall/search"
	"github.com/poiesic/recall/storage"
	"github.com/poiesic/recall/storage/badger"
)

// Database bundles the storage backend, repositories, and AI provider into
// one handle and vends the higher-level components built on them.
type Database struct {
	backend     *badger.Backend
	chunkRepo   storage.ChunkRepository
	factRepo    storage.FactRepository
	journalRepo storage.JournalRepository
	provider    ai.AIProvider
	logger      *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig *ai.Config
	provider ai.AIProvider
}

// WithAIConfig sets the AI provider configuration.
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.aiConfig = config
	}
}

// WithAIProvider injects a pre-built provider instead of constructing one
// from configuration. The Database takes ownership and closes it.
func WithAIProvider(provider ai.AIProvider) DatabaseOption {
	return func(o *databaseOptions) {
		o.provider = provider
	}
}

func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	// Apply options
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(), // Default if not provided
	}
	for _, opt := range opts {
		opt(options)
	}

	// Open backend
	backend, err := badger.OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}

	// Create chunk repository
	chunkRepo, err := badger.NewChunkRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	// Create fact repository
	factRepo, err := badger.NewFactRepository(backend)
	if err != nil {
		chunkRepo.Close()
		backend.Close()
		return nil, err
	}

	// Create journal repository
	journalRepo, err := badger.NewJournalRepository(backend)
	if err != nil {
		factRepo.Close()
		chunkRepo.Close()
		backend.Close()
		return nil, err
	}

	// Create AI provider with configured settings
	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			journalRepo.Close()
			factRepo.Close()
			chunkRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	return &Database{
		backend:     backend,
		chunkRepo:   chunkRepo,
		factRepo:    factRepo,
		journalRepo: journalRepo,
		provider:    provider,
		logger:      slog.Default(),
	}, nil
}

func (db *Database) Close() error {
	// Close AI provider first
	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing AI provider", "err", err)
	}

	// Close repositories
	if err := db.journalRepo.Close(); err != nil {
		db.logger.Error("error closing journal repository", "err", err)
		return err
	}
	if err := db.factRepo.Close(); err != nil {
		db.logger.Error("error closing fact repository", "err", err)
		return err
	}
	if err := db.chunkRepo.Close(); err != nil {
		db.logger.Error("error closing chunk repository", "err", err)
		return err
	}

	// Close backend
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) ChunkRepository() storage.ChunkRepository {
	return db.chunkRepo
}

func (db *Database) FactRepository() storage.FactRepository {
	return db.factRepo
}

func (db *Database) JournalRepository() storage.JournalRepository {
	return db.journalRepo
}

func (db *Database) NewWriter(opts ...memory.Option) (*memory.Writer, error) {
	return memory.NewWriter(db.chunkRepo, db.factRepo, db.journalRepo, db.provider.Embedder(), opts...)
}

func (db *Database) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	writer, err := db.NewWriter()
	if err != nil {
		return nil, err
	}
	return ingestion.NewPipeline(writer, opts...)
}

func (db *Database) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(db.chunkRepo, db.provider, opts...)
}

func (db *Database) NewOrchestrator(opts ...answer.Option) (*answer.Orchestrator, error) {
	searcher, err := db.NewSearcher()
	if err != nil {
		return nil, err
	}
	return answer.NewOrchestrator(searcher, db.factRepo, db.provider, opts...)
}
