package storage

import (
	"context"
	"time"

	"github.com/poiesic/recall/core"
)

// ChunkFilter restricts a chunk search to a subset of the store.
// The zero value matches everything.
type ChunkFilter struct {
	// Project filters by exact project match when non-empty.
	Project string

	// Since filters by CreatedAt >= Since (inclusive) when non-zero.
	Since time.Time
}

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// Close closes the repository and releases resources.
	Close() error
}

// ChunkRepository provides operations for managing memory chunks.
type ChunkRepository interface {
	Repository

	// AddChunk persists a chunk unless a chunk with the same URI already exists.
	// The existence check and the insert happen in one transaction.
	// Returns the stored chunk and true when inserted, or the pre-existing
	// chunk and false when the URI was already taken.
	// The chunk must pass core.ValidateMemoryChunk; CreatedAt is set on insert.
	AddChunk(ctx context.Context, chunk *core.MemoryChunk) (*core.MemoryChunk, bool, error)

	// GetChunk retrieves a single chunk by ID.
	// Returns ErrNotFound if the chunk doesn't exist.
	GetChunk(ctx context.Context, id core.ID) (*core.MemoryChunk, error)

	// GetChunkByURI retrieves a chunk by its natural key.
	// Returns ErrNotFound if no chunk with the URI exists.
	GetChunkByURI(ctx context.Context, uri string) (*core.MemoryChunk, error)

	// SearchChunks finds the chunks nearest to the given vector.
	// Results honor the filter, are ordered by similarity descending with
	// ties broken by insertion recency (newest first), and are truncated to
	// limit. An empty store or an all-filtered result is not an error.
	SearchChunks(ctx context.Context, vector []float32, filter ChunkFilter, limit int) ([]*core.ChunkMatch, error)

	// CountChunks returns the number of persisted chunks.
	CountChunks(ctx context.Context) (int, error)
}

// FactRepository provides operations for managing structured facts.
type FactRepository interface {
	Repository

	// UpsertFact inserts or replaces the fact identified by its
	// (Project, Kind, Key) tuple. The operation is atomic and safe under
	// concurrent writers targeting the same tuple; the last committed write
	// wins. Id and UpdatedAt are populated on return.
	UpsertFact(ctx context.Context, fact *core.Fact) (*core.Fact, error)

	// GetFact retrieves the fact for a (project, kind, key) tuple.
	// Returns ErrNotFound if no such fact exists.
	GetFact(ctx context.Context, project, kind, key string) (*core.Fact, error)

	// GetFacts retrieves facts, ordered by UpdatedAt descending.
	// An empty project matches all projects.
	GetFacts(ctx context.Context, project string) ([]*core.Fact, error)
}

// JournalRepository provides operations for managing journal entries.
type JournalRepository interface {
	Repository

	// AddEntries appends one or more journal entries. IDs come from a
	// sequence and CreatedAt is set if zero; entries are never collapsed.
	// Returns the entries with IDs and timestamps populated.
	AddEntries(ctx context.Context, entries ...*core.JournalEntry) ([]*core.JournalEntry, error)

	// GetRecentEntries retrieves up to limit entries, most recent first.
	// An empty project matches all projects.
	GetRecentEntries(ctx context.Context, project string, limit int) ([]*core.JournalEntry, error)
}
