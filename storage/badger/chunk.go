package badger

import (
	"bytes"
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/storage"
)

// ChunkRepository implements storage.ChunkRepository for BadgerDB.
type ChunkRepository struct {
	backend *Backend
}

var _ storage.ChunkRepository = (*ChunkRepository)(nil)

// NewChunkRepository creates a new ChunkRepository.
func NewChunkRepository(backend *Backend) (*ChunkRepository, error) {
	return &ChunkRepository{
		backend: backend,
	}, nil
}

// Close releases resources. ChunkRepository has no resources to release.
func (r *ChunkRepository) Close() error {
	return nil
}

// AddChunk persists a chunk unless a chunk with the same URI already exists.
// The URI check and the insert happen in the same transaction, so two
// concurrent writers racing on one URI cannot both insert.
func (r *ChunkRepository) AddChunk(ctx context.Context, chunk *core.MemoryChunk) (*core.MemoryChunk, bool, error) {
	if err := core.ValidateMemoryChunk(chunk); err != nil {
		return nil, false, err
	}

	var (
		stored   *core.MemoryChunk
		inserted bool
	)

	err := r.backend.WithConflictRetry(func(tx *badger.Txn) error {
		stored = nil
		inserted = false

		// Existence check by natural key
		existing, err := r.readChunkByURI(tx, chunk.URI)
		if err != nil {
			return err
		}
		if existing != nil {
			stored = existing
			return nil
		}

		chunk.Id = core.IDFromContent(chunk.URI)
		if chunk.CreatedAt.IsZero() {
			chunk.CreatedAt = time.Now().UTC()
		}

		key := makeChunkKey(chunk.Id)
		if err := tx.Set(key, storage.MarshalChunk(chunk)); err != nil {
			return err
		}

		uriKey := makeChunkURIKey(chunk.URI)
		if err := tx.Set(uriKey, storage.MarshalID(chunk.Id)); err != nil {
			return err
		}

		stored = chunk
		inserted = true
		return tx.Commit()
	})

	return stored, inserted, err
}

// GetChunk retrieves a single chunk by ID.
func (r *ChunkRepository) GetChunk(ctx context.Context, id core.ID) (*core.MemoryChunk, error) {
	var result *core.MemoryChunk
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readChunk(tx, makeChunkKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetChunkByURI retrieves a chunk by its natural key.
func (r *ChunkRepository) GetChunkByURI(ctx context.Context, uri string) (*core.MemoryChunk, error) {
	var result *core.MemoryChunk
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = r.readChunkByURI(tx, uri)
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// SearchChunks delegates to the backend.
func (r *ChunkRepository) SearchChunks(ctx context.Context, vector []float32, filter storage.ChunkFilter, limit int) ([]*core.ChunkMatch, error) {
	return r.backend.SearchChunks(ctx, vector, filter, limit)
}

// CountChunks returns the number of persisted chunks.
func (r *ChunkRepository) CountChunks(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(chunkPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if bytes.HasPrefix(iter.Item().Key(), []byte(chunkURIPrefix)) {
				continue
			}
			count++
		}
		return nil
	}, false)
	return count, err
}

// Helper methods

// readChunkByURI resolves the URI index and reads the chunk, or nil if absent.
func (r *ChunkRepository) readChunkByURI(tx *badger.Txn, uri string) (*core.MemoryChunk, error) {
	item, err := tx.Get(makeChunkURIKey(uri))
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var id core.ID
	if err := item.Value(func(val []byte) error {
		var err error
		id, err = storage.UnmarshalID(val)
		return err
	}); err != nil {
		return nil, err
	}

	return readChunk(tx, makeChunkKey(id))
}

// readChunk reads a chunk from the transaction, or nil if absent.
func readChunk(tx *badger.Txn, key []byte) (*core.MemoryChunk, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var chunk *core.MemoryChunk
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		chunk, unmarshalErr = storage.UnmarshalChunk(val)
		return unmarshalErr
	})
	return chunk, err
}
