package badger

import (
	"bytes"
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/storage"
)

// FactRepository implements storage.FactRepository for BadgerDB.
type FactRepository struct {
	backend *Backend
}

var _ storage.FactRepository = (*FactRepository)(nil)

// NewFactRepository creates a new FactRepository.
func NewFactRepository(backend *Backend) (*FactRepository, error) {
	return &FactRepository{
		backend: backend,
	}, nil
}

// Close releases resources. FactRepository has no resources to release.
func (r *FactRepository) Close() error {
	return nil
}

// UpsertFact inserts or replaces the fact for its (Project, Kind, Key) tuple.
// The tuple hashes to the fact's ID, so concurrent writers on the same tuple
// contend on one key; BadgerDB's transaction conflict detection (plus a
// bounded retry) makes the last committed write win without a partial state.
func (r *FactRepository) UpsertFact(ctx context.Context, fact *core.Fact) (*core.Fact, error) {
	if err := core.ValidateFact(fact); err != nil {
		return nil, err
	}

	fact.Id = core.IDFromContent(fact.Tuple())
	fact.UpdatedAt = time.Now().UTC()

	err := r.backend.WithConflictRetry(func(tx *badger.Txn) error {
		key := makeFactKey(fact.Id)
		if err := tx.Set(key, storage.MarshalFact(fact)); err != nil {
			return err
		}

		// Project index entry is stable across upserts of the same tuple.
		projKey := makeFactProjectKey(fact.Project, fact.Id)
		if err := tx.Set(projKey, storage.MarshalID(fact.Id)); err != nil {
			return err
		}

		return tx.Commit()
	})

	return fact, err
}

// GetFact retrieves the fact for a (project, kind, key) tuple.
func (r *FactRepository) GetFact(ctx context.Context, project, kind, key string) (*core.Fact, error) {
	id := core.IDFromContent((&core.Fact{Project: project, Kind: kind, Key: key}).Tuple())

	var result *core.Fact
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readFact(tx, makeFactKey(id))
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

// GetFacts retrieves facts ordered by UpdatedAt descending.
// An empty project matches all projects.
func (r *FactRepository) GetFacts(ctx context.Context, project string) ([]*core.Fact, error) {
	var results []*core.Fact

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		if project == "" {
			return r.scanAllFacts(tx, &results)
		}
		return r.scanProjectFacts(tx, project, &results)
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(results, func(a, b *core.Fact) int {
		if a.UpdatedAt.After(b.UpdatedAt) {
			return -1
		}
		if a.UpdatedAt.Before(b.UpdatedAt) {
			return 1
		}
		return 0
	})

	return results, nil
}

// scanAllFacts iterates the primary fact records.
func (r *FactRepository) scanAllFacts(tx *badger.Txn, results *[]*core.Fact) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(factPrefix)
	iter := tx.NewIterator(opts)
	defer iter.Close()

	for iter.Rewind(); iter.Valid(); iter.Next() {
		item := iter.Item()

		var fact *core.Fact
		if err := item.Value(func(val []byte) error {
			var err error
			fact, err = storage.UnmarshalFact(val)
			return err
		}); err != nil {
			return err
		}
		if fact != nil {
			*results = append(*results, fact)
		}
	}
	return nil
}

// scanProjectFacts walks the project index and resolves each fact.
func (r *FactRepository) scanProjectFacts(tx *badger.Txn, project string, results *[]*core.Fact) error {
	startKey := makePartialFactProjectKey(project)
	iter := tx.NewIterator(badger.DefaultIteratorOptions)
	defer iter.Close()

	for iter.Seek(startKey); iter.Valid(); iter.Next() {
		key := iter.Item().Key()
		if !bytes.HasPrefix(key, startKey) {
			break
		}

		var id core.ID
		if err := iter.Item().Value(func(val []byte) error {
			var err error
			id, err = storage.UnmarshalID(val)
			return err
		}); err != nil {
			return err
		}

		fact, err := readFact(tx, makeFactKey(id))
		if err != nil {
			return err
		}
		if fact != nil {
			*results = append(*results, fact)
		}
	}
	return nil
}

// readFact reads a fact from the transaction, or nil if absent.
func readFact(tx *badger.Txn, key []byte) (*core.Fact, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var fact *core.Fact
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		fact, unmarshalErr = storage.UnmarshalFact(val)
		return unmarshalErr
	})
	return fact, err
}
