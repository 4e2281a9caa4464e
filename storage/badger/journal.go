package badger

import (
	"bytes"
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/storage"
)

// JournalRepository implements storage.JournalRepository for BadgerDB.
type JournalRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.JournalRepository = (*JournalRepository)(nil)

// NewJournalRepository creates a new JournalRepository.
func NewJournalRepository(backend *Backend) (*JournalRepository, error) {
	idSeq, err := backend.GetSequence(journalIDSeq)
	if err != nil {
		return nil, err
	}

	return &JournalRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *JournalRepository) Close() error {
	return r.idSeq.Release()
}

// AddEntries appends one or more journal entries. Append-only: entries are
// never deduplicated or merged.
func (r *JournalRepository) AddEntries(ctx context.Context, entries ...*core.JournalEntry) ([]*core.JournalEntry, error) {
	for _, entry := range entries {
		if err := core.ValidateJournalEntry(entry); err != nil {
			return nil, err
		}
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, entry := range entries {
			nextID, err := r.idSeq.Next()
			if err != nil {
				return err
			}
			// BadgerDB sequences can return 0 on first call, so we skip it
			if nextID == 0 {
				nextID, err = r.idSeq.Next()
				if err != nil {
					return err
				}
			}
			entry.Id = core.ID(nextID)

			if entry.CreatedAt.IsZero() {
				entry.CreatedAt = time.Now().UTC()
			}

			key := makeJournalKey(entry.Id)
			if err := tx.Set(key, storage.MarshalJournalEntry(entry)); err != nil {
				return err
			}

			dateKey := makeJournalDateKey(entry.CreatedAt.UnixMicro(), entry.Id)
			if err := tx.Set(dateKey, storage.MarshalID(entry.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return entries, err
}

// GetRecentEntries retrieves up to limit entries, most recent first.
// An empty project matches all projects.
func (r *JournalRepository) GetRecentEntries(ctx context.Context, project string, limit int) ([]*core.JournalEntry, error) {
	var results []*core.JournalEntry

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		// Use reverse iteration over the recency index
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true

		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Seek to the last possible key in the recency index
		startKey := makePartialJournalDateKey(time.Date(9999, 12, 31, 23, 59, 59, 999999999, time.UTC).UnixMicro())
		prefix := []byte(journalDatePrefix + ":")

		for iter.Seek(startKey); iter.Valid() && len(results) < limit; iter.Next() {
			key := iter.Item().Key()
			if !bytes.HasPrefix(key, prefix) {
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

			entry, err := readJournalEntry(tx, makeJournalKey(id))
			if err != nil {
				return err
			}
			if entry == nil {
				continue
			}
			if project != "" && entry.Project != project {
				continue
			}
			results = append(results, entry)
		}
		return nil
	}, false)

	return results, err
}

// readJournalEntry reads a journal entry from the transaction, or nil if absent.
func readJournalEntry(tx *badger.Txn, key []byte) (*core.JournalEntry, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var entry *core.JournalEntry
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		entry, unmarshalErr = storage.UnmarshalJournalEntry(val)
		return unmarshalErr
	})
	return entry, err
}
