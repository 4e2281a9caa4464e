package memory

import "errors"

var (
	// ErrChunkRepositoryRequired is returned when a chunk repository is not provided.
	ErrChunkRepositoryRequired = errors.New("chunk repository required")

	// ErrFactRepositoryRequired is returned when a fact repository is not provided.
	ErrFactRepositoryRequired = errors.New("fact repository required")

	// ErrJournalRepositoryRequired is returned when a journal repository is not provided.
	ErrJournalRepositoryRequired = errors.New("journal repository required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")
)
