package ingestion

import "errors"

var (
	// ErrWriterRequired is returned when a memory writer is not provided.
	ErrWriterRequired = errors.New("memory writer required")
)
