package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// CandidateChunk is a unit of content produced by a format adapter and fed
// into the ingestion pipeline. It carries no embedding; the write gateway
// decides whether it becomes a persisted MemoryChunk.
type CandidateChunk struct {
	Project string
	Source  string
	URI     string
	Title   string
	Content string
}

// MemoryChunk is a persisted, embedded unit of content. The URI is the
// natural key: two chunks with the same URI are the same logical content and
// only one may be persisted. Chunks are immutable once written.
type MemoryChunk struct {
	Id        ID
	Project   string
	Source    string
	URI       string
	Title     string
	Content   string
	Tokens    int
	Vector    []float32 // Embedding for Content (never Title), populated before insert
	CreatedAt time.Time
}

// Fact is a small structured claim (deadline, decision, goal).
// It is uniquely identified by its (Project, Kind, Key) tuple; writes with
// the same tuple replace Value and refresh UpdatedAt.
type Fact struct {
	Id        ID
	Project   string
	Kind      string
	Key       string
	Value     string
	UpdatedAt time.Time
}

// Tuple returns a string representation of the fact identity as
// "(Project,Kind,Key)". This is used for generating deterministic IDs.
func (f *Fact) Tuple() string {
	return "(" + f.Project + "," + f.Kind + "," + f.Key + ")"
}

// ChunkMatch is a chunk returned from a vector similarity search, together
// with its cosine similarity to the query. Similarity is usually in [0,1]
// but can be negative for antipodal vectors; callers must not assume
// non-negativity. Transient, never persisted.
type ChunkMatch struct {
	Chunk      *MemoryChunk
	Similarity float32
}

// JournalEntry is an append-only note. No identity collapsing is performed.
type JournalEntry struct {
	Id        ID
	Project   string
	Summary   string
	Details   string
	Tags      []string
	CreatedAt time.Time
}
