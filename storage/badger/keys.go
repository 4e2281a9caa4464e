package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/recall/core"
)

// Key prefixes for different data types
const (
	chunkPrefix      = "memchk"
	chunkURIPrefix   = "memchku"
	factPrefix       = "facrec"
	factProjPrefix   = "facprj"
	journalPrefix    = "jourec"
	journalDatePrefix = "joured"
	journalIDSeq     = "jourecseq"
)

// makeChunkKey generates a key for a memory chunk by ID.
func makeChunkKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", chunkPrefix, id))
}

// makeChunkURIKey generates a key for the URI index.
// Format: prefix:uri
func makeChunkURIKey(uri string) []byte {
	return []byte(chunkURIPrefix + ":" + uri)
}

// makeFactKey generates a key for a fact by ID.
func makeFactKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", factPrefix, id))
}

// makeFactProjectKey generates a composite key for the fact project index.
// Format: prefix:project:id
func makeFactProjectKey(project string, id core.ID) []byte {
	prefix := factProjPrefix + ":" + project + ":"
	prefixBytes := []byte(prefix)
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialFactProjectKey generates a partial key for project scans.
func makePartialFactProjectKey(project string) []byte {
	return []byte(factProjPrefix + ":" + project + ":")
}

// makeJournalKey generates a key for a journal entry by ID.
func makeJournalKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", journalPrefix, id))
}

// makeJournalDateKey generates a composite key for the journal recency index.
// Format: prefix:timestampMicros:id
func makeJournalDateKey(unixMicro int64, id core.ID) []byte {
	prefix := journalDatePrefix + ":"
	prefixBytes := []byte(prefix)
	buf := make([]byte, len(prefixBytes)+16)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(unixMicro))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialJournalDateKey generates a partial key for recency scans.
func makePartialJournalDateKey(unixMicro int64) []byte {
	prefix := journalDatePrefix + ":"
	prefixBytes := []byte(prefix)
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(unixMicro))
	return buf
}
