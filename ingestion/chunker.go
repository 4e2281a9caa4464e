package ingestion

import "strings"

// DefaultChunkSize is the default maximum chunk length in characters.
const DefaultChunkSize = 1000

// SplitText splits text into paragraph-aligned chunks of roughly maxSize
// characters. Paragraphs are never split: a single paragraph longer than
// maxSize is emitted as its own chunk. Chunks are trimmed and never empty.
func SplitText(text string, maxSize int) []string {
	if maxSize < 1 {
		maxSize = DefaultChunkSize
	}

	var chunks []string
	var current string

	flush := func() {
		if trimmed := strings.TrimSpace(current); trimmed != "" {
			chunks = append(chunks, trimmed)
		}
		current = ""
	}

	for _, paragraph := range strings.Split(text, "\n\n") {
		if len(current)+len(paragraph) > maxSize && len(current) > 0 {
			flush()
		}
		current += paragraph + "\n\n"
	}
	flush()

	return chunks
}
