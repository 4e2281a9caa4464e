// Package ingestion provides text chunking and batch ingestion of candidate chunks.
//
// SplitText breaks adapter output into paragraph-aligned chunks. The Pipeline
// type writes candidates through the memory gateway in fixed concurrent
// windows, tallying inserted, skipped, and failed records along with an
// aggregate token count for inserted content. Per-record failures are logged
// but never abort the batch.
package ingestion
