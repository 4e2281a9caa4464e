// Package memory provides the write gateway for persisting memories.
//
// The Writer type is the single entry point for writes of all three memory
// kinds: chunks (deduplicated by URI, embedded on insert), facts (atomic
// upsert keyed by project/kind/key), and journal entries (append-only).
// Adapters, the ingestion pipeline, the HTTP API, and the CLI all write
// through it so dedup and validation rules apply uniformly.
package memory
