// Package adapters converts external content sources into candidate chunks.
//
// Each adapter reads one source format (a ChatGPT conversations.json export,
// a Joplin .jex archive, or a file/directory tree) and produces
// core.CandidateChunk values for the ingestion pipeline. Adapters own all
// format knowledge: URIs, titles, and chunking policy per source. Nothing
// downstream of the pipeline knows where a chunk came from beyond its
// source label and URI scheme.
package adapters
