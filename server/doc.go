// Package server exposes the memory system over a small JSON HTTP API:
// asking questions, writing memories, ingesting sources, searching, and
// listing facts. Identifiers are rendered as decimal strings in responses.
package server
