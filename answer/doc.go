// Package answer orchestrates retrieval-augmented question answering.
//
// One Ask turn retrieves the top matching memory chunks, gathers the
// project's facts, assembles them into a fixed prompt template, makes a
// single model call, and parses citations and suggested memory writes out
// of the response. The orchestrator holds no conversation state between
// turns.
package answer
