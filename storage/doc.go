// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package storage provides the storage abstraction layer for recall.
//
// This package defines repository interfaces that decouple storage
// implementation from business logic, plus the binary serialization used by
// the backends. It allows different storage backends (BadgerDB, in-memory,
// etc.) to be used interchangeably.
//
// # Architecture
//
// The storage layer follows the Repository pattern:
//
//   - ChunkRepository: memory chunks, keyed by content-hashed URI,
//     insert-if-absent semantics and vector similarity search
//   - FactRepository: structured facts with atomic (project, kind, key)
//     upserts
//   - JournalRepository: append-only journal entries with sequence IDs
//
// # Write semantics
//
// Each repository carries the write discipline of its entity: chunks are
// immutable once written (re-adding a URI is a skip, not a merge), facts are
// last-write-wins upserts, and journal entries are pure appends.
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support concurrent
// access from multiple goroutines. Conflict resolution for concurrent fact
// upserts is delegated to the backend's transaction machinery.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation and timeout
// support. Pass context.Background() for operations without specific timeout
// requirements.
package storage
