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


package storage

import (
	"github.com/poiesic/recall/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := core.IDMUS.Unmarshal(data)
	return id, err
}

// MarshalChunk serializes a MemoryChunk to bytes.
func MarshalChunk(chunk *core.MemoryChunk) []byte {
	buf := make([]byte, core.MemoryChunkMUS.Size(*chunk))
	core.MemoryChunkMUS.Marshal(*chunk, buf)
	return buf
}

// UnmarshalChunk deserializes a MemoryChunk from bytes.
func UnmarshalChunk(data []byte) (*core.MemoryChunk, error) {
	chunk, _, err := core.MemoryChunkMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &chunk, nil
}

// MarshalFact serializes a Fact to bytes.
func MarshalFact(fact *core.Fact) []byte {
	buf := make([]byte, core.FactMUS.Size(*fact))
	core.FactMUS.Marshal(*fact, buf)
	return buf
}

// UnmarshalFact deserializes a Fact from bytes.
func UnmarshalFact(data []byte) (*core.Fact, error) {
	fact, _, err := core.FactMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &fact, nil
}

// MarshalJournalEntry serializes a JournalEntry to bytes.
func MarshalJournalEntry(entry *core.JournalEntry) []byte {
	buf := make([]byte, core.JournalEntryMUS.Size(*entry))
	core.JournalEntryMUS.Marshal(*entry, buf)
	return buf
}

// UnmarshalJournalEntry deserializes a JournalEntry from bytes.
func UnmarshalJournalEntry(data []byte) (*core.JournalEntry, error) {
	entry, _, err := core.JournalEntryMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
