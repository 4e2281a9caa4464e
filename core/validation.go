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


package core

import (
	"fmt"
	"strings"
)

// ValidateCandidateChunk validates a CandidateChunk according to domain rules.
//
// Validation rules:
//   - Source must not be empty
//   - URI must not be empty
//   - Content must not be empty or blank
//
// NOT validated:
//   - Project (empty means "unscoped", which is allowed)
//   - Title (optional)
func ValidateCandidateChunk(candidate *CandidateChunk) error {
	if candidate == nil {
		return fmt.Errorf("%w: candidate is nil", ErrValidation)
	}

	if candidate.Source == "" {
		return fmt.Errorf("%w: %w", ErrValidation, ErrEmptySource)
	}

	if candidate.URI == "" {
		return fmt.Errorf("%w: %w", ErrValidation, ErrEmptyURI)
	}

	if strings.TrimSpace(candidate.Content) == "" {
		return fmt.Errorf("%w: %w", ErrValidation, ErrEmptyContent)
	}

	return nil
}

// ValidateMemoryChunk validates a MemoryChunk before persistence.
//
// Validation rules:
//   - all CandidateChunk rules
//   - Vector must be populated (a chunk is never persisted without its embedding)
func ValidateMemoryChunk(chunk *MemoryChunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrValidation)
	}

	candidate := CandidateChunk{
		Project: chunk.Project,
		Source:  chunk.Source,
		URI:     chunk.URI,
		Title:   chunk.Title,
		Content: chunk.Content,
	}
	if err := ValidateCandidateChunk(&candidate); err != nil {
		return err
	}

	if len(chunk.Vector) == 0 {
		return fmt.Errorf("%w: %w", ErrValidation, ErrEmptyVector)
	}

	return nil
}

// ValidateFact validates a Fact according to domain rules.
//
// Validation rules:
//   - Kind, Key and Value must not be empty
func ValidateFact(fact *Fact) error {
	if fact == nil {
		return fmt.Errorf("%w: fact is nil", ErrValidation)
	}

	if fact.Kind == "" {
		return fmt.Errorf("%w: %w", ErrValidation, ErrEmptyKind)
	}

	if fact.Key == "" {
		return fmt.Errorf("%w: %w", ErrValidation, ErrEmptyKey)
	}

	if fact.Value == "" {
		return fmt.Errorf("%w: %w", ErrValidation, ErrEmptyValue)
	}

	return nil
}

// ValidateJournalEntry validates a JournalEntry according to domain rules.
//
// Validation rules:
//   - Summary must not be empty
//
// NOT validated:
//   - Details and Tags (optional)
func ValidateJournalEntry(entry *JournalEntry) error {
	if entry == nil {
		return fmt.Errorf("%w: entry is nil", ErrValidation)
	}

	if strings.TrimSpace(entry.Summary) == "" {
		return fmt.Errorf("%w: %w", ErrValidation, ErrEmptySummary)
	}

	return nil
}
