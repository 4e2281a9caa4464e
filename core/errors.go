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

import "errors"

// Error taxonomy
var (
	// ErrValidation indicates a missing or malformed required field.
	// These errors are the caller's fault and are never retried.
	ErrValidation = errors.New("validation failed")

	// ErrProvider indicates an embedding or language-model call failed.
	// Surfaced to the caller; the core does not retry automatically.
	ErrProvider = errors.New("provider call failed")
)

// Field-level validation errors
var (
	// ErrEmptyContent indicates the Content field is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrEmptySource indicates the Source field is empty.
	ErrEmptySource = errors.New("source cannot be empty")

	// ErrEmptyURI indicates the URI field is empty.
	ErrEmptyURI = errors.New("uri cannot be empty")

	// ErrEmptyKind indicates a fact Kind field is empty.
	ErrEmptyKind = errors.New("fact kind cannot be empty")

	// ErrEmptyKey indicates a fact Key field is empty.
	ErrEmptyKey = errors.New("fact key cannot be empty")

	// ErrEmptyValue indicates a fact Value field is empty.
	ErrEmptyValue = errors.New("fact value cannot be empty")

	// ErrEmptySummary indicates a journal Summary field is empty.
	ErrEmptySummary = errors.New("journal summary cannot be empty")

	// ErrEmptyVector indicates a chunk is missing its embedding.
	ErrEmptyVector = errors.New("embedding vector cannot be empty")
)
