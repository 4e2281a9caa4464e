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


// Package search provides semantic retrieval over stored memory chunks.
//
// The Searcher type embeds a query and performs a single ranked pass over
// the vector store. Results are ordered by cosine similarity, with ties
// broken by insertion recency, and truncated to the requested limit.
// Project and since filters are applied before ranking.
package search
