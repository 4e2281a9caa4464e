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

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/poiesic/recall/adapters"
	"github.com/poiesic/recall/answer"
	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/memory"
	"github.com/poiesic/recall/search"
	"github.com/poiesic/recall/storage"
)

type askRequest struct {
	Message string `json:"message"`
	Project string `json:"project,omitempty"`
}

type citationPayload struct {
	Id         string  `json:"id"`
	Title      string  `json:"title"`
	URI        string  `json:"uri"`
	Similarity float32 `json:"similarity"`
	Source     string  `json:"source"`
}

type suggestionPayload struct {
	Type    string `json:"type"`
	Kind    string `json:"kind,omitempty"`
	Key     string `json:"key,omitempty"`
	Value   string `json:"value,omitempty"`
	Summary string `json:"summary,omitempty"`
}

type askResponse struct {
	Answer            string              `json:"answer"`
	Citations         []citationPayload   `json:"citations"`
	Suggestions       []suggestionPayload `json:"suggestions"`
	MemoriesRetrieved int                 `json:"memories_retrieved"`
	FactsRetrieved    int                 `json:"facts_retrieved"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, fmt.Errorf("%w: %w", core.ErrValidation, err))
		return
	}

	res, err := s.orchestrator.Ask(r.Context(), req.Message, answer.AskOptions{Project: req.Project})
	if err != nil {
		s.writeError(w, err)
		return
	}

	out := askResponse{
		Answer:            res.Answer,
		Citations:         make([]citationPayload, 0, len(res.Citations)),
		Suggestions:       make([]suggestionPayload, 0, len(res.Suggestions)),
		MemoriesRetrieved: res.MemoriesRetrieved,
		FactsRetrieved:    res.FactsRetrieved,
	}
	for _, c := range res.Citations {
		out.Citations = append(out.Citations, citationPayload{
			Id:         formatID(c.Id),
			Title:      c.Title,
			URI:        c.URI,
			Similarity: c.Similarity,
			Source:     c.Source,
		})
	}
	for _, sg := range res.Suggestions {
		out.Suggestions = append(out.Suggestions, suggestionPayload{
			Type:    sg.Type,
			Kind:    sg.Kind,
			Key:     sg.Key,
			Value:   sg.Value,
			Summary: sg.Summary,
		})
	}

	s.writeJSON(w, out)
}

type writeRequest struct {
	Kind     string   `json:"kind"`
	Project  string   `json:"project,omitempty"`
	Source   string   `json:"source,omitempty"`
	URI      string   `json:"uri,omitempty"`
	Title    string   `json:"title,omitempty"`
	Content  string   `json:"content,omitempty"`
	FactKind string   `json:"fact_kind,omitempty"`
	Key      string   `json:"key,omitempty"`
	Value    string   `json:"value,omitempty"`
	Summary  string   `json:"summary,omitempty"`
	Details  string   `json:"details,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

type writeResponse struct {
	Kind    string `json:"kind"`
	Id      string `json:"id"`
	Skipped bool   `json:"skipped"`
}

func (s *Server) handleWrite(w http.ResponseWriter, r *http.Request) {
	var req writeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, fmt.Errorf("%w: %w", core.ErrValidation, err))
		return
	}

	result, err := s.writer.Write(r.Context(), memory.WriteRequest{
		Kind:     req.Kind,
		Project:  req.Project,
		Source:   req.Source,
		URI:      req.URI,
		Title:    req.Title,
		Content:  req.Content,
		FactKind: req.FactKind,
		Key:      req.Key,
		Value:    req.Value,
		Summary:  req.Summary,
		Details:  req.Details,
		Tags:     req.Tags,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, writeResponse{
		Kind:    result.Kind,
		Id:      formatID(result.Id),
		Skipped: result.Skipped,
	})
}

type ingestRequest struct {
	Path    string `json:"path"`
	Source  string `json:"source"`
	Project string `json:"project,omitempty"`
}

type ingestResponse struct {
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
	Tokens   int `json:"tokens"`
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, fmt.Errorf("%w: %w", core.ErrValidation, err))
		return
	}

	var candidates []*core.CandidateChunk
	var err error
	switch req.Source {
	case "chatgpt":
		candidates, err = adapters.ChatGPTExport(req.Path, req.Project)
	case "joplin":
		candidates, err = adapters.JoplinExport(req.Path, req.Project)
	case "files":
		candidates, err = adapters.Files(req.Path, adapters.FilesOptions{Project: req.Project})
	case "repo":
		candidates, err = adapters.Files(req.Path, adapters.FilesOptions{Project: req.Project, Source: "repo"})
	default:
		s.writeError(w, fmt.Errorf("%w: unknown ingest source %q", core.ErrValidation, req.Source))
		return
	}
	if err != nil {
		s.writeError(w, err)
		return
	}

	stats, err := s.pipeline.Ingest(r.Context(), candidates)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, ingestResponse{
		Inserted: stats.Inserted,
		Skipped:  stats.Skipped,
		Failed:   stats.Failed,
		Tokens:   stats.Tokens,
	})
}

type matchPayload struct {
	Id         string    `json:"id"`
	Project    string    `json:"project"`
	Source     string    `json:"source"`
	URI        string    `json:"uri"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Similarity float32   `json:"similarity"`
	CreatedAt  time.Time `json:"created_at"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	topK := 0
	if raw := params.Get("top_k"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			s.writeError(w, fmt.Errorf("%w: invalid top_k %q", core.ErrValidation, raw))
			return
		}
		topK = v
	}

	var since time.Time
	if raw := params.Get("since"); raw != "" {
		v, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			s.writeError(w, fmt.Errorf("%w: invalid since %q", core.ErrValidation, raw))
			return
		}
		since = v
	}

	matches, err := s.searcher.Search(r.Context(), params.Get("q"), search.Query{
		Project: params.Get("project"),
		TopK:    topK,
		Since:   since,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	out := make([]matchPayload, 0, len(matches))
	for _, m := range matches {
		out = append(out, matchPayload{
			Id:         formatID(m.Chunk.Id),
			Project:    m.Chunk.Project,
			Source:     m.Chunk.Source,
			URI:        m.Chunk.URI,
			Title:      m.Chunk.Title,
			Content:    m.Chunk.Content,
			Similarity: m.Similarity,
			CreatedAt:  m.Chunk.CreatedAt,
		})
	}
	s.writeJSON(w, out)
}

type factPayload struct {
	Id        string    `json:"id"`
	Project   string    `json:"project"`
	Kind      string    `json:"kind"`
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Server) handleFacts(w http.ResponseWriter, r *http.Request) {
	facts, err := s.facts.GetFacts(r.Context(), r.URL.Query().Get("project"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	out := make([]factPayload, 0, len(facts))
	for _, f := range facts {
		out = append(out, factPayload{
			Id:        formatID(f.Id),
			Project:   f.Project,
			Kind:      f.Kind,
			Key:       f.Key,
			Value:     f.Value,
			UpdatedAt: f.UpdatedAt,
		})
	}
	s.writeJSON(w, out)
}

// formatID renders IDs as decimal strings; 64-bit values overflow the safe
// integer range of JSON consumers.
func formatID(id core.ID) string {
	return strconv.FormatUint(uint64(id), 10)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, core.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, core.ErrProvider):
		status = http.StatusBadGateway
	case errors.Is(err, storage.ErrNotFound):
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
