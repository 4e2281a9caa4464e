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
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/poiesic/recall"
	"github.com/poiesic/recall/answer"
	"github.com/poiesic/recall/ingestion"
	"github.com/poiesic/recall/memory"
	"github.com/poiesic/recall/search"
	"github.com/poiesic/recall/storage"
)

// Server exposes the memory components over HTTP.
type Server struct {
	writer       *memory.Writer
	pipeline     *ingestion.Pipeline
	searcher     *search.Searcher
	orchestrator *answer.Orchestrator
	facts        storage.FactRepository
	logger       *slog.Logger
	router       chi.Router
}

// Option configures a Server.
type Option func(*Server) error

// WithLogger sets the logger used for request handling.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		if logger == nil {
			return ErrLoggerRequired
		}
		s.logger = logger
		return nil
	}
}

// NewServer builds a Server on top of an opened database.
func NewServer(db *recall.Database, opts ...Option) (*Server, error) {
	if db == nil {
		return nil, ErrDatabaseRequired
	}

	writer, err := db.NewWriter()
	if err != nil {
		return nil, err
	}
	pipeline, err := db.NewIngestionPipeline()
	if err != nil {
		return nil, err
	}
	searcher, err := db.NewSearcher()
	if err != nil {
		pipeline.Release()
		return nil, err
	}
	orchestrator, err := db.NewOrchestrator()
	if err != nil {
		pipeline.Release()
		return nil, err
	}

	s := &Server{
		writer:       writer,
		pipeline:     pipeline,
		searcher:     searcher,
		orchestrator: orchestrator,
		facts:        db.FactRepository(),
		logger:       slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			pipeline.Release()
			return nil, err
		}
	}

	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/ask", s.handleAsk)
		r.Post("/write", s.handleWrite)
		r.Post("/ingest", s.handleIngest)
		r.Get("/search", s.handleSearch)
		r.Get("/facts", s.handleFacts)
	})

	return r
}

// Handler returns the HTTP handler for mounting or testing.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks serving HTTP on addr.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("starting server", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

// Close releases the resources held by the server's components.
func (s *Server) Close() {
	s.pipeline.Release()
}
