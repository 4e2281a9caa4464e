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


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/recall"
	"github.com/poiesic/recall/adapters"
	"github.com/poiesic/recall/ai"
	"github.com/poiesic/recall/answer"
	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/memory"
	"github.com/poiesic/recall/search"
	"github.com/poiesic/recall/server"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "recall",
		Usage: "Personal project memory with semantic retrieval",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to BadgerDB database directory",
				Value:   "./recall_db",
				EnvVars: []string{"RECALL_DB"},
			},
			&cli.StringFlag{
				Name:    "host",
				Usage:   "OpenAI-compatible service host URL",
				Value:   "http://localhost:11434/v1",
				EnvVars: []string{"RECALL_HOST"},
			},
			&cli.StringFlag{
				Name:    "embedding-model",
				Usage:   "Embedding model name",
				Value:   "embeddinggemma",
				EnvVars: []string{"RECALL_EMBEDDING_MODEL"},
			},
			&cli.StringFlag{
				Name:    "chat-model",
				Usage:   "Chat model name",
				Value:   "qwen2.5:3b",
				EnvVars: []string{"RECALL_CHAT_MODEL"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API server",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "addr",
						Usage:   "Listen address",
						Value:   ":8080",
						EnvVars: []string{"RECALL_ADDR"},
					},
				},
			},
			{
				Name:      "ask",
				Usage:     "Ask a question against stored memories",
				ArgsUsage: "<question>",
				Action:    askCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "project",
						Aliases: []string{"p"},
						Usage:   "Scope the question to a project",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Search memory chunks by semantic similarity",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "project",
						Aliases: []string{"p"},
						Usage:   "Restrict results to a project",
					},
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Maximum number of results",
						Value:   search.DefaultTopK,
					},
					&cli.TimestampFlag{
						Name:   "since",
						Usage:  "Only match chunks created at or after this time (RFC3339)",
						Layout: time.RFC3339,
					},
				},
			},
			{
				Name:   "write",
				Usage:  "Write a chunk, fact, or journal entry",
				Action: writeCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "kind",
						Usage:    "What to write: chunk, fact, or journal",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "project",
						Aliases: []string{"p"},
						Usage:   "Project label",
					},
					&cli.StringFlag{
						Name:  "source",
						Usage: "Source label for chunks",
						Value: "manual",
					},
					&cli.StringFlag{
						Name:  "uri",
						Usage: "Chunk URI (natural key)",
					},
					&cli.StringFlag{
						Name:  "title",
						Usage: "Chunk title",
					},
					&cli.StringFlag{
						Name:  "content",
						Usage: "Chunk content",
					},
					&cli.StringFlag{
						Name:  "fact-kind",
						Usage: "Fact kind (decision, deadline, goal, ...)",
						Value: "decision",
					},
					&cli.StringFlag{
						Name:  "key",
						Usage: "Fact key",
					},
					&cli.StringFlag{
						Name:  "value",
						Usage: "Fact value",
					},
					&cli.StringFlag{
						Name:  "summary",
						Usage: "Journal entry summary",
					},
					&cli.StringFlag{
						Name:  "details",
						Usage: "Journal entry details",
					},
					&cli.StringSliceFlag{
						Name:  "tag",
						Usage: "Journal entry tag (repeatable)",
					},
				},
			},
			{
				Name:      "ingest",
				Usage:     "Ingest an export or file tree into memory",
				ArgsUsage: "<path>",
				Action:    ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "source",
						Aliases:  []string{"s"},
						Usage:    "Source format: chatgpt, joplin, files, or repo",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "project",
						Aliases: []string{"p"},
						Usage:   "Project label for ingested chunks",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openDatabase(c *cli.Context) (*recall.Database, error) {
	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithChatModel(c.String("chat-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	db, err := recall.NewDatabase(c.String("db"), recall.WithAIConfig(aiConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func serveCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	srv, err := server.NewServer(db)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	defer srv.Close()

	return srv.ListenAndServe(c.String("addr"))
}

func askCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("question is required")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	orchestrator, err := db.NewOrchestrator()
	if err != nil {
		return fmt.Errorf("failed to create orchestrator: %w", err)
	}

	res, err := orchestrator.Ask(context.Background(), question, answer.AskOptions{
		Project: c.String("project"),
	})
	if err != nil {
		return err
	}

	fmt.Println(res.Answer)
	if len(res.Citations) > 0 {
		fmt.Println("\nSources:")
		for i, citation := range res.Citations {
			fmt.Printf("  [%d] %s (%s) [%0.3f]\n", i+1, citation.Title, citation.URI, citation.Similarity)
		}
	}
	return nil
}

func searchCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("query is required")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	searcher, err := db.NewSearcher()
	if err != nil {
		return fmt.Errorf("failed to create searcher: %w", err)
	}

	q := search.Query{
		Project: c.String("project"),
		TopK:    c.Int("top-k"),
	}
	if ts := c.Timestamp("since"); ts != nil {
		q.Since = *ts
	}

	matches, err := searcher.Search(context.Background(), query, q)
	if err != nil {
		return err
	}

	fmt.Printf("Found %d hits\n", len(matches))
	for i, hit := range matches {
		fmt.Printf("%d: '%s' %s (%d)[%0.3f]\n", i, hit.Chunk.Title, hit.Chunk.URI, hit.Chunk.Id, hit.Similarity)
	}
	return nil
}

func writeCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	writer, err := db.NewWriter()
	if err != nil {
		return fmt.Errorf("failed to create writer: %w", err)
	}

	result, err := writer.Write(context.Background(), memory.WriteRequest{
		Kind:     c.String("kind"),
		Project:  c.String("project"),
		Source:   c.String("source"),
		URI:      c.String("uri"),
		Title:    c.String("title"),
		Content:  c.String("content"),
		FactKind: c.String("fact-kind"),
		Key:      c.String("key"),
		Value:    c.String("value"),
		Summary:  c.String("summary"),
		Details:  c.String("details"),
		Tags:     c.StringSlice("tag"),
	})
	if err != nil {
		return err
	}

	if result.Skipped {
		fmt.Printf("Skipped %s (already stored)\n", result.Kind)
	} else {
		fmt.Printf("Wrote %s %d\n", result.Kind, result.Id)
	}
	return nil
}

func ingestCommand(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("path is required")
	}
	project := c.String("project")

	var candidates []*core.CandidateChunk
	var err error
	switch c.String("source") {
	case "chatgpt":
		candidates, err = adapters.ChatGPTExport(path, project)
	case "joplin":
		candidates, err = adapters.JoplinExport(path, project)
	case "files":
		candidates, err = adapters.Files(path, adapters.FilesOptions{Project: project})
	case "repo":
		candidates, err = adapters.Files(path, adapters.FilesOptions{Project: project, Source: "repo"})
	default:
		return fmt.Errorf("unknown ingest source %q", c.String("source"))
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	pipeline, err := db.NewIngestionPipeline()
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Release()

	fmt.Fprintf(os.Stderr, "Ingesting %d candidate chunks from %s\n", len(candidates), path)

	stats, err := pipeline.Ingest(context.Background(), candidates)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Printf("Inserted: %d  Skipped: %d  Failed: %d  Tokens: %d\n",
		stats.Inserted, stats.Skipped, stats.Failed, stats.Tokens)
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
