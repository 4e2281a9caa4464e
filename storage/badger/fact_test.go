package badger

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/storage"
)

func TestFactUpsert(t *testing.T) {
	chunkRepo, factRepo, journalRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { journalRepo.Close(); factRepo.Close(); chunkRepo.Close(); backend.Close() }()

	ctx := context.Background()

	fact := &core.Fact{
		Project: "recall",
		Kind:    "decision",
		Key:     "storage-engine",
		Value:   "badger",
	}
	saved, err := factRepo.UpsertFact(ctx, fact)
	if err != nil {
		t.Fatalf("Failed to upsert fact: %v", err)
	}
	if saved.Id == 0 {
		t.Fatal("Expected non-zero ID")
	}
	if saved.UpdatedAt.IsZero() {
		t.Fatal("Expected UpdatedAt to be set")
	}

	// Same tuple, new value: must overwrite in place with the same ID
	updated, err := factRepo.UpsertFact(ctx, &core.Fact{
		Project: "recall",
		Kind:    "decision",
		Key:     "storage-engine",
		Value:   "badger v4",
	})
	if err != nil {
		t.Fatalf("Failed to upsert fact again: %v", err)
	}
	if updated.Id != saved.Id {
		t.Fatalf("Expected stable ID %d for tuple, got %d", saved.Id, updated.Id)
	}

	retrieved, err := factRepo.GetFact(ctx, "recall", "decision", "storage-engine")
	if err != nil {
		t.Fatalf("Failed to get fact: %v", err)
	}
	if retrieved.Value != "badger v4" {
		t.Fatalf("Expected updated value, got %q", retrieved.Value)
	}

	all, err := factRepo.GetFacts(ctx, "recall")
	if err != nil {
		t.Fatalf("Failed to list facts: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("Expected 1 fact after upsert, got %d", len(all))
	}
}

func TestFactTupleIsolation(t *testing.T) {
	chunkRepo, factRepo, journalRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { journalRepo.Close(); factRepo.Close(); chunkRepo.Close(); backend.Close() }()

	ctx := context.Background()

	// Same kind and key under different projects are distinct facts
	facts := []*core.Fact{
		{Project: "alpha", Kind: "preference", Key: "editor", Value: "vim"},
		{Project: "beta", Kind: "preference", Key: "editor", Value: "emacs"},
		{Project: "", Kind: "preference", Key: "editor", Value: "nano"},
	}
	for _, f := range facts {
		if _, err := factRepo.UpsertFact(ctx, f); err != nil {
			t.Fatalf("Failed to upsert fact: %v", err)
		}
	}

	alpha, err := factRepo.GetFact(ctx, "alpha", "preference", "editor")
	if err != nil {
		t.Fatalf("Failed to get alpha fact: %v", err)
	}
	if alpha.Value != "vim" {
		t.Fatalf("Expected 'vim', got %q", alpha.Value)
	}

	global, err := factRepo.GetFact(ctx, "", "preference", "editor")
	if err != nil {
		t.Fatalf("Failed to get global fact: %v", err)
	}
	if global.Value != "nano" {
		t.Fatalf("Expected 'nano', got %q", global.Value)
	}

	betaFacts, err := factRepo.GetFacts(ctx, "beta")
	if err != nil {
		t.Fatalf("Failed to list beta facts: %v", err)
	}
	if len(betaFacts) != 1 || betaFacts[0].Value != "emacs" {
		t.Fatalf("Expected single beta fact 'emacs', got %v", betaFacts)
	}
}

func TestFactNotFound(t *testing.T) {
	chunkRepo, factRepo, journalRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { journalRepo.Close(); factRepo.Close(); chunkRepo.Close(); backend.Close() }()

	ctx := context.Background()

	_, err = factRepo.GetFact(ctx, "recall", "decision", "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}

	// Listing an unknown project returns empty, not an error
	facts, err := factRepo.GetFacts(ctx, "no-such-project")
	if err != nil {
		t.Fatalf("Failed to list facts: %v", err)
	}
	if len(facts) != 0 {
		t.Fatalf("Expected 0 facts, got %d", len(facts))
	}
}

func TestFactValidation(t *testing.T) {
	chunkRepo, factRepo, journalRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { journalRepo.Close(); factRepo.Close(); chunkRepo.Close(); backend.Close() }()

	ctx := context.Background()

	cases := []*core.Fact{
		{Kind: "", Key: "k", Value: "v"},
		{Kind: "decision", Key: "", Value: "v"},
		{Kind: "decision", Key: "k", Value: ""},
	}
	for _, f := range cases {
		if _, err := factRepo.UpsertFact(ctx, f); !errors.Is(err, core.ErrValidation) {
			t.Fatalf("Expected validation error for %+v, got %v", f, err)
		}
	}
}
