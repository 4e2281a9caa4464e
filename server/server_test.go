package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/recall"
	"github.com/poiesic/recall/ai/mock"
	"github.com/poiesic/recall/core"
)

type serverFixture struct {
	server    *Server
	completer *mock.MockCompleter
	embedder  *mock.MockEmbedder
}

func newTestServer(t *testing.T) *serverFixture {
	t.Helper()

	embedder := mock.NewMockEmbedder()
	completer := mock.NewMockCompleter()
	provider := mock.NewMockProviderWithServices(embedder, completer)

	db, err := recall.NewDatabase(filepath.Join(t.TempDir(), "db"), recall.WithAIProvider(provider))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	srv, err := NewServer(db)
	require.NoError(t, err)
	t.Cleanup(srv.Close)

	return &serverFixture{server: srv, completer: completer, embedder: embedder}
}

func (f *serverFixture) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func TestHealth(t *testing.T) {
	f := newTestServer(t)
	rec := f.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestWriteAndSearch(t *testing.T) {
	f := newTestServer(t)

	rec := f.do(t, http.MethodPost, "/api/write", map[string]any{
		"kind":    "chunk",
		"project": "work",
		"source":  "manual",
		"uri":     "manual://note-1",
		"title":   "Deploy checklist",
		"content": "Run migrations before rollout.",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	written := decode[writeResponse](t, rec)
	assert.Equal(t, "chunk", written.Kind)
	assert.False(t, written.Skipped)
	assert.NotEmpty(t, written.Id)

	// Duplicate URI is reported as skipped, not an error
	rec = f.do(t, http.MethodPost, "/api/write", map[string]any{
		"kind":    "chunk",
		"project": "work",
		"source":  "manual",
		"uri":     "manual://note-1",
		"title":   "Deploy checklist",
		"content": "Run migrations before rollout.",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[writeResponse](t, rec).Skipped)

	rec = f.do(t, http.MethodGet, "/api/search?q=deploy&project=work", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	matches := decode[[]matchPayload](t, rec)
	require.Len(t, matches, 1)
	assert.Equal(t, "manual://note-1", matches[0].URI)
	assert.Equal(t, written.Id, matches[0].Id)
	assert.Equal(t, "Run migrations before rollout.", matches[0].Content)
}

func TestSearchEmptyStore(t *testing.T) {
	f := newTestServer(t)

	rec := f.do(t, http.MethodGet, "/api/search?q=anything", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]matchPayload](t, rec))
}

func TestSearchInvalidParams(t *testing.T) {
	f := newTestServer(t)

	rec := f.do(t, http.MethodGet, "/api/search?q=x&top_k=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/search?q=x&since=notatime", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWriteFactAndList(t *testing.T) {
	f := newTestServer(t)

	rec := f.do(t, http.MethodPost, "/api/write", map[string]any{
		"kind":      "fact",
		"project":   "work",
		"fact_kind": "decision",
		"key":       "storage",
		"value":     "badger",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/facts?project=work", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	facts := decode[[]factPayload](t, rec)
	require.Len(t, facts, 1)
	assert.Equal(t, "decision", facts[0].Kind)
	assert.Equal(t, "storage", facts[0].Key)
	assert.Equal(t, "badger", facts[0].Value)

	// Unknown project yields an empty list, not an error
	rec = f.do(t, http.MethodGet, "/api/facts?project=nope", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]factPayload](t, rec))
}

func TestAskEndpoint(t *testing.T) {
	f := newTestServer(t)

	rec := f.do(t, http.MethodPost, "/api/write", map[string]any{
		"kind":    "chunk",
		"project": "work",
		"source":  "manual",
		"uri":     "manual://design",
		"title":   "Design notes",
		"content": "We settled on an embedded store.",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	f.completer.Response = "An embedded store was chosen.\n\n💡 Suggested writes:\nFact: store = \"embedded\""

	rec = f.do(t, http.MethodPost, "/api/ask", map[string]any{
		"message": "what store did we pick?",
		"project": "work",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	res := decode[askResponse](t, rec)
	assert.Contains(t, res.Answer, "An embedded store was chosen.")
	require.Len(t, res.Citations, 1)
	assert.Equal(t, "manual://design", res.Citations[0].URI)
	require.Len(t, res.Suggestions, 1)
	assert.Equal(t, "fact", res.Suggestions[0].Type)
	assert.Equal(t, "store", res.Suggestions[0].Key)
	assert.Equal(t, 1, res.MemoriesRetrieved)
}

func TestAskValidation(t *testing.T) {
	f := newTestServer(t)

	rec := f.do(t, http.MethodPost, "/api/ask", map[string]any{"message": "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, f.completer.CallCount())
}

func TestAskProviderFailure(t *testing.T) {
	f := newTestServer(t)

	f.completer.CompleteFunc = func(ctx context.Context, system, user string) (string, error) {
		return "", fmt.Errorf("%w: model unavailable", core.ErrProvider)
	}

	rec := f.do(t, http.MethodPost, "/api/ask", map[string]any{"message": "hello"})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestIngestFiles(t *testing.T) {
	f := newTestServer(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("# Notes\n\nremember this"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip.log"), []byte("noise"), 0o644))

	rec := f.do(t, http.MethodPost, "/api/ingest", map[string]any{
		"path":    dir,
		"source":  "files",
		"project": "work",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	stats := decode[ingestResponse](t, rec)
	assert.Equal(t, 1, stats.Inserted)
	assert.Equal(t, 0, stats.Failed)

	// Re-ingesting the same tree only skips
	rec = f.do(t, http.MethodPost, "/api/ingest", map[string]any{
		"path":    dir,
		"source":  "files",
		"project": "work",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	stats = decode[ingestResponse](t, rec)
	assert.Equal(t, 0, stats.Inserted)
	assert.Equal(t, 1, stats.Skipped)
}

func TestIngestUnknownSource(t *testing.T) {
	f := newTestServer(t)

	rec := f.do(t, http.MethodPost, "/api/ingest", map[string]any{
		"path":   "/nowhere",
		"source": "carrier-pigeon",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInvalidJSONBody(t *testing.T) {
	f := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/ask", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
