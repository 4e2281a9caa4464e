package storage

import (
	"testing"
	"time"

	"github.com/poiesic/recall/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalID(t *testing.T) {
	tests := []struct {
		name string
		id   core.ID
	}{
		{"zero ID", core.ID(0)},
		{"small ID", core.ID(42)},
		{"large ID", core.ID(18446744073709551615)}, // max uint64
		{"content-based ID", core.IDFromContent("file:///notes/launch.md#0")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalID(tt.id)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalID(data)
			require.NoError(t, err)
			assert.Equal(t, tt.id, decoded)
		})
	}
}

func TestUnmarshalID_Empty(t *testing.T) {
	_, err := UnmarshalID([]byte{})
	assert.Error(t, err)
}

func TestMarshalUnmarshalChunk(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	tests := []struct {
		name  string
		chunk *core.MemoryChunk
	}{
		{
			name: "minimal chunk",
			chunk: &core.MemoryChunk{
				Id:        core.ID(1),
				Source:    "file",
				URI:       "file:///a.md#0",
				Content:   "hello",
				Vector:    []float32{0.5},
				CreatedAt: now,
			},
		},
		{
			name: "full chunk",
			chunk: &core.MemoryChunk{
				Id:        core.IDFromContent("chat://abc#3"),
				Project:   "pomodoroflow",
				Source:    "chatgpt",
				URI:       "chat://abc#3",
				Title:     "PH preparation",
				Content:   "Product Hunt launch Oct 22.\n\nGallery images done.",
				Tokens:    13,
				Vector:    []float32{0.25, -0.5, 0.75, 1.0},
				CreatedAt: now,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalChunk(tt.chunk)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalChunk(data)
			require.NoError(t, err)
			assert.Equal(t, tt.chunk, decoded)
		})
	}
}

func TestMarshalUnmarshalFact(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	fact := &core.Fact{
		Id:        core.IDFromContent("(p1,deadline,launch)"),
		Project:   "p1",
		Kind:      "deadline",
		Key:       "launch",
		Value:     "2025-10-22",
		UpdatedAt: now,
	}

	data := MarshalFact(fact)
	decoded, err := UnmarshalFact(data)
	require.NoError(t, err)
	assert.Equal(t, fact, decoded)
}

func TestMarshalUnmarshalJournalEntry(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	t.Run("with tags", func(t *testing.T) {
		entry := &core.JournalEntry{
			Id:        core.ID(7),
			Project:   "p1",
			Summary:   "Finalized PH gallery images",
			Details:   "Video script still pending review.",
			Tags:      []string{"launch", "marketing"},
			CreatedAt: now,
		}

		data := MarshalJournalEntry(entry)
		decoded, err := UnmarshalJournalEntry(data)
		require.NoError(t, err)
		assert.Equal(t, entry, decoded)
	})

	t.Run("nil tags survive a round trip as nil", func(t *testing.T) {
		entry := &core.JournalEntry{
			Id:        core.ID(8),
			Summary:   "note",
			CreatedAt: now,
		}

		decoded, err := UnmarshalJournalEntry(MarshalJournalEntry(entry))
		require.NoError(t, err)
		assert.Equal(t, entry.Summary, decoded.Summary)
		assert.Empty(t, decoded.Tags)
	})
}

func TestUnmarshalChunk_Truncated(t *testing.T) {
	chunk := &core.MemoryChunk{
		Id:        core.ID(1),
		Source:    "file",
		URI:       "file:///a.md#0",
		Content:   "hello world",
		Vector:    []float32{0.1, 0.2},
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	data := MarshalChunk(chunk)

	_, err := UnmarshalChunk(data[:len(data)/2])
	assert.Error(t, err)
}
