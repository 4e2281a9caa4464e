package adapters

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleExport = `[
  {
    "id": "conv-1",
    "title": "Storage design",
    "create_time": 1730000000,
    "mapping": {
      "client-created-root": {"message": null, "children": ["n1"]},
      "n1": {
        "message": {
          "author": {"role": "system"},
          "content": {"parts": ["system preamble"]}
        },
        "children": ["n2"]
      },
      "n2": {
        "message": {
          "author": {"role": "user"},
          "content": {"parts": ["What storage engine should we use?"]}
        },
        "children": ["n3"]
      },
      "n3": {
        "message": {
          "author": {"role": "assistant"},
          "content": {"parts": ["BadgerDB is a good fit.", "It is embedded."]}
        },
        "children": []
      }
    }
  },
  {
    "id": "conv-2",
    "title": "",
    "mapping": {
      "client-created-root": {"message": null, "children": []}
    }
  }
]`

func writeExport(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "conversations.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestChatGPTExport(t *testing.T) {
	candidates, err := ChatGPTExport(writeExport(t, sampleExport), "personal")
	require.NoError(t, err)

	// Empty conversation produces nothing; the other fits one chunk
	require.Len(t, candidates, 1)

	chunk := candidates[0]
	assert.Equal(t, "personal", chunk.Project)
	assert.Equal(t, "chatgpt", chunk.Source)
	assert.Equal(t, "chatgpt://conversation/conv-1#0", chunk.URI)
	assert.Equal(t, "Storage design", chunk.Title)

	assert.Contains(t, chunk.Content, "# Storage design")
	assert.Contains(t, chunk.Content, "Date: 2024-10-27")
	assert.Contains(t, chunk.Content, "User: What storage engine should we use?")
	assert.Contains(t, chunk.Content, "Assistant: BadgerDB is a good fit.\nIt is embedded.")

	// System messages are excluded
	assert.NotContains(t, chunk.Content, "system preamble")
}

func TestChatGPTExportLongConversation(t *testing.T) {
	long := strings.Repeat("w", 1500)
	export := `[
  {
    "id": "conv-long",
    "title": "Long chat",
    "mapping": {
      "client-created-root": {"message": null, "children": ["a"]},
      "a": {
        "message": {"author": {"role": "user"}, "content": {"parts": ["` + long + `"]}},
        "children": ["b"]
      },
      "b": {
        "message": {"author": {"role": "assistant"}, "content": {"parts": ["` + long + `"]}},
        "children": []
      }
    }
  }
]`

	candidates, err := ChatGPTExport(writeExport(t, export), "p")
	require.NoError(t, err)

	// Two 1500-char messages exceed the 2000-char chunk budget
	require.Len(t, candidates, 2)
	assert.Equal(t, "chatgpt://conversation/conv-long#0", candidates[0].URI)
	assert.Equal(t, "chatgpt://conversation/conv-long#1", candidates[1].URI)
	assert.Equal(t, "Long chat (part 1/2)", candidates[0].Title)
	assert.Equal(t, "Long chat (part 2/2)", candidates[1].Title)
}

func TestChatGPTExportNonTextParts(t *testing.T) {
	export := `[
  {
    "id": "conv-mixed",
    "title": "Mixed parts",
    "mapping": {
      "client-created-root": {"message": null, "children": ["a"]},
      "a": {
        "message": {
          "author": {"role": "user"},
          "content": {"parts": [{"content_type": "image"}, "the text part"]}
        },
        "children": []
      }
    }
  }
]`

	candidates, err := ChatGPTExport(writeExport(t, export), "p")
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Contains(t, candidates[0].Content, "User: the text part")
}

func TestChatGPTExportInvalidJSON(t *testing.T) {
	_, err := ChatGPTExport(writeExport(t, "not json"), "p")
	assert.Error(t, err)
}

func TestChatGPTExportMissingFile(t *testing.T) {
	_, err := ChatGPTExport(filepath.Join(t.TempDir(), "missing.json"), "p")
	assert.Error(t, err)
}
