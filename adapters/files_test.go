package adapters

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func TestFilesWalksDirectory(t *testing.T) {
	root := writeTree(t, map[string]string{
		"README.md":               "# Readme\n\nhello",
		"src/main.go":             "package main",
		"notes.txt":               "plain notes",
		"image.png":               "not text",
		"debug.log":               "skipped by pattern",
		"yarn.lock":               "skipped lockfile",
		"node_modules/pkg/a.js":   "skipped dir",
		".git/config":             "hidden dir",
		"dist/bundle.js":          "skipped dir",
		"src/__pycache__/mod.txt": "skipped dir",
	})

	candidates, err := Files(root, FilesOptions{Project: "work"})
	require.NoError(t, err)

	var seen []string
	for _, c := range candidates {
		assert.Equal(t, "work", c.Project)
		assert.Equal(t, "file", c.Source)
		seen = append(seen, c.URI)
	}

	assert.ElementsMatch(t, []string{
		fmt.Sprintf("file://%s#chunk0", filepath.Join(root, "README.md")),
		fmt.Sprintf("file://%s#chunk0", filepath.Join(root, "src/main.go")),
		fmt.Sprintf("file://%s#chunk0", filepath.Join(root, "notes.txt")),
	}, seen)
}

func TestFilesSingleFile(t *testing.T) {
	root := writeTree(t, map[string]string{"doc.md": "# Doc\n\nbody"})
	path := filepath.Join(root, "doc.md")

	candidates, err := Files(path, FilesOptions{Project: "p"})
	require.NoError(t, err)
	require.Len(t, candidates, 1)

	assert.Equal(t, fmt.Sprintf("file://%s#chunk0", path), candidates[0].URI)
	assert.Equal(t, "doc.md", candidates[0].Title)
	assert.Equal(t, "# Doc\n\nbody", candidates[0].Content)
}

func TestFilesChunksLongFile(t *testing.T) {
	var body strings.Builder
	for i := 0; i < 10; i++ {
		body.WriteString(strings.Repeat("y", 90))
		body.WriteString("\n\n")
	}
	root := writeTree(t, map[string]string{"long.md": body.String()})

	candidates, err := Files(filepath.Join(root, "long.md"), FilesOptions{
		Project:      "p",
		MaxChunkSize: 200,
	})
	require.NoError(t, err)
	require.True(t, len(candidates) > 1)

	assert.Equal(t, fmt.Sprintf("long.md (part 1/%d)", len(candidates)), candidates[0].Title)
	for _, c := range candidates {
		assert.LessOrEqual(t, len(c.Content), 200)
	}
}

func TestFilesSizeCap(t *testing.T) {
	root := writeTree(t, map[string]string{
		"big.md":   strings.Repeat("z", 2048),
		"small.md": "fits",
	})

	candidates, err := Files(root, FilesOptions{Project: "p", MaxFileSize: 1024})
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "small.md", candidates[0].Title)
}

func TestFilesSourceOverride(t *testing.T) {
	root := writeTree(t, map[string]string{"a.go": "package a"})

	candidates, err := Files(root, FilesOptions{Project: "p", Source: "repo"})
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "repo", candidates[0].Source)
}

func TestFilesMissingRoot(t *testing.T) {
	_, err := Files(filepath.Join(t.TempDir(), "nope"), FilesOptions{})
	assert.Error(t, err)
}
