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

package adapters

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/ingestion"
)

// textExtensions is the allowlist of file types ingested by the walker.
var textExtensions = map[string]bool{
	".md": true, ".txt": true, ".markdown": true,
	".js": true, ".ts": true, ".jsx": true, ".tsx": true, ".json": true,
	".py": true, ".rb": true, ".go": true, ".rs": true, ".java": true, ".c": true, ".cpp": true,
	".html": true, ".css": true, ".scss": true, ".xml": true, ".yaml": true, ".yml": true,
	".sh": true, ".bash": true, ".sql": true,
}

// skipDirs are directory names never descended into.
var skipDirs = map[string]bool{
	"node_modules": true, "dist": true, "build": true, "target": true,
	"__pycache__": true, "vendor": true,
}

// skipPatterns match file names excluded regardless of extension.
var skipPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\.DS_Store`),
	regexp.MustCompile(`\.log$`),
	regexp.MustCompile(`\.lock$`),
	regexp.MustCompile(`package-lock\.json$`),
	regexp.MustCompile(`yarn\.lock$`),
	regexp.MustCompile(`(?i)\.(mp4|mov|avi|mkv|webm)$`),
	regexp.MustCompile(`(?i)\.(mp3|wav|flac|aac|m4a)$`),
	regexp.MustCompile(`(?i)\.(zip|tar|gz|rar|7z)$`),
	regexp.MustCompile(`(?i)\.(exe|dmg|app|deb|rpm)$`),
}

// FilesOptions configures the file walker.
type FilesOptions struct {
	// Project labels all produced candidates.
	Project string

	// Source overrides the candidate source label. Default "file".
	// Setting it (e.g. to "repo") lets the same walker serve repository
	// checkouts.
	Source string

	// MaxChunkSize caps chunk length in characters.
	// Default ingestion.DefaultChunkSize.
	MaxChunkSize int

	// MaxFileSize skips files larger than this many bytes. Default 1 MiB.
	MaxFileSize int64
}

func (o *FilesOptions) withDefaults() FilesOptions {
	opts := *o
	if opts.Source == "" {
		opts.Source = "file"
	}
	if opts.MaxChunkSize < 1 {
		opts.MaxChunkSize = ingestion.DefaultChunkSize
	}
	if opts.MaxFileSize < 1 {
		opts.MaxFileSize = 1 << 20
	}
	return opts
}

// Files walks a file or directory tree and produces candidate chunks for
// every allowlisted text file. Long files are chunked;
// URIs are file://<path>#chunk<n>.
func Files(root string, opts FilesOptions) ([]*core.CandidateChunk, error) {
	o := opts.withDefaults()

	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		return fileCandidates(root, info.Size(), o)
	}

	var candidates []*core.CandidateChunk
	err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		name := entry.Name()
		if entry.IsDir() {
			if path != root && (skipDirs[name] || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}

		if !shouldIngestFile(name) {
			return nil
		}

		fileInfo, err := entry.Info()
		if err != nil {
			return err
		}

		fileChunks, err := fileCandidates(path, fileInfo.Size(), o)
		if err != nil {
			return err
		}
		candidates = append(candidates, fileChunks...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return candidates, nil
}

func shouldIngestFile(name string) bool {
	for _, pattern := range skipPatterns {
		if pattern.MatchString(name) {
			return false
		}
	}
	return textExtensions[strings.ToLower(filepath.Ext(name))]
}

func fileCandidates(path string, size int64, opts FilesOptions) ([]*core.CandidateChunk, error) {
	if size > opts.MaxFileSize {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	name := filepath.Base(path)
	chunks := ingestion.SplitText(string(data), opts.MaxChunkSize)

	candidates := make([]*core.CandidateChunk, 0, len(chunks))
	for idx, chunk := range chunks {
		title := name
		if len(chunks) > 1 {
			title = fmt.Sprintf("%s (part %d/%d)", name, idx+1, len(chunks))
		}

		candidates = append(candidates, &core.CandidateChunk{
			Project: opts.Project,
			Source:  opts.Source,
			URI:     fmt.Sprintf("file://%s#chunk%d", path, idx),
			Title:   title,
			Content: chunk,
		})
	}

	return candidates, nil
}
