package adapters

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/ingestion"
)

// joplinChunkSize caps one note chunk in characters.
const joplinChunkSize = 1500

var (
	joplinIDRe      = regexp.MustCompile(`(?i)id:\s*([a-f0-9]+)`)
	joplinCreatedRe = regexp.MustCompile(`created_time:\s*(\d+)`)
	joplinUpdatedRe = regexp.MustCompile(`updated_time:\s*(\d+)`)
	joplinMetaRe    = regexp.MustCompile(`^[a-z_]+:\s`)
)

type joplinNote struct {
	id      string
	title   string
	body    string
	created time.Time
	updated time.Time
}

// JoplinExport parses a Joplin .jex export (a tar archive of markdown notes
// with metadata trailers) into candidate chunks. Long notes are chunked;
// URIs are joplin://note/<id>#chunk<n>.
func JoplinExport(path, project string) ([]*core.CandidateChunk, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	notes, err := readJoplinNotes(f)
	if err != nil {
		return nil, err
	}

	var candidates []*core.CandidateChunk

	for _, note := range notes {
		if strings.TrimSpace(note.body) == "" {
			continue
		}

		chunks := ingestion.SplitText(note.body, joplinChunkSize)
		for idx, chunk := range chunks {
			title := note.title
			if len(chunks) > 1 {
				title = fmt.Sprintf("%s (part %d/%d)", note.title, idx+1, len(chunks))
			}

			candidates = append(candidates, &core.CandidateChunk{
				Project: project,
				Source:  "joplin",
				URI:     fmt.Sprintf("joplin://note/%s#chunk%d", note.id, idx),
				Title:   title,
				Content: fmt.Sprintf("# %s\nCreated: %s\nUpdated: %s\n\n%s",
					note.title,
					note.created.Format(time.RFC3339),
					note.updated.Format(time.RFC3339),
					chunk),
			})
		}
	}

	return candidates, nil
}

func readJoplinNotes(r io.Reader) ([]joplinNote, error) {
	tr := tar.NewReader(r)
	var notes []joplinNote

	for {
		header, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading joplin export: %w", err)
		}

		if header.Typeflag != tar.TypeReg || !strings.HasSuffix(header.Name, ".md") {
			continue
		}

		data, err := io.ReadAll(tr)
		if err != nil {
			return nil, fmt.Errorf("reading joplin note %s: %w", header.Name, err)
		}

		notes = append(notes, parseJoplinNote(header.Name, string(data)))
	}

	return notes, nil
}

// parseJoplinNote extracts the title, body, and metadata from one exported
// note. Joplin places the title as a leading heading and appends a metadata
// trailer with id and timestamps.
func parseJoplinNote(name, content string) joplinNote {
	now := time.Now().UTC()
	note := joplinNote{
		id:      strings.TrimSuffix(path.Base(name), ".md"),
		title:   "Untitled",
		body:    content,
		created: now,
		updated: now,
	}

	lines := strings.Split(content, "\n")
	if len(lines) > 0 && strings.HasPrefix(lines[0], "# ") {
		note.title = strings.TrimSpace(strings.TrimPrefix(lines[0], "# "))
		lines = lines[1:]
	}

	// Drop the metadata trailer: a run of key: value lines at the end.
	end := len(lines)
	for end > 0 && (strings.TrimSpace(lines[end-1]) == "" || joplinMetaRe.MatchString(lines[end-1])) {
		end--
	}
	note.body = strings.TrimSpace(strings.Join(lines[:end], "\n"))

	if m := joplinIDRe.FindStringSubmatch(content); m != nil {
		note.id = m[1]
	}
	if m := joplinCreatedRe.FindStringSubmatch(content); m != nil {
		if millis, err := strconv.ParseInt(m[1], 10, 64); err == nil {
			note.created = time.UnixMilli(millis).UTC()
		}
	}
	if m := joplinUpdatedRe.FindStringSubmatch(content); m != nil {
		if millis, err := strconv.ParseInt(m[1], 10, 64); err == nil {
			note.updated = time.UnixMilli(millis).UTC()
		}
	}

	return note
}
