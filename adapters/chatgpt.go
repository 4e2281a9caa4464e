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
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/poiesic/recall/core"
)

// conversationChunkSize caps one exchange chunk in characters.
const conversationChunkSize = 2000

// rootNodeID is where ChatGPT mapping trees start.
const rootNodeID = "client-created-root"

type conversation struct {
	Id         string                 `json:"id"`
	Title      string                 `json:"title"`
	CreateTime float64                `json:"create_time"`
	Mapping    map[string]mappingNode `json:"mapping"`
}

type mappingNode struct {
	Message  *mappingMessage `json:"message"`
	Children []string        `json:"children"`
}

type mappingMessage struct {
	Author struct {
		Role string `json:"role"`
	} `json:"author"`
	Content struct {
		Parts []any `json:"parts"`
	} `json:"content"`
}

// ChatGPTExport parses a ChatGPT conversations.json export into candidate
// chunks. Each conversation is flattened to its user/assistant exchanges and
// chunked; URIs are chatgpt://conversation/<id>#<n>.
func ChatGPTExport(path, project string) ([]*core.CandidateChunk, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var conversations []conversation
	if err := json.Unmarshal(data, &conversations); err != nil {
		return nil, fmt.Errorf("parsing chatgpt export: %w", err)
	}

	var candidates []*core.CandidateChunk

	for _, conv := range conversations {
		title := conv.Title
		if title == "" {
			title = "Untitled"
		}

		createTime := time.Now().UTC()
		if conv.CreateTime > 0 {
			createTime = time.Unix(int64(conv.CreateTime), 0).UTC()
		}

		chunks := chunkConversation(conv)
		for idx, chunkContent := range chunks {
			chunkTitle := title
			if len(chunks) > 1 {
				chunkTitle = fmt.Sprintf("%s (part %d/%d)", title, idx+1, len(chunks))
			}

			candidates = append(candidates, &core.CandidateChunk{
				Project: project,
				Source:  "chatgpt",
				URI:     fmt.Sprintf("chatgpt://conversation/%s#%d", conv.Id, idx),
				Title:   chunkTitle,
				Content: fmt.Sprintf("# %s\nDate: %s\n\n%s", title, createTime.Format(time.RFC3339), chunkContent),
			})
		}
	}

	return candidates, nil
}

type conversationTurn struct {
	role    string
	content string
}

// extractTurns walks the mapping tree from the root, collecting user and
// assistant messages with non-empty content in order.
func extractTurns(conv conversation) []conversationTurn {
	var turns []conversationTurn

	var traverse func(id string)
	traverse = func(id string) {
		node, ok := conv.Mapping[id]
		if !ok {
			return
		}

		if node.Message != nil {
			role := node.Message.Author.Role
			content := joinParts(node.Message.Content.Parts)
			if (role == "user" || role == "assistant") && content != "" {
				turns = append(turns, conversationTurn{role: role, content: content})
			}
		}

		for _, child := range node.Children {
			traverse(child)
		}
	}
	traverse(rootNodeID)

	return turns
}

// joinParts concatenates string parts of a message, ignoring non-text parts
// (images, tool payloads) that newer exports embed as objects.
func joinParts(parts []any) string {
	var texts []string
	for _, part := range parts {
		if s, ok := part.(string); ok {
			texts = append(texts, s)
		}
	}
	return strings.TrimSpace(strings.Join(texts, "\n"))
}

// chunkConversation groups consecutive exchanges into chunks of at most
// conversationChunkSize characters, never splitting a single message.
func chunkConversation(conv conversation) []string {
	turns := extractTurns(conv)
	if len(turns) == 0 {
		return nil
	}

	var chunks []string
	var current []string
	currentLen := 0

	for _, turn := range turns {
		speaker := "Assistant"
		if turn.role == "user" {
			speaker = "User"
		}
		text := speaker + ": " + turn.content

		if currentLen+len(text) > conversationChunkSize && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, "\n\n"))
			current = nil
			currentLen = 0
		}

		current = append(current, text)
		currentLen += len(text)
	}

	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, "\n\n"))
	}

	return chunks
}
