package answer

import (
	"regexp"
	"strings"
)

// Suggestion types.
const (
	SuggestionFact    = "fact"
	SuggestionJournal = "journal"
)

// Suggestion is a memory write proposed by the model. The caller decides
// whether to commit it through the write gateway.
type Suggestion struct {
	Type    string
	Kind    string
	Key     string
	Value   string
	Summary string
}

var (
	suggestedWritesRe = regexp.MustCompile(`(?s)💡 Suggested writes?:(.*?)(\n\n|$)`)
	factSuggestionRe  = regexp.MustCompile(`Fact:\s*([^=]+?)\s*=\s*"([^"]+)"`)
	journalSuggestRe  = regexp.MustCompile(`Journal:\s*(.+)`)
)

// ParseSuggestions extracts suggested memory writes from the model's answer.
// Parsing is best-effort: an answer without the marker block yields no
// suggestions, and malformed lines inside the block are ignored.
func ParseSuggestions(answerText string) []Suggestion {
	block := suggestedWritesRe.FindStringSubmatch(answerText)
	if block == nil {
		return nil
	}
	body := block[1]

	var suggestions []Suggestion

	for _, m := range factSuggestionRe.FindAllStringSubmatch(body, -1) {
		suggestions = append(suggestions, Suggestion{
			Type: SuggestionFact,
			// Model output carries no kind; default per write conventions
			Kind:  "decision",
			Key:   strings.TrimSpace(m[1]),
			Value: strings.TrimSpace(m[2]),
		})
	}

	for _, m := range journalSuggestRe.FindAllStringSubmatch(body, -1) {
		suggestions = append(suggestions, Suggestion{
			Type:    SuggestionJournal,
			Summary: strings.TrimSpace(m[1]),
		})
	}

	return suggestions
}
