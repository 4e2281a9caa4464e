package answer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSuggestions(t *testing.T) {
	t.Run("fact and journal", func(t *testing.T) {
		answerText := `The launch is tomorrow.

Sources:
• [README](file:///readme)

💡 Suggested writes:
- Fact: launch_date = "2025-10-22"
- Journal: Finalized the launch checklist`

		suggestions := ParseSuggestions(answerText)
		require.Len(t, suggestions, 2)

		assert.Equal(t, SuggestionFact, suggestions[0].Type)
		assert.Equal(t, "decision", suggestions[0].Kind)
		assert.Equal(t, "launch_date", suggestions[0].Key)
		assert.Equal(t, "2025-10-22", suggestions[0].Value)

		assert.Equal(t, SuggestionJournal, suggestions[1].Type)
		assert.Equal(t, "Finalized the launch checklist", suggestions[1].Summary)
	})

	t.Run("singular marker", func(t *testing.T) {
		answerText := "Answer.\n\n💡 Suggested write:\n- Fact: storage = \"badger\""

		suggestions := ParseSuggestions(answerText)
		require.Len(t, suggestions, 1)
		assert.Equal(t, "storage", suggestions[0].Key)
		assert.Equal(t, "badger", suggestions[0].Value)
	})

	t.Run("no marker yields nothing", func(t *testing.T) {
		assert.Empty(t, ParseSuggestions("Just an answer with no suggestions."))
	})

	t.Run("block ends at blank line", func(t *testing.T) {
		answerText := "Answer.\n\n💡 Suggested writes:\n- Journal: inside the block\n\n- Journal: after the block"

		suggestions := ParseSuggestions(answerText)
		require.Len(t, suggestions, 1)
		assert.Equal(t, "inside the block", suggestions[0].Summary)
	})

	t.Run("malformed fact lines are ignored", func(t *testing.T) {
		answerText := "Answer.\n\n💡 Suggested writes:\n- Fact: missing quotes = value"

		assert.Empty(t, ParseSuggestions(answerText))
	})

	t.Run("multiple suggestions of each type", func(t *testing.T) {
		answerText := `Answer.

💡 Suggested writes:
- Fact: a = "1"
- Fact: b = "2"
- Journal: first entry
- Journal: second entry`

		suggestions := ParseSuggestions(answerText)
		require.Len(t, suggestions, 4)
		assert.Equal(t, "a", suggestions[0].Key)
		assert.Equal(t, "b", suggestions[1].Key)
		assert.Equal(t, "first entry", suggestions[2].Summary)
		assert.Equal(t, "second entry", suggestions[3].Summary)
	})

	t.Run("whitespace around key and value is trimmed", func(t *testing.T) {
		answerText := "💡 Suggested writes:\n- Fact:   spaced_key   = \" padded value \""

		suggestions := ParseSuggestions(answerText)
		require.Len(t, suggestions, 1)
		assert.Equal(t, "spaced_key", suggestions[0].Key)
		assert.Equal(t, "padded value", suggestions[0].Value)
	})
}
