package excerpt_test

import (
	"testing"

	"github.com/fwojciec/seomate/excerpt"
	"github.com/stretchr/testify/assert"
)

func TestCleanAIText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{`"Quoted summary."`, "Quoted summary."},
		{"Summary: The gist.", "The gist."},
		{"excerpt - The gist.", "The gist."},
		{"“Curly quotes”", "Curly quotes"},
		{"Line one\n\nline   two", "Line one line two"},
		{`Summary: "Both at once"`, "Both at once"},
		{"   ", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, excerpt.CleanAIText(tt.in), tt.in)
	}
}

func TestExtractSentences(t *testing.T) {
	t.Parallel()

	t.Run("skips short and code-like sentences", func(t *testing.T) {
		t.Parallel()

		text := "Hi. https://example.com/a.b. This sentence is long enough."

		assert.Equal(t, "This sentence is long enough.", excerpt.ExtractSentences(text, 100))
	})

	t.Run("appends a partial sentence below the stop threshold", func(t *testing.T) {
		t.Parallel()

		text := "A short opening line. Then a considerably longer sentence that cannot fit into the remaining budget at all."

		got := excerpt.ExtractSentences(text, 60)

		assert.Equal(t, "A short opening line. Then a considerably longer sentence...", got)
		assert.LessOrEqual(t, len(got), 60)
	})

	t.Run("stops once the threshold is reached", func(t *testing.T) {
		t.Parallel()

		text := "This opening sentence is thirty-five. Another sentence that is too long to fit."

		assert.Equal(t, "This opening sentence is thirty-five.", excerpt.ExtractSentences(text, 50))
	})
}

func TestExtractParagraphs(t *testing.T) {
	t.Parallel()

	text := "Tiny\n\nThe first real paragraph here.\n\nThe second paragraph is also fine."

	assert.Equal(t, "The first real paragraph here. The second paragraph is also fine.", excerpt.ExtractParagraphs(text, 100))
	assert.Equal(t, "The first real paragraph here.", excerpt.ExtractParagraphs(text, 50))
}

func TestSmartTruncate(t *testing.T) {
	t.Parallel()

	t.Run("returns short text unchanged", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "Short.", excerpt.SmartTruncate("Short.", 10))
	})

	t.Run("cuts at a late sentence end", func(t *testing.T) {
		t.Parallel()

		text := "First sentence is right here. Second part continues on"

		assert.Equal(t, "First sentence is right here.", excerpt.SmartTruncate(text, 40))
	})

	t.Run("keeps hard cut when sentence end is early", func(t *testing.T) {
		t.Parallel()

		text := "Hi. This continues without any ending punctuation for a while"

		assert.Equal(t, "Hi. This continues without...", excerpt.SmartTruncate(text, 27))
	})
}
