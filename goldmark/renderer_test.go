package goldmark_test

import (
	"testing"

	"github.com/fwojciec/seomate"
	"github.com/fwojciec/seomate/goldmark"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_Convert(t *testing.T) {
	t.Parallel()

	t.Run("renders headings and paragraphs", func(t *testing.T) {
		t.Parallel()

		got, err := goldmark.NewRenderer().Convert("# Title\n\nFirst paragraph.\n\n## Section\n\nSecond paragraph.")

		require.NoError(t, err)
		assert.Equal(t, "<h1>Title</h1>\n<p>First paragraph.</p>\n<h2>Section</h2>\n<p>Second paragraph.</p>", got)
	})

	t.Run("renders GFM tables", func(t *testing.T) {
		t.Parallel()

		got, err := goldmark.NewRenderer().Convert("| a | b |\n|---|---|\n| 1 | 2 |")

		require.NoError(t, err)
		assert.Contains(t, got, "<table>")
		assert.Contains(t, got, "<td>1</td>")
	})

	t.Run("passes raw HTML through", func(t *testing.T) {
		t.Parallel()

		got, err := goldmark.NewRenderer().Convert("<div class=\"note\">Keep me</div>")

		require.NoError(t, err)
		assert.Contains(t, got, `<div class="note">Keep me</div>`)
	})

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		_, err := goldmark.NewRenderer().Convert(" \n")

		assert.Equal(t, seomate.EINVALID, seomate.ErrorCode(err))
	})
}
