package htmltomarkdown_test

import (
	"testing"

	"github.com/fwojciec/seomate"
	"github.com/fwojciec/seomate/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("keeps headings visible", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(`<h1>Title</h1><h2>Subtitle</h2><p>Body text.</p>`)

		require.NoError(t, err)
		assert.Contains(t, md, "# Title")
		assert.Contains(t, md, "## Subtitle")
		assert.Contains(t, md, "Body text.")
	})

	t.Run("converts links and lists", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(`<ul><li>First</li><li><a href="https://example.com">Second</a></li></ul>`)

		require.NoError(t, err)
		assert.Contains(t, md, "- First")
		assert.Contains(t, md, "[Second](https://example.com)")
	})

	t.Run("returns plain text bodies trimmed", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert("  Just text.\n\nSecond paragraph.  ")

		require.NoError(t, err)
		assert.Equal(t, "Just text.\n\nSecond paragraph.", md)
	})

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		_, err := conv.Convert("   ")

		require.Error(t, err)
		assert.Equal(t, seomate.EINVALID, seomate.ErrorCode(err))
	})
}
