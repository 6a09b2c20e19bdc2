package main_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/seomate"
	main "github.com/fwojciec/seomate/cmd/seomate"
	"github.com/fwojciec/seomate/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocsCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists documents and marks missing excerpts", func(t *testing.T) {
		t.Parallel()

		var got seomate.DocumentFilter
		deps, stdout, _ := newDeps(nil)
		deps.Documents = &mock.DocumentService{
			FindDocumentsFn: func(_ context.Context, f seomate.DocumentFilter) ([]*seomate.Document, error) {
				got = f
				return []*seomate.Document{
					{ID: "doc-1", Title: "Getting Started", Status: seomate.StatusPublished, Excerpt: "Intro."},
					{ID: "doc-2", SourceURL: "https://example.com/untitled", Status: seomate.StatusDraft},
				}, nil
			},
		}

		err := (&main.DocsCmd{Limit: 50}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, 50, got.Limit)
		assert.Equal(t, seomate.SortNewestFirst, got.SortBy)
		assert.Nil(t, got.Status)
		out := stdout.String()
		assert.Contains(t, out, "  doc-1  published  Getting Started")
		assert.Contains(t, out, "* doc-2  draft      https://example.com/untitled")
		assert.Contains(t, out, "2 documents")
	})

	t.Run("passes filters through", func(t *testing.T) {
		t.Parallel()

		var got seomate.DocumentFilter
		deps, _, _ := newDeps(nil)
		deps.Documents = &mock.DocumentService{
			FindDocumentsFn: func(_ context.Context, f seomate.DocumentFilter) ([]*seomate.Document, error) {
				got = f
				return nil, nil
			},
		}

		err := (&main.DocsCmd{Status: "pending", MissingExcerpt: true, Oldest: true, Limit: 5}).Run(deps)

		require.NoError(t, err)
		require.NotNil(t, got.Status)
		assert.Equal(t, seomate.StatusPending, *got.Status)
		assert.True(t, got.MissingExcerpt)
		assert.Equal(t, seomate.SortOldestFirst, got.SortBy)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newDeps(nil)

		err := (&main.DocsCmd{Status: "archived"}).Run(deps)

		assert.Equal(t, seomate.EINVALID, seomate.ErrorCode(err))
		assert.Contains(t, stderr.String(), "archived")
	})

	t.Run("handles empty store", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps(nil)
		deps.Documents = &mock.DocumentService{
			FindDocumentsFn: func(context.Context, seomate.DocumentFilter) ([]*seomate.Document, error) {
				return nil, nil
			},
		}

		require.NoError(t, (&main.DocsCmd{}).Run(deps))
		assert.Contains(t, stdout.String(), "No documents found")
	})

	t.Run("prints store errors", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newDeps(nil)
		deps.Documents = &mock.DocumentService{
			FindDocumentsFn: func(context.Context, seomate.DocumentFilter) ([]*seomate.Document, error) {
				return nil, errors.New("disk I/O error")
			},
		}

		require.Error(t, (&main.DocsCmd{}).Run(deps))
		assert.Contains(t, stderr.String(), "error:")
	})
}

func TestCacheClearCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("clears all groups by default", func(t *testing.T) {
		t.Parallel()

		var cleared []string
		deps, stdout, _ := newDeps(nil)
		deps.Cache = &mock.Cache{DeleteGroupFn: func(_ context.Context, group string) error {
			cleared = append(cleared, group)
			return nil
		}}

		require.NoError(t, (&main.CacheClearCmd{Group: "all"}).Run(deps))
		assert.Equal(t, []string{seomate.CacheGroupAI, seomate.CacheGroupSEO}, cleared)
		assert.Contains(t, stdout.String(), "Cleared cache groups")
	})

	t.Run("clears a single group", func(t *testing.T) {
		t.Parallel()

		var cleared []string
		deps, _, _ := newDeps(nil)
		deps.Cache = &mock.Cache{DeleteGroupFn: func(_ context.Context, group string) error {
			cleared = append(cleared, group)
			return nil
		}}

		require.NoError(t, (&main.CacheClearCmd{Group: "seo"}).Run(deps))
		assert.Equal(t, []string{seomate.CacheGroupSEO}, cleared)
	})
}
