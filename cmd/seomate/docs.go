package main

import (
	"fmt"

	"github.com/fwojciec/seomate"
)

// Run executes the docs command.
func (c *DocsCmd) Run(deps *Dependencies) error {
	filter := seomate.DocumentFilter{
		MissingExcerpt: c.MissingExcerpt,
		Limit:          c.Limit,
		SortBy:         seomate.SortNewestFirst,
	}
	if c.Status != "" {
		status := seomate.DocumentStatus(c.Status)
		probe := seomate.Document{Title: "-", Status: status}
		if err := probe.Validate(); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", seomate.ErrorMessage(err))
			return err
		}
		filter.Status = &status
	}
	if c.Oldest {
		filter.SortBy = seomate.SortOldestFirst
	}

	docs, err := deps.Documents.FindDocuments(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", seomate.ErrorMessage(err))
		return err
	}

	if len(docs) == 0 {
		fmt.Fprintln(deps.Stdout, "No documents found. Use 'seomate import' to add some.")
		return nil
	}

	for _, doc := range docs {
		title := doc.Title
		if title == "" {
			title = doc.SourceURL
		}
		marker := " "
		if !doc.HasExcerpt() {
			marker = "*"
		}
		fmt.Fprintf(deps.Stdout, "%s %s  %-9s  %s\n", marker, doc.ID, doc.Status, title)
	}
	fmt.Fprintf(deps.Stdout, "\n%d documents (* = no excerpt)\n", len(docs))
	return nil
}
