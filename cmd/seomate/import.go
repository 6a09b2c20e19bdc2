package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fwojciec/seomate"
	"github.com/fwojciec/seomate/importer"
)

// Run executes the import url command.
func (c *ImportURLCmd) Run(deps *Dependencies) error {
	doc, created, err := deps.Importer.ImportURL(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", seomate.ErrorMessage(err))
		return err
	}

	printImported(deps, doc, created)
	return nil
}

// Run executes the import feed command.
func (c *ImportFeedCmd) Run(deps *Dependencies) error {
	if c.Concurrency > 0 {
		deps.Importer.Concurrency = c.Concurrency
	}

	res, err := deps.Importer.ImportFeed(deps.Ctx, c.URL, func(ev importer.ProgressEvent) {
		switch ev.Type {
		case importer.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "Importing %d feed items\n", ev.Total)
		case importer.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  failed %s: %s\n", ev.URL, seomate.ErrorMessage(ev.Error))
		}
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", seomate.ErrorMessage(err))
		return err
	}

	for _, doc := range res.Created {
		fmt.Fprintf(deps.Stdout, "  %s  %s\n", doc.ID, doc.Title)
	}
	fmt.Fprintf(deps.Stdout, "Imported %d, skipped %d already imported, %d failed\n", len(res.Created), res.Skipped, res.Failed)
	return nil
}

// Run executes the import markdown command. Files are identified by their
// absolute file:// URL.
func (c *ImportMarkdownCmd) Run(deps *Dependencies) error {
	var failed int
	for _, path := range c.Paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		src, err := os.ReadFile(abs)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", err)
			failed++
			continue
		}

		doc, created, err := deps.Importer.ImportMarkdown(deps.Ctx, "file://"+filepath.ToSlash(abs), src)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s: %s\n", path, seomate.ErrorMessage(err))
			failed++
			continue
		}
		printImported(deps, doc, created)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to import", failed, len(c.Paths))
	}
	return nil
}

func printImported(deps *Dependencies, doc *seomate.Document, created bool) {
	if !created {
		fmt.Fprintf(deps.Stdout, "Already imported as %s: %s\n", doc.ID, doc.Title)
		return
	}
	fmt.Fprintf(deps.Stdout, "Imported %s: %s\n", doc.ID, doc.Title)
}
