package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fwojciec/seomate"
)

// Run executes the excerpt command.
func (c *ExcerptCmd) Run(deps *Dependencies) error {
	resp, err := deps.Pipeline.GenerateExcerpt(deps.Ctx, c.ID, c.Length)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", seomate.ErrorMessage(err))
		return err
	}

	if resp.Excerpt == "" {
		fmt.Fprintf(deps.Stdout, "Document %s is too short to summarize; excerpt unchanged.\n", c.ID)
		return nil
	}

	fmt.Fprintf(deps.Stdout, "%s\n\n(%s, %d chars)\n", resp.Excerpt, resp.Source, resp.Length)
	return nil
}

// Run executes the tags command.
func (c *TagsCmd) Run(deps *Dependencies) error {
	resp, err := deps.Pipeline.GenerateTags(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", seomate.ErrorMessage(err))
		return err
	}

	if len(resp.Tags) == 0 {
		fmt.Fprintf(deps.Stdout, "Document %s has no usable content; tags unchanged.\n", c.ID)
		return nil
	}

	fmt.Fprintln(deps.Stdout, strings.Join(resp.Tags, ", "))
	return nil
}

// Run executes the analyze command.
func (c *AnalyzeCmd) Run(deps *Dependencies) error {
	var (
		rec *seomate.SEOAnalysisRecord
		err error
	)
	if c.Show {
		rec, err = deps.Pipeline.FindAnalysis(deps.Ctx, c.ID)
	} else {
		rec, err = deps.Pipeline.AnalyzeSEO(deps.Ctx, c.ID)
	}
	if err != nil {
		if c.Show && seomate.ErrorCode(err) == seomate.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: document %s has not been analyzed. Run 'seomate analyze %s' first.\n", c.ID, c.ID)
			return err
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", seomate.ErrorMessage(err))
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	}

	printAnalysis(deps.Stdout, rec)
	return nil
}

func printAnalysis(w io.Writer, rec *seomate.SEOAnalysisRecord) {
	fmt.Fprintf(w, "SEO score for %s: %d/100\n", rec.DocumentID, rec.OverallScore)

	names := make([]string, 0, len(rec.SubScores))
	for name := range rec.SubScores {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-12s %3d\n", name, rec.SubScores[name])
	}

	a := rec.ParsedAnalysis
	if a == nil {
		fmt.Fprintln(w, "\nAI analysis: not available (heuristic scores only)")
		return
	}

	fmt.Fprintf(w, "\nAI analysis: %s", a.ExtractionState)
	if a.Note != "" {
		fmt.Fprintf(w, " (%s)", a.Note)
	}
	fmt.Fprintln(w)

	if len(a.Keywords) > 0 {
		fmt.Fprintf(w, "Keywords: %s\n", strings.Join(a.Keywords, ", "))
	}
	if len(a.Recommendations) > 0 {
		fmt.Fprintln(w, "Recommendations:")
		for _, r := range a.Recommendations {
			if r.Priority != "" {
				fmt.Fprintf(w, "  - [%s] %s\n", r.Priority, r.Message)
			} else {
				fmt.Fprintf(w, "  - %s\n", r.Message)
			}
		}
	}
	if a.ExtractionState == seomate.ExtractionFailed && a.RawPreview != "" {
		fmt.Fprintf(w, "Raw reply: %s\n", a.RawPreview)
	}
}
