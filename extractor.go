package seomate

// ExtractResult holds the article extracted from a fetched page.
type ExtractResult struct {
	// Title is the page title from metadata.
	Title string

	// Description is the page summary from metadata, if any.
	Description string

	// ContentHTML is the main article body with boilerplate removed.
	ContentHTML string
}

// Extractor pulls the main article out of a full HTML page.
type Extractor interface {
	Extract(html string) (*ExtractResult, error)
}
