package seomate

import (
	"regexp"
	"strings"
)

// ContentMetrics describes the structure of a normalized document body.
type ContentMetrics struct {
	// Text is the normalized plain text.
	Text string

	WordCount  int
	Paragraphs int

	// Headings counts heading elements by level (1-6).
	Headings map[int]int

	// FirstParagraph is the plain text of the first non-empty paragraph.
	FirstParagraph string

	// Sentences lists the sentences of Text in order.
	Sentences []string
}

// Normalizer turns markup-bearing bodies into plain text.
type Normalizer interface {
	// Normalize strips widget markers and markup, decodes entities and
	// collapses whitespace.
	Normalize(body string) string

	// Paragraphs is Normalize but keeps blank lines between blocks.
	Paragraphs(body string) string

	// Usable reports whether text is long enough to generate from.
	Usable(text string) bool
}

// ContentInspector computes structural metrics for a body.
type ContentInspector interface {
	Inspect(body string) ContentMetrics
}

var sentenceRe = regexp.MustCompile(`[^.!?]+[.!?]+(?:\s+|$)`)

// SplitSentences splits text on terminal punctuation followed by whitespace
// or end of input. Trailing text without terminal punctuation is returned as
// the last sentence.
func SplitSentences(text string) []string {
	var sentences []string
	last := 0
	for _, loc := range sentenceRe.FindAllStringIndex(text, -1) {
		if s := strings.TrimSpace(text[last:loc[1]]); s != "" {
			sentences = append(sentences, s)
		}
		last = loc[1]
	}
	if rest := strings.TrimSpace(text[last:]); rest != "" {
		sentences = append(sentences, rest)
	}
	return sentences
}

var stopwords = map[string]bool{
	"a": true, "about": true, "after": true, "all": true, "also": true,
	"an": true, "and": true, "any": true, "are": true, "as": true, "at": true,
	"be": true, "been": true, "before": true, "but": true, "by": true,
	"can": true, "do": true, "each": true, "for": true, "from": true,
	"has": true, "have": true, "how": true, "if": true, "in": true,
	"into": true, "is": true, "it": true, "its": true, "just": true,
	"like": true, "many": true, "more": true, "most": true, "much": true,
	"new": true, "no": true, "not": true, "now": true, "of": true, "on": true,
	"one": true, "only": true, "or": true, "other": true, "our": true,
	"over": true, "same": true, "so": true, "some": true, "such": true,
	"than": true, "that": true, "the": true, "their": true, "them": true,
	"then": true, "there": true, "these": true, "they": true, "this": true,
	"to": true, "too": true, "up": true, "very": true, "was": true,
	"way": true, "we": true, "well": true, "were": true, "what": true,
	"when": true, "which": true, "while": true, "who": true, "why": true,
	"will": true, "with": true, "you": true, "your": true,
}

// IsStopword reports whether the lowercase word carries no topical meaning.
func IsStopword(word string) bool {
	return stopwords[word]
}
