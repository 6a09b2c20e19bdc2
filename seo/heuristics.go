package seo

import (
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fwojciec/seomate"
)

// Title length bounds in characters.
const (
	MinTitleLength = 30
	MaxTitleLength = 60
)

// TopKeywords returns the n most frequent topical words of text, ties broken
// by first appearance. Words under 3 characters, numbers and stopwords are
// ignored.
func TopKeywords(text string, n int) []string {
	freq := make(map[string]int)
	var order []string
	for _, w := range words(text) {
		if utf8.RuneCountInString(w) < 3 || seomate.IsStopword(w) || isNumeric(w) {
			continue
		}
		if freq[w] == 0 {
			order = append(order, w)
		}
		freq[w]++
	}
	sort.SliceStable(order, func(i, j int) bool {
		return freq[order[i]] > freq[order[j]]
	})
	if len(order) > n {
		order = order[:n]
	}
	return order
}

// TitleScore penalizes titles outside 30 to 60 characters and titles that
// contain none of the top keywords.
func TitleScore(title string, keywords []string) int {
	title = strings.TrimSpace(title)
	if title == "" {
		return 0
	}
	score := 100
	n := utf8.RuneCountInString(title)
	switch {
	case n < MinTitleLength:
		score -= min(40, 2*(MinTitleLength-n))
	case n > MaxTitleLength:
		score -= min(40, 2*(n-MaxTitleLength))
	}
	if len(keywords) > 0 && !containsAny(strings.ToLower(title), keywords) {
		score -= 30
	}
	return clamp(score)
}

// ContentScore rates length, paragraph count and heading distribution.
func ContentScore(m seomate.ContentMetrics) int {
	score := 0
	switch {
	case m.WordCount >= 1000:
		score += 40
	case m.WordCount >= 600:
		score += 35
	case m.WordCount >= 300:
		score += 25
	case m.WordCount >= 150:
		score += 15
	default:
		score += 5
	}
	switch {
	case m.Paragraphs >= 5:
		score += 30
	case m.Paragraphs >= 3:
		score += 20
	case m.Paragraphs >= 1:
		score += 10
	}
	switch sub := m.Headings[2] + m.Headings[3]; {
	case sub >= 2:
		score += 30
	case sub == 1:
		score += 20
	}
	if m.Headings[1] > 1 {
		score -= 10
	}
	return clamp(score)
}

// KeywordScore rates the density of the top keyword and its presence in the
// title and first paragraph.
func KeywordScore(title string, m seomate.ContentMetrics, keywords []string) int {
	if len(keywords) == 0 || m.WordCount == 0 {
		return 0
	}
	top := keywords[0]
	count := 0
	for _, w := range words(m.Text) {
		if w == top {
			count++
		}
	}
	density := float64(count) / float64(m.WordCount) * 100

	score := 10
	switch {
	case density >= 1 && density <= 3:
		score = 50
	case density >= 0.5 && density <= 5:
		score = 30
	}
	if strings.Contains(strings.ToLower(title), top) {
		score += 25
	}
	if strings.Contains(strings.ToLower(m.FirstParagraph), top) {
		score += 25
	}
	return clamp(score)
}

// ReadabilityScore rates average sentence length and total word count.
func ReadabilityScore(m seomate.ContentMetrics) int {
	if m.WordCount == 0 {
		return 0
	}
	sentences := len(m.Sentences)
	if sentences == 0 {
		sentences = 1
	}
	avg := float64(m.WordCount) / float64(sentences)

	score := 15
	switch {
	case avg <= 20:
		score = 60
	case avg <= 25:
		score = 45
	case avg <= 30:
		score = 30
	}
	switch {
	case m.WordCount >= 300:
		score += 40
	case m.WordCount >= 150:
		score += 25
	default:
		score += 10
	}
	return clamp(score)
}

// Overall returns the rounded weighted mean of scores. Names missing from
// weights weigh 1; non-positive weights exclude the score.
func Overall(scores map[string]int, weights map[string]float64) int {
	var sum, total float64
	for name, s := range scores {
		w, ok := weights[name]
		if !ok {
			w = 1
		}
		if w <= 0 {
			continue
		}
		sum += w * float64(s)
		total += w
	}
	if total == 0 {
		return 0
	}
	return clamp(int(math.Round(sum / total)))
}

func words(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '-'
	})
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsNumber(r) {
			return false
		}
	}
	return true
}

func clamp(n int) int {
	return max(0, min(100, n))
}
