package excerpt

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fwojciec/seomate"
)

// Ellipsis is appended to text cut short.
const Ellipsis = "..."

// Tier thresholds.
const (
	minSentenceLength  = 8
	minParagraphLength = 20
	minPartialBudget   = 15
	sentenceStop       = 0.7
	paragraphStop      = 0.5
	truncateMinimum    = 0.6
	aiOverflowFactor   = 1.5
)

var (
	labelRe     = regexp.MustCompile(`(?i)^(?:summary|excerpt|description|meta description|tl;?dr)\s*[:\-–—]\s*`)
	paragraphRe = regexp.MustCompile(`\n\s*\n`)
	spaceRe     = regexp.MustCompile(`\s+`)
)

// CleanAIText strips surrounding quotes, a leading label such as "Summary:"
// and collapses whitespace.
func CleanAIText(s string) string {
	s = stripQuotes(strings.TrimSpace(s))
	s = labelRe.ReplaceAllString(s, "")
	s = stripQuotes(strings.TrimSpace(s))
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

func stripQuotes(s string) string {
	pairs := [][2]string{{`"`, `"`}, {`'`, `'`}, {"“", "”"}, {"«", "»"}, {"`", "`"}}
	for _, p := range pairs {
		if len(s) >= len(p[0])+len(p[1]) && strings.HasPrefix(s, p[0]) && strings.HasSuffix(s, p[1]) {
			return strings.TrimSpace(s[len(p[0]) : len(s)-len(p[1])])
		}
	}
	return s
}

// ExtractSentences accumulates meaningful sentences of text up to target
// characters. Sentences under 8 characters or without whitespace are
// skipped.
func ExtractSentences(text string, target int) string {
	var units []string
	for _, s := range seomate.SplitSentences(text) {
		if utf8.RuneCountInString(s) < minSentenceLength || !strings.ContainsFunc(s, unicode.IsSpace) {
			continue
		}
		units = append(units, s)
	}
	return accumulate(units, target, sentenceStop)
}

// ExtractParagraphs accumulates blank-line separated paragraphs of text up
// to target characters. Paragraphs under 20 characters are skipped.
func ExtractParagraphs(text string, target int) string {
	var units []string
	for _, p := range paragraphRe.Split(text, -1) {
		p = strings.TrimSpace(spaceRe.ReplaceAllString(p, " "))
		if utf8.RuneCountInString(p) < minParagraphLength {
			continue
		}
		units = append(units, p)
	}
	return accumulate(units, target, paragraphStop)
}

// SmartTruncate cuts text at target characters, backing up to the last
// sentence end when it lies past 60% of the cut. Otherwise the hard cut is
// kept and an ellipsis appended.
func SmartTruncate(text string, target int) string {
	text = strings.TrimSpace(text)
	r := []rune(text)
	if len(r) <= target {
		return text
	}
	if target <= 0 {
		return ""
	}
	cut := r[:target]
	for i := len(cut) - 1; i >= 0; i-- {
		if cut[i] == '.' || cut[i] == '!' || cut[i] == '?' {
			if float64(i+1) > truncateMinimum*float64(target) {
				return string(cut[:i+1])
			}
			break
		}
	}
	return strings.TrimRightFunc(string(cut), unicode.IsSpace) + Ellipsis
}

// accumulate joins units with single spaces while they fit target. On the
// first unit that does not fit it stops if the text already reaches stop
// times target, and otherwise appends a word-bounded prefix of that unit
// when more than 15 characters of budget remain.
func accumulate(units []string, target int, stop float64) string {
	var b strings.Builder
	length := 0
	for _, u := range units {
		n := utf8.RuneCountInString(u)
		sep := 0
		if length > 0 {
			sep = 1
		}
		if length+sep+n <= target {
			if sep == 1 {
				b.WriteByte(' ')
			}
			b.WriteString(u)
			length += sep + n
			continue
		}

		if float64(length) >= stop*float64(target) {
			break
		}
		remaining := target - length - sep
		if remaining > minPartialBudget {
			if prefix := wordPrefix(u, remaining-utf8.RuneCountInString(Ellipsis)); prefix != "" {
				if sep == 1 {
					b.WriteByte(' ')
				}
				b.WriteString(prefix)
				b.WriteString(Ellipsis)
			}
		}
		break
	}
	return b.String()
}

// wordPrefix returns at most n runes of s, cut at a word boundary.
func wordPrefix(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	prefix := string(r[:n])
	if !unicode.IsSpace(r[n]) {
		if i := strings.LastIndexFunc(prefix, unicode.IsSpace); i > 0 {
			prefix = prefix[:i]
		}
	}
	return strings.TrimRight(prefix, " \t\n,;:-")
}
