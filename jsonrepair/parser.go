package jsonrepair

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/seomate"
)

// PreviewLength is the number of runes of raw text kept on failed extraction.
const PreviewLength = 500

var (
	stringRe  = regexp.MustCompile(`"((?:[^"\\]|\\.)*)"`)
	objectRe  = regexp.MustCompile(`\{[^{}]*\}`)
	intPairRe = regexp.MustCompile(`"((?:[^"\\]|\\.)+)"\s*:\s*(-?\d+(?:\.\d+)?)`)
	strPairRe = regexp.MustCompile(`"((?:[^"\\]|\\.)+)"\s*:\s*"((?:[^"\\]|\\.)*)"`)

	keywordsRe        = regexp.MustCompile(`"keywords"\s*:\s*\[([^\[\]]*)\]`)
	scoreRe           = regexp.MustCompile(`"score"\s*:\s*\{([^{}]*)\}`)
	analysisRe        = regexp.MustCompile(`"analysis"\s*:\s*\{([^{}]*)\}`)
	recommendationsRe = regexp.MustCompile(`"recommendations"\s*:\s*\[((?:[^\[\]{}]|\{[^{}]*\})*)\]`)
)

var _ seomate.ResponseParser = (*Parser)(nil)

// Parser turns raw AI replies into StructuredAnalysis values. It never
// returns an error; failure is reported through the extraction state.
type Parser struct {
	// Expected is the default set of top-level fields.
	Expected []string

	Logger *slog.Logger
}

// NewParser returns a Parser expecting the default analysis fields.
func NewParser() *Parser {
	return &Parser{
		Expected: seomate.DefaultAnalysisFields,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Parse extracts an analysis from raw. When expected is empty the parser's
// default field set is used. Strict decoding is tried first, then bracket
// repair, then truncation to the last complete pair, and finally per-field
// pattern extraction.
func (p *Parser) Parse(raw string, expected []string) *seomate.StructuredAnalysis {
	if len(expected) == 0 {
		expected = p.Expected
	}
	if len(expected) == 0 {
		expected = seomate.DefaultAnalysisFields
	}

	text := StripFence(raw)
	obj := ObjectStart(text)
	steps := []struct {
		name string
		text func() string
	}{
		{"strict", func() string { return obj }},
		{"repair", func() string { return Repair(obj) }},
		{"truncate", func() string { return TruncateToLastPair(obj) }},
	}
	for _, step := range steps {
		candidate := step.text()
		if candidate == "" {
			continue
		}
		if a, ok := decode(candidate, expected); ok {
			p.logger().Debug("parsed ai response", "step", step.name, "state", a.ExtractionState)
			return a
		}
	}

	a := segment(text, expected)
	if a.ExtractionState == seomate.ExtractionFailed {
		a.RawPreview = preview(raw)
	}
	p.logger().Debug("parsed ai response", "step", "segmented", "state", a.ExtractionState, "recovered", len(a.Recovered))
	return a
}

func (p *Parser) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return p.Logger
}

// decode parses text as a JSON object. It fails when the text is not valid or
// carries no data for any expected field.
func decode(text string, expected []string) (*seomate.StructuredAnalysis, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &fields); err != nil {
		return nil, false
	}

	a := &seomate.StructuredAnalysis{}
	if v, ok := fields[seomate.FieldKeywords]; ok {
		a.Keywords = decodeKeywords(v)
	}
	if v, ok := fields[seomate.FieldScore]; ok {
		a.Scores = decodeScores(v)
	}
	if v, ok := fields[seomate.FieldAnalysis]; ok {
		a.Analysis = decodeAnalysis(v)
	}
	if v, ok := fields[seomate.FieldRecommendations]; ok {
		_ = json.Unmarshal(v, &a.Recommendations)
	}

	for _, name := range expected {
		if recoveredField(a, name, func(name string) bool {
			v, ok := fields[name]
			return ok && nonEmpty(v)
		}) {
			a.Recovered = append(a.Recovered, name)
		}
	}
	if len(a.Recovered) == 0 {
		return nil, false
	}
	classify(a, len(expected))
	return a, true
}

func decodeKeywords(raw json.RawMessage) []string {
	var items []any
	if err := json.Unmarshal(raw, &items); err != nil {
		// A comma separated string is accepted too.
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		for _, part := range strings.Split(s, ",") {
			items = append(items, part)
		}
	}
	var keywords []string
	for _, item := range items {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			keywords = append(keywords, strings.TrimSpace(s))
		}
	}
	return keywords
}

func decodeScores(raw json.RawMessage) map[string]int {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	scores := make(map[string]int, len(m))
	for k, v := range m {
		switch n := v.(type) {
		case float64:
			scores[k] = clampScore(n)
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
				scores[k] = clampScore(f)
			}
		}
	}
	return scores
}

func decodeAnalysis(raw json.RawMessage) map[string]string {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil || strings.TrimSpace(s) == "" {
			return nil
		}
		return map[string]string{"summary": strings.TrimSpace(s)}
	}
	analysis := make(map[string]string, len(m))
	for k, v := range m {
		switch s := v.(type) {
		case string:
			analysis[k] = s
		case nil:
		default:
			b, _ := json.Marshal(s)
			analysis[k] = string(b)
		}
	}
	return analysis
}

// segment extracts each known field independently with patterns. A field
// counts as recovered only if its match is non-empty.
func segment(text string, expected []string) *seomate.StructuredAnalysis {
	a := &seomate.StructuredAnalysis{}

	if inner, ok := submatch(keywordsRe, text); ok {
		for _, m := range stringRe.FindAllStringSubmatch(inner, -1) {
			if s := strings.TrimSpace(unquote(m[1])); s != "" {
				a.Keywords = append(a.Keywords, s)
			}
		}
	}

	if inner, ok := submatch(scoreRe, text); ok {
		for _, m := range intPairRe.FindAllStringSubmatch(inner, -1) {
			f, err := strconv.ParseFloat(m[2], 64)
			if err != nil {
				continue
			}
			if a.Scores == nil {
				a.Scores = make(map[string]int)
			}
			a.Scores[unquote(m[1])] = clampScore(f)
		}
	}

	if inner, ok := submatch(analysisRe, text); ok {
		for _, m := range strPairRe.FindAllStringSubmatch(inner, -1) {
			v := strings.TrimSpace(unquote(m[2]))
			if v == "" {
				continue
			}
			if a.Analysis == nil {
				a.Analysis = make(map[string]string)
			}
			a.Analysis[unquote(m[1])] = v
		}
	}

	if inner, ok := submatch(recommendationsRe, text); ok {
		a.Recommendations = extractRecommendations(inner)
	}

	for _, name := range expected {
		if recoveredField(a, name, func(name string) bool {
			return genericFieldRe(name).MatchString(text)
		}) {
			a.Recovered = append(a.Recovered, name)
		}
	}
	classify(a, len(expected))
	return a
}

// recoveredField reports whether a known field holds data. Fields outside
// the known schema are checked with other.
func recoveredField(a *seomate.StructuredAnalysis, name string, other func(string) bool) bool {
	switch name {
	case seomate.FieldKeywords:
		return len(a.Keywords) > 0
	case seomate.FieldScore:
		return len(a.Scores) > 0
	case seomate.FieldAnalysis:
		return len(a.Analysis) > 0
	case seomate.FieldRecommendations:
		return len(a.Recommendations) > 0
	default:
		return other(name)
	}
}

func nonEmpty(raw json.RawMessage) bool {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(x) != ""
	case []any:
		return len(x) > 0
	case map[string]any:
		return len(x) > 0
	}
	return true
}

// genericFieldRe matches a non-empty scalar, array or object value for a
// field outside the known schema.
func genericFieldRe(name string) *regexp.Regexp {
	return regexp.MustCompile(`"` + regexp.QuoteMeta(name) +
		`"\s*:\s*(?:"(?:[^"\\]|\\.)*[^"\s\\](?:[^"\\]|\\.)*"|-?\d|true|false|\[\s*[^\s\]]|\{\s*[^\s}])`)
}

// submatch returns the first capture group of re in text. Closing brackets
// are part of each pattern, so truncated values do not match.
func submatch(re *regexp.Regexp, text string) (string, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func extractRecommendations(inner string) []seomate.Recommendation {
	var recs []seomate.Recommendation
	objects := objectRe.FindAllString(inner, -1)
	for _, obj := range objects {
		var r seomate.Recommendation
		if err := json.Unmarshal([]byte(obj), &r); err != nil {
			continue
		}
		if r.Message != "" {
			recs = append(recs, r)
		}
	}
	if len(objects) > 0 {
		return recs
	}
	for _, m := range stringRe.FindAllStringSubmatch(inner, -1) {
		if s := strings.TrimSpace(unquote(m[1])); s != "" {
			recs = append(recs, seomate.Recommendation{Message: s})
		}
	}
	return recs
}

func classify(a *seomate.StructuredAnalysis, expected int) {
	n := len(a.Recovered)
	switch {
	case n == 0:
		a.ExtractionState = seomate.ExtractionFailed
		a.Note = fmt.Sprintf("recovered 0/%d fields", expected)
	case n < expected:
		a.ExtractionState = seomate.ExtractionPartial
		a.Note = fmt.Sprintf("recovered %d/%d fields (%s)", n, expected, strings.Join(a.Recovered, ", "))
	default:
		a.ExtractionState = seomate.ExtractionComplete
	}
}

func unquote(s string) string {
	var out string
	if err := json.Unmarshal([]byte(`"`+s+`"`), &out); err != nil {
		return s
	}
	return out
}

func clampScore(f float64) int {
	n := int(math.Round(f))
	switch {
	case n < 0:
		return 0
	case n > 100:
		return 100
	}
	return n
}

func preview(raw string) string {
	if utf8.RuneCountInString(raw) <= PreviewLength {
		return raw
	}
	return string([]rune(raw)[:PreviewLength])
}
