// Package jsonrepair recovers structured analysis data from AI replies that
// are not valid JSON.
package jsonrepair

import (
	"regexp"
	"strings"
)

var (
	fenceRe = regexp.MustCompile("(?s)```[a-zA-Z]*\\s*(.*?)\\s*(?:```|$)")
	pairRe  = regexp.MustCompile(`"(?:[^"\\]|\\.)*"\s*:\s*"(?:[^"\\]|\\.)*"`)
)

// StripFence returns the contents of a Markdown code fence, or s trimmed
// when there is none.
func StripFence(s string) string {
	s = strings.TrimSpace(s)
	if m := fenceRe.FindStringSubmatch(s); m != nil {
		s = m[1]
	}
	return strings.TrimSpace(s)
}

// ObjectStart drops any prose before the first opening brace.
func ObjectStart(s string) string {
	if i := strings.IndexByte(s, '{'); i > 0 {
		return s[i:]
	}
	return s
}

// Repair removes control characters, drops trailing commas before closing
// brackets and, when the text ends on a complete value, closes any brackets
// left open. Text that ends mid-token is returned without closing.
// Repair(Repair(s)) == Repair(s).
func Repair(s string) string {
	var (
		out      []byte
		stack    []byte
		inString bool
		escaped  bool
		// expectKey is true when the next string inside an object is a key.
		expectKey bool
		// lastKey is true when the most recent closed string was a key.
		lastKey bool
		// keyString marks the string currently being read as a key.
		keyString bool
	)

	for i := 0; i < len(s); i++ {
		c := s[i]

		if inString {
			switch {
			case escaped:
				escaped = false
				out = append(out, c)
			case c == '\\':
				escaped = true
				out = append(out, c)
			case c == '"':
				inString = false
				lastKey = keyString
				out = append(out, c)
			case c == '\n':
				out = append(out, '\\', 'n')
			case c == '\r':
				out = append(out, '\\', 'r')
			case c == '\t':
				out = append(out, '\\', 't')
			case c < 0x20 || c == 0x7f:
			default:
				out = append(out, c)
			}
			continue
		}

		if (c < 0x20 && c != '\n' && c != '\r' && c != '\t') || c == 0x7f {
			continue
		}

		switch c {
		case '"':
			inString = true
			keyString = len(stack) > 0 && stack[len(stack)-1] == '{' && expectKey
			lastKey = false
		case '{':
			stack = append(stack, c)
			expectKey = true
		case '[':
			stack = append(stack, c)
			expectKey = false
		case ':':
			expectKey = false
		case ',':
			expectKey = len(stack) > 0 && stack[len(stack)-1] == '{'
		case '}', ']':
			out = dropTrailingComma(out)
			if len(stack) > 0 && stack[len(stack)-1] == opener(c) {
				stack = stack[:len(stack)-1]
			}
			expectKey = false
			lastKey = false
		}
		out = append(out, c)
	}

	if inString || len(stack) == 0 {
		return string(out)
	}

	trimmed := strings.TrimRight(string(out), " \t\r\n")
	closable := trimmed
	if strings.HasSuffix(closable, ",") {
		closable = strings.TrimRight(closable, ", \t\r\n")
		// The comma was read as a separator; the preceding string is a value.
		lastKey = false
	}
	if !endsOnCompleteValue(closable, lastKey) {
		return string(out)
	}

	var b strings.Builder
	b.WriteString(closable)
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == '{' {
			b.WriteByte('}')
		} else {
			b.WriteByte(']')
		}
	}
	return b.String()
}

// TruncateToLastPair cuts s after the last complete "key": "value" pair and
// repairs the remainder. It returns an empty string when no pair exists.
func TruncateToLastPair(s string) string {
	locs := pairRe.FindAllStringIndex(s, -1)
	if len(locs) == 0 {
		return ""
	}
	return Repair(s[:locs[len(locs)-1][1]])
}

func endsOnCompleteValue(s string, lastKey bool) bool {
	if s == "" {
		return false
	}
	switch s[len(s)-1] {
	case '{', '[', '}', ']':
		return true
	case '"':
		return !lastKey
	default:
		return false
	}
}

// dropTrailingComma removes every comma between the last value and a closing
// bracket, keeping the whitespace around them.
func dropTrailingComma(out []byte) []byte {
	for {
		i := len(out) - 1
		for i >= 0 && isSpace(out[i]) {
			i--
		}
		if i < 0 || out[i] != ',' {
			return out
		}
		out = append(out[:i], out[i+1:]...)
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func opener(c byte) byte {
	if c == '}' {
		return '{'
	}
	return '['
}
