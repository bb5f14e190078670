// Package extract turns card source files into card records.
//
// Card sources are object literals assigned to a marker such as
// "module.exports = ", with unquoted keys and behaviour functions trailing
// the data fields. Extraction is purely syntactic: comments are removed, the
// data fields are cut away from the functions, keys are quoted and the
// result is parsed as JSON.
package extract

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/ohler55/ojg/oj"

	"github.com/arcanaland/deckcrafter/internal/card"
)

// DefaultMarker introduces the object literal in a card source
const DefaultMarker = "module.exports = "

var (
	ErrMarkerNotFound  = errors.New("object literal marker not found")
	ErrNoFieldBoundary = errors.New("no field boundary found")
	ErrMalformedRecord = errors.New("malformed record")
)

// MalformedError is returned when the normalized text does not parse.
// Text holds the normalized text for diagnostics.
type MalformedError struct {
	Text string
	Err  error
}

func (e *MalformedError) Error() string {
	if e.Err == nil {
		return ErrMalformedRecord.Error()
	}
	return fmt.Sprintf("%v: %v", ErrMalformedRecord, e.Err)
}

func (e *MalformedError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrMalformedRecord) hold
func (e *MalformedError) Is(target error) bool {
	return target == ErrMalformedRecord
}

// Boundary selects how the data fields are separated from trailing functions
type Boundary int

const (
	// BoundaryBlankLine cuts at the first blank line
	BoundaryBlankLine Boundary = iota
	// BoundaryScan walks the top-level entries and cuts before the first method
	BoundaryScan
)

func (b Boundary) String() string {
	switch b {
	case BoundaryScan:
		return "scan"
	default:
		return "blank-line"
	}
}

// ParseBoundary parses the configuration name of a boundary strategy
func ParseBoundary(s string) (Boundary, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "blank-line", "blankline":
		return BoundaryBlankLine, nil
	case "scan":
		return BoundaryScan, nil
	}
	return BoundaryBlankLine, fmt.Errorf("unknown boundary strategy: %s", s)
}

// Extractor converts raw card source text into cards
type Extractor struct {
	Markers  []string
	Boundary Boundary
}

// New creates an extractor. With no markers DefaultMarker is used.
func New(markers []string, boundary Boundary) *Extractor {
	if len(markers) == 0 {
		markers = []string{DefaultMarker}
	}
	return &Extractor{Markers: markers, Boundary: boundary}
}

var defaultExtractor = New(nil, BoundaryBlankLine)

// Extract runs the default extractor
func Extract(text string) (card.Card, error) {
	return defaultExtractor.Extract(text)
}

// Extract normalizes text and parses it into a card
func (e *Extractor) Extract(text string) (card.Card, error) {
	normalized, err := e.Normalize(text)
	if err != nil {
		return card.Card{}, err
	}

	parsed, err := oj.ParseString(normalized)
	if err != nil {
		return card.Card{}, &MalformedError{Text: normalized, Err: err}
	}

	fields, ok := parsed.(map[string]any)
	if !ok {
		return card.Card{}, &MalformedError{
			Text: normalized,
			Err:  fmt.Errorf("expected an object, got %T", parsed),
		}
	}

	return card.New(fields), nil
}

var (
	blankLine = regexp.MustCompile(`\r?\n[ \t]*\r?\n`)
	bareKey   = regexp.MustCompile(`(?m)^([ \t{]*)([A-Za-z_$][A-Za-z0-9_$]*)[ \t]*:`)
)

// Normalize returns the JSON text of the object literal embedded in text
func (e *Extractor) Normalize(text string) (string, error) {
	text = strings.TrimSpace(StripComments(text))

	rest, ok := e.afterMarker(text)
	if !ok {
		return "", ErrMarkerNotFound
	}

	var fields string
	switch e.Boundary {
	case BoundaryScan:
		fields = ScanFields(rest)
	default:
		fields = rest
		if loc := blankLine.FindStringIndex(rest); loc != nil {
			fields = rest[:loc[0]]
		}
	}

	fields = strings.TrimSpace(fields)
	fields = strings.TrimSpace(strings.TrimSuffix(fields, ";"))
	if fields == "" {
		return "", ErrNoFieldBoundary
	}

	if strings.HasSuffix(fields, ",") {
		fields = fields[:len(fields)-1] + "}"
	}

	return DropTrailingCommas(bareKey.ReplaceAllString(fields, `${1}"${2}":`)), nil
}

// DropTrailingCommas removes every comma that is followed only by whitespace
// and a closing bracket or brace. String literals are kept intact.
func DropTrailingCommas(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	var quote byte
	for i := 0; i < len(s); i++ {
		ch := s[i]

		if quote != 0 {
			b.WriteByte(ch)
			switch {
			case ch == '\\' && i+1 < len(s):
				i++
				b.WriteByte(s[i])
			case ch == quote:
				quote = 0
			}
			continue
		}

		switch ch {
		case '"', '\'', '`':
			quote = ch
		case ',':
			j := i + 1
			for j < len(s) && isSpace(s[j]) {
				j++
			}
			if j < len(s) && (s[j] == '}' || s[j] == ']') {
				continue
			}
		}
		b.WriteByte(ch)
	}

	return b.String()
}

func (e *Extractor) afterMarker(text string) (string, bool) {
	markers := e.Markers
	if len(markers) == 0 {
		markers = []string{DefaultMarker}
	}
	for _, m := range markers {
		if i := strings.Index(text, m); i >= 0 {
			return text[i+len(m):], true
		}
	}
	return "", false
}

// StripComments removes // and /* */ comments. String literals are kept intact.
func StripComments(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	var quote byte
	for i := 0; i < len(s); i++ {
		ch := s[i]

		if quote != 0 {
			b.WriteByte(ch)
			switch {
			case ch == '\\' && i+1 < len(s):
				i++
				b.WriteByte(s[i])
			case ch == quote:
				quote = 0
			case ch == '\n' && quote != '`':
				// unterminated quote, don't let it swallow the rest of the file
				quote = 0
			}
			continue
		}

		switch {
		case ch == '"' || ch == '\'' || ch == '`':
			quote = ch
			b.WriteByte(ch)
		case ch == '/' && i+1 < len(s) && s[i+1] == '/':
			end := strings.IndexByte(s[i:], '\n')
			if end < 0 {
				i = len(s)
			} else {
				i += end - 1
			}
		case ch == '/' && i+1 < len(s) && s[i+1] == '*':
			end := strings.Index(s[i+2:], "*/")
			if end < 0 {
				i = len(s)
			} else {
				i += 2 + end + 1
			}
		default:
			b.WriteByte(ch)
		}
	}

	return b.String()
}

var methodEntry = regexp.MustCompile(
	`^(?:(?:async|get|set)\s+)?\*?\s*[A-Za-z_$][A-Za-z0-9_$]*\s*\(` +
		`|^[A-Za-z_$][A-Za-z0-9_$]*\s*:\s*(?:async\b|function\b|\([^()]*\)\s*=>|[A-Za-z_$][A-Za-z0-9_$]*\s*=>)`)

// ScanFields returns the data part of the object literal at the start of s.
// It tracks bracket depth and string literals, and stops before the first
// top-level method entry or after the closing brace of the literal.
func ScanFields(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return s
	}

	depth := 0
	entry := false
	var quote byte
	for i := start; i < len(s); i++ {
		ch := s[i]

		if quote != 0 {
			if ch == '\\' {
				i++
				continue
			}
			if ch == quote {
				quote = 0
			}
			continue
		}

		if depth == 1 && entry && !isSpace(ch) {
			entry = false
			if ch != '}' && methodEntry.MatchString(s[i:]) {
				return s[:i]
			}
		}

		switch ch {
		case '"', '\'', '`':
			quote = ch
		case '{', '[', '(':
			depth++
			if depth == 1 {
				entry = true
			}
		case '}', ']', ')':
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		case ',':
			if depth == 1 {
				entry = true
			}
		}
	}

	return s
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}
