package sfm

import (
	"regexp"
	"strings"
)

type lineKind uint8

const (
	lineBlank lineKind = iota
	lineMarker
	lineContinuation
)

// scanLine is one classified physical line.
type scanLine struct {
	kind   lineKind
	marker string // marker token, lineMarker only
	text   string // initial value fragment, or continuation/blank text
	num    int    // 1-based physical line number
}

// scanner classifies physical lines one at a time. The decision depends only
// on the shape of the current line, never on marker semantics or lookahead.
type scanner struct {
	lines    []string
	pos      int
	markerRe *regexp.Regexp
	indent   string
}

func newScanner(text string, d Dialect) *scanner {
	text = normalizeNewlines(text)
	// A final newline terminates the last line; it is not an empty line.
	text = strings.TrimSuffix(text, "\n")
	var lines []string
	if text != "" {
		lines = strings.Split(text, "\n")
	}
	return &scanner{
		lines:    lines,
		markerRe: d.markerPattern(),
		indent:   d.ContinuationIndent,
	}
}

// normalizeNewlines folds \r\n and bare \r line endings to \n.
func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// next returns the next classified line; ok is false at end of input.
func (s *scanner) next() (ln scanLine, ok bool) {
	if s.pos >= len(s.lines) {
		return scanLine{}, false
	}
	raw := s.lines[s.pos]
	s.pos++
	ln.num = s.pos

	if m := s.markerRe.FindStringSubmatch(raw); m != nil {
		ln.kind = lineMarker
		ln.marker = m[1]
		rest := raw[len(m[0]):]
		// Exactly one separating space or tab belongs to the line shape;
		// everything after it is the verbatim value fragment.
		if len(rest) > 0 && (rest[0] == ' ' || rest[0] == '\t') {
			rest = rest[1:]
		}
		ln.text = rest
		return ln, true
	}

	if strings.TrimSpace(raw) == "" {
		ln.kind = lineBlank
		ln.text = raw
		return ln, true
	}

	ln.kind = lineContinuation
	ln.text = raw
	if s.indent != "" {
		ln.text = strings.TrimPrefix(ln.text, s.indent)
	}
	return ln, true
}
