package sfm

import "strings"

// Format renders a document back to SFM text: the preamble first, then every
// entry in order, with field order and marker multiplicity intact. Output
// uses \n line endings and ends with a single trailing newline; dialects
// with BlankLineSeparators emit one blank line between entries.
//
// For a document produced by Parse and not mutated since, Format reproduces
// the source text modulo the normalizations documented on Parse plus one of
// its own: a marker line whose value is empty is emitted as the bare marker,
// with no trailing separator space.
func Format(doc *Document, d Dialect) string {
	var b strings.Builder
	sep := "\n"
	if d.BlankLineSeparators {
		sep = "\n\n"
	}
	first := true
	write := func(e *Entry) {
		if e.Len() == 0 {
			return
		}
		if !first {
			b.WriteString(sep)
		}
		first = false
		writeEntry(&b, e, d)
	}
	if doc.Preamble != nil {
		write(doc.Preamble)
	}
	for _, e := range doc.entries {
		write(e)
	}
	if b.Len() == 0 {
		return ""
	}
	b.WriteByte('\n')
	return b.String()
}

// FormatEntry renders one entry to SFM text without a trailing newline.
func FormatEntry(e *Entry, d Dialect) string {
	var b strings.Builder
	writeEntry(&b, e, d)
	return b.String()
}

func writeEntry(b *strings.Builder, e *Entry, d Dialect) {
	for i := 0; i < e.Len(); i++ {
		if i > 0 {
			b.WriteByte('\n')
		}
		f := e.At(i)
		lines := strings.Split(f.Value, "\n")
		b.WriteString(d.MarkerPrefix)
		b.WriteString(f.Marker)
		if lines[0] != "" {
			b.WriteByte(' ')
			b.WriteString(lines[0])
		}
		for _, ln := range lines[1:] {
			b.WriteByte('\n')
			// Blank value lines stay blank; the indent only dresses
			// continuation text.
			if strings.TrimSpace(ln) != "" {
				b.WriteString(d.ContinuationIndent)
			}
			b.WriteString(ln)
		}
	}
}
