// Package sfm reads, transforms, and writes SIL Standard Format (SFM) text,
// the line-oriented marker format used natively by Toolbox and exported by
// tools such as FLEx and ELAN. A document is an ordered sequence of entries;
// an entry is an ordered, duplicate-tolerant sequence of marker/value fields.
//
// Parsing and serialization are driven by an explicit Dialect value, so
// documents with different marker conventions can be processed side by side.
// Field order and marker multiplicity are preserved end to end: formatting an
// unmodified parsed document reproduces the input text modulo the newline and
// trailing-whitespace normalizations documented on Parse and Format.
package sfm

// Field is one marker/value pair. Values may span multiple physical lines;
// the fragments are stored joined with single newlines.
type Field struct {
	Marker string
	Value  string
}

// Entry is one logical record: an ordered sequence of fields in which a
// marker may repeat any number of times.
type Entry struct {
	fields []Field
}

// NewEntry creates an entry from the given fields, preserving their order.
func NewEntry(fields ...Field) *Entry {
	e := &Entry{}
	e.fields = append(e.fields, fields...)
	return e
}

// Len returns the number of fields.
func (e *Entry) Len() int {
	return len(e.fields)
}

// At returns the field at position i. It panics if i is out of range, like a
// slice access.
func (e *Entry) At(i int) Field {
	return e.fields[i]
}

// Fields returns a copy of the field sequence.
func (e *Entry) Fields() []Field {
	out := make([]Field, len(e.fields))
	copy(out, e.fields)
	return out
}

// Append adds a field at the end. Existing order is preserved and duplicate
// markers are not collapsed.
func (e *Entry) Append(marker, value string) {
	e.fields = append(e.fields, Field{Marker: marker, Value: value})
}

// Insert places f at position i, shifting later fields right.
func (e *Entry) Insert(i int, f Field) error {
	if i < 0 || i > len(e.fields) {
		return &PositionError{Index: i, Len: len(e.fields)}
	}
	e.fields = append(e.fields, Field{})
	copy(e.fields[i+1:], e.fields[i:])
	e.fields[i] = f
	return nil
}

// RemoveAt deletes the field at position i, closing the order gap.
func (e *Entry) RemoveAt(i int) error {
	if i < 0 || i >= len(e.fields) {
		return &PositionError{Index: i, Len: len(e.fields)}
	}
	e.fields = append(e.fields[:i], e.fields[i+1:]...)
	return nil
}

// RemoveAll deletes every field bearing marker and reports how many were
// removed.
func (e *Entry) RemoveAll(marker string) int {
	kept := e.fields[:0]
	removed := 0
	for _, f := range e.fields {
		if f.Marker == marker {
			removed++
			continue
		}
		kept = append(kept, f)
	}
	e.fields = kept
	return removed
}

// Get returns all values recorded for marker, in field order. A missing
// marker yields an empty slice, never an error.
func (e *Entry) Get(marker string) []string {
	var out []string
	for _, f := range e.fields {
		if f.Marker == marker {
			out = append(out, f.Value)
		}
	}
	return out
}

// First returns the first value recorded for marker.
func (e *Entry) First(marker string) (string, bool) {
	for _, f := range e.fields {
		if f.Marker == marker {
			return f.Value, true
		}
	}
	return "", false
}

// Markers returns the marker sequence in field order, duplicates included.
func (e *Entry) Markers() []string {
	out := make([]string, len(e.fields))
	for i, f := range e.fields {
		out[i] = f.Marker
	}
	return out
}

// MarkerCounts returns a map of markers to occurrence counts.
func (e *Entry) MarkerCounts() map[string]int {
	out := make(map[string]int, len(e.fields))
	for _, f := range e.fields {
		out[f.Marker]++
	}
	return out
}

// Visit applies fn to every field in place, in original order. fn may return
// the field unchanged, a replacement, zero fields to drop it, or several
// fields to expand it; the relative order of all other fields is preserved.
func (e *Entry) Visit(fn func(Field) []Field) {
	out := make([]Field, 0, len(e.fields))
	for _, f := range e.fields {
		out = append(out, fn(f)...)
	}
	e.fields = out
}

// Clone returns a deep copy of the entry.
func (e *Entry) Clone() *Entry {
	return NewEntry(e.fields...)
}

// extendLast joins text onto the value of the most recently appended field.
// It reports false when the entry has no field to extend.
func (e *Entry) extendLast(text string) bool {
	if len(e.fields) == 0 {
		return false
	}
	e.fields[len(e.fields)-1].Value += "\n" + text
	return true
}
