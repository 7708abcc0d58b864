package sfm

import (
	"regexp"
	"strings"
)

// Transform rewrites one entry into zero or more entries. Implementations
// must be pure: the input entry is never mutated, and no state is shared
// across invocations. The canonical transforms (Rename, RenamePattern, Drop,
// Keep, MergeAdjacent, Split) cover the common bulk edits; EntryFunc and
// FieldFunc are the escape hatch for caller-supplied logic.
type Transform interface {
	Apply(e *Entry) ([]*Entry, error)
}

// Pipeline is an ordered sequence of transforms applied left to right. Each
// transform sees only the output of the previous one.
type Pipeline []Transform

// Run applies the pipeline to every entry of doc, accumulating results into
// a new document; doc itself is never mutated. The preamble is carried over
// untouched. On error the partial result is discarded and doc is unchanged.
func (p Pipeline) Run(doc *Document) (*Document, error) {
	out := &Document{}
	if doc.Preamble != nil {
		out.Preamble = doc.Preamble.Clone()
	}
	for _, e := range doc.entries {
		res, err := p.RunEntry(e)
		if err != nil {
			return nil, err
		}
		out.entries = append(out.entries, res...)
	}
	return out, nil
}

// RunEntry applies the pipeline to a single entry and returns the resulting
// entries. The input entry is never mutated.
func (p Pipeline) RunEntry(e *Entry) ([]*Entry, error) {
	cur := []*Entry{e.Clone()}
	for _, t := range p {
		var next []*Entry
		for _, in := range cur {
			res, err := t.Apply(in)
			if err != nil {
				return nil, err
			}
			next = append(next, res...)
		}
		cur = next
	}
	return cur, nil
}

// Rename replaces every exact occurrence of marker From with To.
type Rename struct {
	From string
	To   string
}

// Apply implements Transform.
func (t Rename) Apply(e *Entry) ([]*Entry, error) {
	out := e.Clone()
	out.Visit(func(f Field) []Field {
		if f.Marker == t.From {
			f.Marker = t.To
		}
		return []Field{f}
	})
	return []*Entry{out}, nil
}

// RenamePattern rewrites every marker matching Pattern using To as the
// replacement template ($1 style group references are expanded).
type RenamePattern struct {
	Pattern *regexp.Regexp
	To      string
}

// Apply implements Transform.
func (t RenamePattern) Apply(e *Entry) ([]*Entry, error) {
	out := e.Clone()
	out.Visit(func(f Field) []Field {
		if t.Pattern.MatchString(f.Marker) {
			f.Marker = t.Pattern.ReplaceAllString(f.Marker, t.To)
		}
		return []Field{f}
	})
	return []*Entry{out}, nil
}

// Drop removes every field bearing one of the listed markers.
type Drop struct {
	Markers []string
}

// Apply implements Transform.
func (t Drop) Apply(e *Entry) ([]*Entry, error) {
	drop := markerSet(t.Markers)
	out := e.Clone()
	out.Visit(func(f Field) []Field {
		if _, ok := drop[f.Marker]; ok {
			return nil
		}
		return []Field{f}
	})
	return []*Entry{out}, nil
}

// Keep removes every field whose marker is not in the listed set.
type Keep struct {
	Markers []string
}

// Apply implements Transform.
func (t Keep) Apply(e *Entry) ([]*Entry, error) {
	keep := markerSet(t.Markers)
	out := e.Clone()
	out.Visit(func(f Field) []Field {
		if _, ok := keep[f.Marker]; ok {
			return []Field{f}
		}
		return nil
	})
	return []*Entry{out}, nil
}

// MergeAdjacent joins runs of consecutive fields bearing Marker into one
// field, the values joined with Separator. Non-adjacent repeats stay apart.
type MergeAdjacent struct {
	Marker    string
	Separator string
}

// Apply implements Transform.
func (t MergeAdjacent) Apply(e *Entry) ([]*Entry, error) {
	out := &Entry{fields: make([]Field, 0, e.Len())}
	for _, f := range e.fields {
		n := len(out.fields)
		if f.Marker == t.Marker && n > 0 && out.fields[n-1].Marker == t.Marker {
			out.fields[n-1].Value += t.Separator + f.Value
			continue
		}
		out.fields = append(out.fields, f)
	}
	return []*Entry{out}, nil
}

// fieldSplitter is the conventional multi-value separator in MDF exports,
// e.g. "\ge gloss one; gloss two".
var fieldSplitter = regexp.MustCompile(`;\s+`)

// Split fans an entry out into one entry per value of Marker: values are
// collected from every occurrence of the marker, each split by Pattern, and
// each resulting part yields a copy of the entry carrying that single part
// at the position of the first occurrence. Entries without the marker pass
// through unchanged.
type Split struct {
	Marker  string
	Pattern *regexp.Regexp // nil means the "; " convention
}

// Apply implements Transform.
func (t Split) Apply(e *Entry) ([]*Entry, error) {
	pat := t.Pattern
	if pat == nil {
		pat = fieldSplitter
	}
	var parts []string
	for _, v := range e.Get(t.Marker) {
		for _, p := range pat.Split(v, -1) {
			if strings.TrimSpace(p) == "" {
				continue
			}
			parts = append(parts, p)
		}
	}
	if len(parts) <= 1 {
		return []*Entry{e.Clone()}, nil
	}

	out := make([]*Entry, 0, len(parts))
	for _, part := range parts {
		clone := &Entry{fields: make([]Field, 0, e.Len())}
		placed := false
		for _, f := range e.fields {
			if f.Marker == t.Marker {
				if !placed {
					clone.fields = append(clone.fields, Field{Marker: t.Marker, Value: part})
					placed = true
				}
				continue
			}
			clone.fields = append(clone.fields, f)
		}
		out = append(out, clone)
	}
	return out, nil
}

// EntryFunc adapts a caller-supplied pure function to the Transform
// interface. The function receives a private clone and may return it
// modified, replaced, expanded, or dropped.
type EntryFunc func(e *Entry) ([]*Entry, error)

// Apply implements Transform.
func (fn EntryFunc) Apply(e *Entry) ([]*Entry, error) {
	return fn(e.Clone())
}

// FieldFunc lifts a field-level pure function into an entry transform: it is
// applied to every field in order with Entry.Visit semantics.
type FieldFunc func(f Field) []Field

// Apply implements Transform.
func (fn FieldFunc) Apply(e *Entry) ([]*Entry, error) {
	out := e.Clone()
	out.Visit(fn)
	return []*Entry{out}, nil
}

func markerSet(markers []string) map[string]struct{} {
	set := make(map[string]struct{}, len(markers))
	for _, m := range markers {
		set[m] = struct{}{}
	}
	return set
}
