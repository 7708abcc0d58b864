package sfm

import "fmt"

// Parse parses SFM text into a Document using dialect d.
//
// Input normalizations: \r\n and \r line endings are folded to \n, blank
// lines before the first marker line are dropped, and a trailing newline is
// treated as the terminator of the last line.
//
// A continuation line with no open field to extend is a structural error:
// Parse returns a *DanglingContinuationError and no entries. Input that
// never matches the marker pattern at all is reported as ErrNoMarkers
// together with an empty, usable Document, since that usually means the
// dialect's marker prefix does not match the text. With d.UniqueIDs set, a
// colliding id value yields a *DuplicateIDError alongside the fully parsed
// document so the caller can resolve the conflict.
func Parse(text string, d Dialect) (*Document, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	sc := newScanner(text, d)
	doc := &Document{}

	var cur *Entry  // entry under construction
	var open *Entry // entry holding the field a continuation would extend
	var dangling *DanglingContinuationError
	sawMarker := false
	sawContent := false

	flush := func() {
		if cur != nil {
			doc.entries = append(doc.entries, cur)
			cur = nil
		}
	}

	for {
		ln, ok := sc.next()
		if !ok {
			break
		}
		switch ln.kind {
		case lineMarker:
			sawMarker = true
			sawContent = true
			if d.BlankLineSeparators {
				if cur == nil {
					cur = &Entry{}
				}
			} else if ln.marker == d.EntryMarker {
				flush()
				cur = &Entry{}
			}
			if cur != nil {
				cur.Append(ln.marker, ln.text)
				open = cur
			} else {
				// Fields before the first entry marker form the preamble.
				if doc.Preamble == nil {
					doc.Preamble = &Entry{}
				}
				doc.Preamble.Append(ln.marker, ln.text)
				open = doc.Preamble
			}

		case lineBlank:
			if d.BlankLineSeparators {
				flush()
				open = nil
				continue
			}
			// Blank lines inside a field are part of its value, verbatim.
			if open != nil {
				open.extendLast(ln.text)
			}

		case lineContinuation:
			sawContent = true
			if open == nil || !open.extendLast(ln.text) {
				if dangling == nil {
					dangling = &DanglingContinuationError{Line: ln.num, Text: ln.text}
				}
			}
		}
	}
	flush()

	if !sawMarker {
		if sawContent {
			return &Document{}, fmt.Errorf("%w (marker prefix %q)", ErrNoMarkers, d.MarkerPrefix)
		}
		return doc, nil
	}
	if dangling != nil {
		return nil, dangling
	}
	if d.UniqueIDs {
		if _, err := doc.UniqueIndex(d.IDMarker); err != nil {
			return doc, err
		}
	}
	return doc, nil
}

// ParseEntry parses a single text block into one entry, ignoring entry
// boundaries: every marker field in the block is appended in order.
func ParseEntry(block string, d Dialect) (*Entry, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	sc := newScanner(block, d)
	e := &Entry{}
	var dangling *DanglingContinuationError
	sawMarker := false
	sawContent := false

	for {
		ln, ok := sc.next()
		if !ok {
			break
		}
		switch ln.kind {
		case lineMarker:
			sawMarker = true
			sawContent = true
			e.Append(ln.marker, ln.text)
		case lineBlank:
			if e.Len() > 0 {
				e.extendLast(ln.text)
			}
		case lineContinuation:
			sawContent = true
			if !e.extendLast(ln.text) && dangling == nil {
				dangling = &DanglingContinuationError{Line: ln.num, Text: ln.text}
			}
		}
	}

	if !sawMarker && sawContent {
		return &Entry{}, fmt.Errorf("%w (marker prefix %q)", ErrNoMarkers, d.MarkerPrefix)
	}
	if dangling != nil {
		return nil, dangling
	}
	return e, nil
}

// ParseMapped parses text and renames markers on the way in: every marker
// with an entry in markerMap is replaced by the mapped name. Boundary
// detection still uses the source markers of dialect d.
func ParseMapped(text string, d Dialect, markerMap map[string]string) (*Document, error) {
	doc, err := Parse(text, d)
	if doc == nil || len(markerMap) == 0 {
		return doc, err
	}
	rename := func(f Field) []Field {
		if to, ok := markerMap[f.Marker]; ok {
			f.Marker = to
		}
		return []Field{f}
	}
	if doc.Preamble != nil {
		doc.Preamble.Visit(rename)
	}
	for _, e := range doc.entries {
		e.Visit(rename)
	}
	return doc, err
}
