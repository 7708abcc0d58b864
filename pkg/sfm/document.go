package sfm

// Document is an ordered sequence of entries parsed from (or destined for)
// one SFM text. The document owns its entries; callers needing an
// independent copy should Clone the entries they extract.
//
// A document is not safe for concurrent mutation; callers exposing one
// behind a service boundary serialize access themselves.
type Document struct {
	// Preamble holds fields that appeared before the first entry-start
	// marker. It is nil when the text opens with a regular entry.
	Preamble *Entry

	entries []*Entry

	// Lazy id index, dropped on any structural mutation.
	idx       map[string]*Entry
	idxMarker string
}

// NewDocument creates a document holding the given entries in order.
func NewDocument(entries ...*Entry) *Document {
	d := &Document{}
	d.entries = append(d.entries, entries...)
	return d
}

// Len returns the number of entries, the preamble excluded.
func (d *Document) Len() int {
	return len(d.entries)
}

// At returns the entry at position i. It panics if i is out of range, like a
// slice access.
func (d *Document) At(i int) *Entry {
	return d.entries[i]
}

// Entries returns the entry sequence. The slice is a copy but the entries
// are shared; mutate them through their own methods.
func (d *Document) Entries() []*Entry {
	out := make([]*Entry, len(d.entries))
	copy(out, d.entries)
	return out
}

// Append adds an entry at the end and invalidates the id index.
func (d *Document) Append(e *Entry) {
	d.entries = append(d.entries, e)
	d.invalidate()
}

// RemoveEntry deletes the entry at position i, closing the order gap and
// invalidating the id index.
func (d *Document) RemoveEntry(i int) error {
	if i < 0 || i >= len(d.entries) {
		return &PositionError{Index: i, Len: len(d.entries)}
	}
	d.entries = append(d.entries[:i], d.entries[i+1:]...)
	d.invalidate()
	return nil
}

func (d *Document) invalidate() {
	d.idx = nil
	d.idxMarker = ""
}

// Index returns the id-to-entry view for idMarker, built lazily and cached
// until the next structural mutation. Entries lacking the marker are absent
// from the view; on duplicate ids the first entry wins. Use UniqueIndex when
// collisions must be flagged.
func (d *Document) Index(idMarker string) map[string]*Entry {
	if d.idx != nil && d.idxMarker == idMarker {
		return d.idx
	}
	idx := make(map[string]*Entry)
	for _, e := range d.entries {
		id, ok := e.First(idMarker)
		if !ok {
			continue
		}
		if _, dup := idx[id]; !dup {
			idx[id] = e
		}
	}
	d.idx, d.idxMarker = idx, idMarker
	return idx
}

// UniqueIndex is like Index but returns a *DuplicateIDError carrying both
// conflicting entries when two entries share an id value. The document is
// left unchanged; resolution is the caller's decision.
func (d *Document) UniqueIndex(idMarker string) (map[string]*Entry, error) {
	idx := make(map[string]*Entry)
	for _, e := range d.entries {
		id, ok := e.First(idMarker)
		if !ok {
			continue
		}
		if first, dup := idx[id]; dup {
			return nil, &DuplicateIDError{Marker: idMarker, ID: id, First: first, Second: e}
		}
		idx[id] = e
	}
	d.idx, d.idxMarker = idx, idMarker
	return idx, nil
}
