package sfm

import (
	"errors"
	"strings"
	"testing"
)

func TestParse_EntryBoundary(t *testing.T) {
	text := "\\lx kan\n\\ge water\n\\lx bo\n\\ge house\n\\lx ta\n"
	doc, err := Parse(text, DefaultDialect())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.Len() != 3 {
		t.Fatalf("entries = %d, want 3", doc.Len())
	}
	if doc.Preamble != nil {
		t.Errorf("unexpected preamble: %v", doc.Preamble.Markers())
	}
}

func TestParse_OrderAndMultiplicity(t *testing.T) {
	text := "\\lx kan\n\\ex one\n\\ge water\n\\ex two\n\\ex three\n"
	doc, err := Parse(text, DefaultDialect())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	e := doc.At(0)
	want := []string{"lx", "ex", "ge", "ex", "ex"}
	got := e.Markers()
	if len(got) != len(want) {
		t.Fatalf("markers = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("markers = %v, want %v", got, want)
		}
	}
	ex := e.Get("ex")
	if len(ex) != 3 || ex[0] != "one" || ex[1] != "two" || ex[2] != "three" {
		t.Errorf("ex values = %v", ex)
	}
	if vals := e.Get("missing"); len(vals) != 0 {
		t.Errorf("missing marker should yield empty slice, got %v", vals)
	}
}

func TestParse_ContinuationJoining(t *testing.T) {
	text := "\\lx kan\n\\de first fragment\nsecond fragment\nthird fragment\n"
	doc, err := Parse(text, DefaultDialect())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	de, ok := doc.At(0).First("de")
	if !ok {
		t.Fatal("de field missing")
	}
	want := "first fragment\nsecond fragment\nthird fragment"
	if de != want {
		t.Errorf("de = %q, want %q", de, want)
	}
}

func TestParse_Preamble(t *testing.T) {
	text := "\\_sh v3.0 MDF\n\\id corpus-1\n\\lx kan\n\\ge water\n"
	doc, err := Parse(text, DefaultDialect())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.Preamble == nil {
		t.Fatal("preamble missing")
	}
	if doc.Preamble.Len() != 2 {
		t.Errorf("preamble fields = %d, want 2", doc.Preamble.Len())
	}
	if doc.Len() != 1 {
		t.Errorf("entries = %d, want 1", doc.Len())
	}
}

func TestParse_ConsecutiveEntryMarkers(t *testing.T) {
	text := "\\lx one\n\\lx two\n\\lx three\n"
	doc, err := Parse(text, DefaultDialect())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.Len() != 3 {
		t.Fatalf("entries = %d, want 3", doc.Len())
	}
	for i, want := range []string{"one", "two", "three"} {
		if v, _ := doc.At(i).First("lx"); v != want {
			t.Errorf("entry %d lx = %q, want %q", i, v, want)
		}
	}
}

func TestParse_DanglingContinuation(t *testing.T) {
	text := "orphan line\n\\lx kan\n"
	doc, err := Parse(text, DefaultDialect())
	var dc *DanglingContinuationError
	if !errors.As(err, &dc) {
		t.Fatalf("err = %v, want DanglingContinuationError", err)
	}
	if dc.Line != 1 {
		t.Errorf("line = %d, want 1", dc.Line)
	}
	if doc != nil {
		t.Error("no entries should be returned on structural failure")
	}
}

func TestParse_NoMarkers(t *testing.T) {
	text := "plain text\nwithout any markers\n"
	doc, err := Parse(text, DefaultDialect())
	if !errors.Is(err, ErrNoMarkers) {
		t.Fatalf("err = %v, want ErrNoMarkers", err)
	}
	if doc == nil || doc.Len() != 0 {
		t.Error("want empty but usable document")
	}
}

func TestParse_BlankInput(t *testing.T) {
	for _, text := range []string{"", "\n", "\n\n  \n"} {
		doc, err := Parse(text, DefaultDialect())
		if err != nil {
			t.Errorf("Parse(%q): %v", text, err)
		}
		if doc.Len() != 0 {
			t.Errorf("Parse(%q): entries = %d, want 0", text, doc.Len())
		}
	}
}

func TestParse_BlankLineSeparators(t *testing.T) {
	d := DefaultDialect()
	d.BlankLineSeparators = true
	text := "\\ex Yax bo'on ta sna Antonio.\n\\exEn I'm going to Antonio's house.\n\n\\ex Ban yax ba'at?\n\\exEn Where are you going?\n\\exFr Ou allez-vous?\n"
	doc, err := Parse(text, d)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.Len() != 2 {
		t.Fatalf("entries = %d, want 2", doc.Len())
	}
	counts := doc.At(1).MarkerCounts()
	if counts["ex"] != 1 || counts["exEn"] != 1 || counts["exFr"] != 1 {
		t.Errorf("counts = %v", counts)
	}
	if v, _ := doc.At(1).First("exFr"); v != "Ou allez-vous?" {
		t.Errorf("exFr = %q", v)
	}
}

func TestParse_BlankLineInsideFieldKept(t *testing.T) {
	text := "\\lx kan\n\\de line one\n\nline two\n"
	doc, err := Parse(text, DefaultDialect())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	de, _ := doc.At(0).First("de")
	if de != "line one\n\nline two" {
		t.Errorf("de = %q", de)
	}
}

func TestParse_DuplicateID(t *testing.T) {
	d := DefaultDialect()
	d.UniqueIDs = true
	text := "\\lx kan\n\\ge water\n\\lx kan\n\\ge also water\n"

	doc, err := Parse(text, d)
	var dup *DuplicateIDError
	if !errors.As(err, &dup) {
		t.Fatalf("err = %v, want DuplicateIDError", err)
	}
	if dup.ID != "kan" || dup.Marker != "lx" {
		t.Errorf("conflict = %q/%q", dup.Marker, dup.ID)
	}
	if dup.First == nil || dup.Second == nil || dup.First == dup.Second {
		t.Error("error should carry both conflicting entries")
	}
	// Recoverable: the parsed document is still returned in full.
	if doc == nil || doc.Len() != 2 {
		t.Error("document should be returned alongside the conflict")
	}

	// Uniqueness disabled: both entries retrievable by position.
	d.UniqueIDs = false
	doc, err = Parse(text, d)
	if err != nil {
		t.Fatalf("Parse without uniqueness: %v", err)
	}
	if doc.Len() != 2 {
		t.Errorf("entries = %d, want 2", doc.Len())
	}
}

func TestParse_CRLFNormalized(t *testing.T) {
	doc, err := Parse("\\lx kan\r\n\\ge water\r\n", DefaultDialect())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if v, _ := doc.At(0).First("ge"); v != "water" {
		t.Errorf("ge = %q, want %q", v, "water")
	}
}

func TestParse_BadDialect(t *testing.T) {
	_, err := Parse("\\lx kan\n", Dialect{MarkerPrefix: "", EntryMarker: "lx"})
	if !errors.Is(err, ErrBadDialect) {
		t.Errorf("empty prefix: err = %v, want ErrBadDialect", err)
	}
	_, err = Parse("\\lx kan\n", Dialect{MarkerPrefix: `\`, EntryMarker: ""})
	if !errors.Is(err, ErrBadDialect) {
		t.Errorf("empty entry marker: err = %v, want ErrBadDialect", err)
	}
	d := DefaultDialect()
	d.IDMarker = ""
	d.UniqueIDs = true
	if err := d.Validate(); !errors.Is(err, ErrBadDialect) {
		t.Errorf("unique ids without id marker: err = %v, want ErrBadDialect", err)
	}
}

func TestRoundTrip(t *testing.T) {
	d := DefaultDialect()
	texts := []string{
		"\\lx kan\n\\ge water\n",
		"\\lx kan\n\\de long description\nwith a continuation\n\\ge water\n\\lx bo\n\\ge house\n",
		"\\_sh v3.0 MDF\n\\lx kan\n\\ex example\n\nafter a blank\n",
		"\\lx kan\n\\dt\n\\ge water\n",
	}
	for _, text := range texts {
		doc, err := Parse(text, d)
		if err != nil {
			t.Fatalf("Parse(%q): %v", text, err)
		}
		if got := Format(doc, d); got != text {
			t.Errorf("round trip:\n in: %q\nout: %q", text, got)
		}
	}
}

func TestRoundTrip_BlankSeparators(t *testing.T) {
	d := DefaultDialect()
	d.BlankLineSeparators = true
	text := "\\ex one\n\\exEn first\n\n\\ex two\n\\exEn second\n"
	doc, err := Parse(text, d)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := Format(doc, d); got != text {
		t.Errorf("round trip:\n in: %q\nout: %q", text, got)
	}
}

func TestRoundTrip_ContinuationIndent(t *testing.T) {
	d := DefaultDialect()
	d.ContinuationIndent = "  "
	text := "\\lx kan\n\\de first\n  second\n  third\n"
	doc, err := Parse(text, d)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	de, _ := doc.At(0).First("de")
	if de != "first\nsecond\nthird" {
		t.Fatalf("indent not stripped: %q", de)
	}
	if got := Format(doc, d); got != text {
		t.Errorf("round trip:\n in: %q\nout: %q", text, got)
	}
}

func TestFormatEntry_BareMarker(t *testing.T) {
	e := NewEntry(Field{Marker: "dt"}, Field{Marker: "ge", Value: "water"})
	got := FormatEntry(e, DefaultDialect())
	want := "\\dt\n\\ge water"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestParseEntry_IgnoresBoundaries(t *testing.T) {
	block := "\\lx kan\n\\ge water\n\\lx bo\n"
	e, err := ParseEntry(block, DefaultDialect())
	if err != nil {
		t.Fatalf("ParseEntry: %v", err)
	}
	if e.Len() != 3 {
		t.Errorf("fields = %d, want 3", e.Len())
	}
	if vals := e.Get("lx"); len(vals) != 2 {
		t.Errorf("lx values = %v", vals)
	}
}

func TestParseMapped(t *testing.T) {
	doc, err := ParseMapped("\\lx kan\n\\ge water\n", DefaultDialect(), map[string]string{"lx": "headword"})
	if err != nil {
		t.Fatalf("ParseMapped: %v", err)
	}
	if v, ok := doc.At(0).First("headword"); !ok || v != "kan" {
		t.Errorf("headword = %q, ok = %v", v, ok)
	}
	if _, ok := doc.At(0).First("lx"); ok {
		t.Error("source marker should be gone")
	}
}

func TestIndex_LazyAndInvalidated(t *testing.T) {
	doc, err := Parse("\\lx kan\n\\lx bo\n", DefaultDialect())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	idx := doc.Index("lx")
	if len(idx) != 2 || idx["kan"] == nil || idx["bo"] == nil {
		t.Fatalf("index = %v", idx)
	}
	doc.Append(NewEntry(Field{Marker: "lx", Value: "ta"}))
	idx = doc.Index("lx")
	if len(idx) != 3 || idx["ta"] == nil {
		t.Errorf("index not rebuilt after mutation: %v", idx)
	}
	if err := doc.RemoveEntry(0); err != nil {
		t.Fatalf("RemoveEntry: %v", err)
	}
	if idx = doc.Index("lx"); idx["kan"] != nil {
		t.Error("removed entry still indexed")
	}
}

func TestUniqueIndex_Conflict(t *testing.T) {
	doc := NewDocument(
		NewEntry(Field{Marker: "lx", Value: "kan"}),
		NewEntry(Field{Marker: "lx", Value: "kan"}),
	)
	_, err := doc.UniqueIndex("lx")
	var dup *DuplicateIDError
	if !errors.As(err, &dup) {
		t.Fatalf("err = %v, want DuplicateIDError", err)
	}
}

func TestParse_ValueWhitespaceKeptVerbatim(t *testing.T) {
	text := "\\lx kan  \n\\ge  padded value\n"
	doc, err := Parse(text, DefaultDialect())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if v, _ := doc.At(0).First("lx"); v != "kan  " {
		t.Errorf("lx = %q, trailing whitespace should survive", v)
	}
	if v, _ := doc.At(0).First("ge"); v != " padded value" {
		t.Errorf("ge = %q, inner padding should survive", v)
	}
	if !strings.Contains(Format(doc, DefaultDialect()), "kan  ") {
		t.Error("formatting should keep value whitespace")
	}
}
