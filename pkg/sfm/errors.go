package sfm

import (
	"errors"
	"fmt"
)

// ErrNoMarkers is returned by Parse, together with an empty usable Document,
// when non-blank input never matches the configured marker pattern. This is
// almost always a dialect mismatch (wrong marker prefix) and is warning
// severity: an empty result is itself informative.
var ErrNoMarkers = errors.New("sfm: no line matches the marker pattern")

// ErrBadDialect wraps every dialect validation failure.
var ErrBadDialect = errors.New("sfm: invalid dialect")

// DanglingContinuationError reports a continuation line that has no open
// field to extend. It is fatal: the parse produces no entries.
type DanglingContinuationError struct {
	Line int    // 1-based physical line number
	Text string // verbatim line content
}

func (e *DanglingContinuationError) Error() string {
	return fmt.Sprintf("sfm: line %d: continuation %q before any marker line", e.Line, e.Text)
}

// DuplicateIDError reports two entries sharing an id-marker value while
// uniqueness is required. It is recoverable and carries both entries so the
// caller can merge, rename, or abort; the document itself is left untouched.
type DuplicateIDError struct {
	Marker string
	ID     string
	First  *Entry
	Second *Entry
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("sfm: duplicate id %q for marker %q", e.ID, e.Marker)
}

// PositionError reports an out-of-range field index in a positional entry
// operation.
type PositionError struct {
	Index int
	Len   int
}

func (e *PositionError) Error() string {
	return fmt.Sprintf("sfm: field index %d out of range (len %d)", e.Index, e.Len)
}
