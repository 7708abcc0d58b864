package sfm

import (
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Dialect bundles the marker conventions of one SFM document. It is threaded
// explicitly through Parse and Format rather than held as package state.
type Dialect struct {
	// MarkerPrefix is the literal text that opens a marker line,
	// conventionally a single backslash.
	MarkerPrefix string `yaml:"marker_prefix" json:"marker_prefix"`

	// EntryMarker is the marker token whose occurrence begins a new entry.
	EntryMarker string `yaml:"entry_marker" json:"entry_marker"`

	// IDMarker, when set, names the marker whose first value identifies an
	// entry for index lookups.
	IDMarker string `yaml:"id_marker" json:"id_marker"`

	// UniqueIDs makes Parse flag colliding IDMarker values with a
	// DuplicateIDError instead of accepting them.
	UniqueIDs bool `yaml:"unique_ids" json:"unique_ids"`

	// BlankLineSeparators switches entry boundaries from EntryMarker
	// occurrences to blank lines, the convention of Toolbox exports that
	// separate records with empty lines.
	BlankLineSeparators bool `yaml:"blank_line_separators" json:"blank_line_separators"`

	// ContinuationIndent is stripped once from the front of each
	// continuation line on input and re-emitted on output. Empty means
	// continuation lines are carried verbatim.
	ContinuationIndent string `yaml:"continuation_indent" json:"continuation_indent"`
}

// DefaultDialect returns the Toolbox/MDF convention: backslash-prefixed
// markers with \lx opening each entry.
func DefaultDialect() Dialect {
	return Dialect{
		MarkerPrefix: `\`,
		EntryMarker:  "lx",
		IDMarker:     "lx",
	}
}

// Validate rejects malformed dialects before any parsing begins. All
// failures wrap ErrBadDialect.
func (d Dialect) Validate() error {
	err := validation.ValidateStruct(&d,
		validation.Field(&d.MarkerPrefix, validation.Required, validation.By(noWhitespace)),
		validation.Field(&d.EntryMarker, validation.Required, validation.By(noWhitespace)),
		validation.Field(&d.IDMarker, validation.By(noWhitespace)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadDialect, err)
	}
	if d.UniqueIDs && d.IDMarker == "" {
		return fmt.Errorf("%w: unique_ids requires id_marker", ErrBadDialect)
	}
	return nil
}

func noWhitespace(value interface{}) error {
	s, _ := value.(string)
	if strings.ContainsAny(s, " \t\n\r") {
		return fmt.Errorf("must not contain whitespace")
	}
	return nil
}

// markerPattern compiles the marker-line pattern for this dialect: the prefix
// immediately followed by a run of non-whitespace characters.
func (d Dialect) markerPattern() *regexp.Regexp {
	return regexp.MustCompile(`^` + regexp.QuoteMeta(d.MarkerPrefix) + `(\S+)`)
}
