package index

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/starford/laguz/internal/checksum"
	"github.com/starford/laguz/internal/storage"
	"github.com/starford/laguz/pkg/sfm"
)

// Options controls how vault files are parsed into index rows.
type Options struct {
	// Dialect is the marker convention of the vault's files.
	Dialect sfm.Dialect
	// GlossMarker summarizes an entry for search and listings.
	GlossMarker string
	// RefMarkers name the markers whose values cross-reference other
	// headwords.
	RefMarkers []string
}

// DefaultOptions returns the MDF convention: \lx records, \ge glosses, and
// \cf/\mn cross-references.
func DefaultOptions() Options {
	return Options{
		Dialect:     sfm.DefaultDialect(),
		GlossMarker: "ge",
		RefMarkers:  []string{"cf", "mn"},
	}
}

// Sync walks the vault and brings the index up to date:
//   - new/changed files are parsed and upserted
//   - files removed from disk are deleted from the index
func Sync(db LexiconIndex, store storage.Provider, opts Options, logger *slog.Logger) error {
	metas, err := store.List("")
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Path] = struct{}{}

		if checksums[m.Path] == m.Checksum {
			continue
		}

		data, err := store.Read(m.Path)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		if err := IndexFile(db, m.Path, data, opts); err != nil {
			logger.Warn("sync: index failed", slog.String("path", m.Path), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("path", m.Path))
		}
	}

	// Remove stale entries.
	for p := range checksums {
		if _, ok := disk[p]; !ok {
			if err := db.DeleteFile(p); err != nil {
				logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("path", p))
			}
		}
	}

	return nil
}

// IndexFile parses data and upserts its entries into the DB. A marker-prefix
// mismatch indexes the file with zero entries; duplicate-id conflicts are
// tolerated since the index keys rows by position, not id.
func IndexFile(db LexiconIndex, path string, data []byte, opts Options) error {
	doc, err := sfm.Parse(string(data), opts.Dialect)
	if err != nil {
		var dup *sfm.DuplicateIDError
		if !errors.Is(err, sfm.ErrNoMarkers) && !errors.As(err, &dup) {
			return err
		}
	}

	entries := doc.Entries()
	lexemes := make([]LexemeRow, 0, len(entries))
	var refs []Ref
	for i, e := range entries {
		headword, _ := e.First(opts.Dialect.EntryMarker)
		lexemes = append(lexemes, LexemeRow{
			Path:     path,
			Ord:      i,
			Headword: headword,
			Gloss:    strings.Join(e.Get(opts.GlossMarker), "; "),
			Raw:      sfm.FormatEntry(e, opts.Dialect),
		})
		for _, marker := range opts.RefMarkers {
			for _, v := range e.Get(marker) {
				for _, target := range strings.Split(v, ";") {
					target = strings.TrimSpace(target)
					if target == "" {
						continue
					}
					refs = append(refs, Ref{Source: headword, Target: target})
				}
			}
		}
	}

	row := FileRow{
		Path:       path,
		Checksum:   checksum.Sum(data),
		EntryCount: len(lexemes),
		UpdatedAt:  time.Now(),
	}
	return db.ReplaceFile(row, lexemes, refs)
}
