// Package storage defines the vault file-system abstraction. A vault is a
// directory tree of SFM lexicon files.
package storage

import (
	"path/filepath"
	"strings"

	"github.com/starford/laguz/internal/models"
)

// Provider is the interface for vault file operations. All paths are
// relative to the vault root.
type Provider interface {
	// List returns metadata for every lexicon file under dir.
	List(dir string) ([]models.FileMetadata, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path.
	Write(path string, content []byte) error
	// Delete removes the file at path.
	Delete(path string) error
	// Move renames oldPath to newPath.
	Move(oldPath, newPath string) error
}

// Lexicon file extensions recognized in the vault. Toolbox projects keep
// their databases in .db or .txt files; .sfm is the explicit convention.
var lexiconExts = map[string]struct{}{
	".sfm": {},
	".db":  {},
	".txt": {},
}

// IsLexiconFile reports whether name carries a recognized SFM extension.
func IsLexiconFile(name string) bool {
	_, ok := lexiconExts[strings.ToLower(filepath.Ext(name))]
	return ok
}
