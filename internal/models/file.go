// Package models defines the domain types shared across Laguz layers.
package models

import "time"

// FileMetadata is the lightweight representation of one SFM file in the
// vault, as returned by list operations.
type FileMetadata struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CrossRef is a directed edge between two lexicon entries, derived from
// cross-reference markers such as \cf and \mn.
type CrossRef struct {
	Source string `json:"source"` // headword of the referring entry
	Target string `json:"target"` // referenced headword
	Path   string `json:"path"`   // vault file the reference lives in
}
