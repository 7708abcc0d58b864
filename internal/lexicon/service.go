// Package lexicon coordinates vault storage, the SQLite index, and the
// SFM parsing layer behind a single service type used by the HTTP API
// and the MCP server.
package lexicon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/starford/laguz/internal/apperr"
	"github.com/starford/laguz/internal/checksum"
	"github.com/starford/laguz/internal/index"
	"github.com/starford/laguz/internal/storage"
	"github.com/starford/laguz/pkg/sfm"
)

// FileDetail is the full representation of a lexicon file.
type FileDetail struct {
	Path       string    `json:"path"`
	Content    string    `json:"content"`
	Checksum   string    `json:"checksum"`
	EntryCount int       `json:"entry_count"`
	Headwords  []string  `json:"headwords"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// FileListItem is a lightweight item in a list response.
type FileListItem struct {
	Path       string    `json:"path"`
	Checksum   string    `json:"checksum"`
	EntryCount int       `json:"entry_count"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// EntryDetail is a single indexed entry with its cross-reference context.
type EntryDetail struct {
	Path     string   `json:"path"`
	Ord      int      `json:"ord"`
	Headword string   `json:"headword"`
	Gloss    string   `json:"gloss,omitempty"`
	Raw      string   `json:"raw"`
	Backrefs []string `json:"backrefs"`
}

// Service coordinates storage and index operations.
type Service struct {
	store storage.Provider
	db    index.LexiconIndex
	opts  index.Options
}

// NewService creates a new lexicon service.
func NewService(store storage.Provider, db index.LexiconIndex, opts index.Options) *Service {
	return &Service{store: store, db: db, opts: opts}
}

// Options returns the parse options the service was configured with.
func (s *Service) Options() index.Options { return s.opts }

// GetFile reads a lexicon file from storage and parses it.
func (s *Service) GetFile(_ context.Context, path string) (*FileDetail, error) {
	data, err := s.store.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return s.buildFileDetail(path, data)
}

// CreateFile writes a new lexicon file and indexes it. The content must
// parse under the configured dialect.
func (s *Service) CreateFile(_ context.Context, path string, content []byte) (*FileDetail, error) {
	if _, err := s.store.Read(path); err == nil {
		return nil, apperr.ErrAlreadyExists
	}
	if _, err := parseLenient(string(content), s.opts.Dialect); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrBadInput, err)
	}
	if err := s.store.Write(path, content); err != nil {
		return nil, err
	}
	if err := s.IndexFile(path, content); err != nil {
		return nil, err
	}
	return s.buildFileDetail(path, content)
}

// UpdateFile writes updated content with optimistic concurrency. A
// non-empty ifMatch must equal the checksum of the content on disk.
func (s *Service) UpdateFile(_ context.Context, path string, content []byte, ifMatch string) (*FileDetail, error) {
	existing, err := s.store.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	if ifMatch != "" && ifMatch != checksum.Sum(existing) {
		return nil, apperr.ErrConflict
	}
	if _, err := parseLenient(string(content), s.opts.Dialect); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrBadInput, err)
	}
	if err := s.store.Write(path, content); err != nil {
		return nil, err
	}
	if err := s.IndexFile(path, content); err != nil {
		return nil, err
	}
	return s.buildFileDetail(path, content)
}

// DeleteFile removes a lexicon file from storage and index.
func (s *Service) DeleteFile(_ context.Context, path string) error {
	if err := s.store.Delete(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return apperr.ErrNotFound
		}
		return err
	}
	return s.db.DeleteFile(path)
}

// ListFiles returns paginated lexicon files.
func (s *Service) ListFiles(_ context.Context, limit, offset int, sort string) ([]FileListItem, int, error) {
	rows, total, err := s.db.ListFiles(limit, offset, sort)
	if err != nil {
		return nil, 0, err
	}
	items := make([]FileListItem, len(rows))
	for i, r := range rows {
		items[i] = FileListItem{
			Path:       r.Path,
			Checksum:   r.Checksum,
			EntryCount: r.EntryCount,
			UpdatedAt:  r.UpdatedAt,
		}
	}
	return items, total, nil
}

// ListLexemes returns a paginated headword listing across the whole vault.
func (s *Service) ListLexemes(_ context.Context, limit, offset int) ([]index.LexemeRow, int, error) {
	return s.db.ListLexemes(limit, offset)
}

// Lookup returns every indexed entry whose headword matches exactly,
// enriched with the headwords that cross-reference it.
func (s *Service) Lookup(_ context.Context, headword string) ([]EntryDetail, error) {
	rows, err := s.db.Lookup(headword)
	if err != nil {
		return nil, err
	}
	bl, err := s.db.Backrefs(headword)
	if err != nil {
		return nil, err
	}
	details := make([]EntryDetail, len(rows))
	for i, r := range rows {
		details[i] = EntryDetail{
			Path:     r.Path,
			Ord:      r.Ord,
			Headword: r.Headword,
			Gloss:    r.Gloss,
			Raw:      r.Raw,
			Backrefs: nonNilSlice(bl),
		}
	}
	return details, nil
}

// Search delegates full-text search to the index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	return s.db.Search(query, limit)
}

// Graph returns the cross-reference graph over all headwords.
func (s *Service) Graph(_ context.Context) ([]index.GraphNode, []index.GraphLink, error) {
	return s.db.Graph()
}

// Backrefs returns the headwords whose entries cross-reference target.
func (s *Service) Backrefs(_ context.Context, target string) ([]string, error) {
	bl, err := s.db.Backrefs(target)
	if err != nil {
		return nil, err
	}
	return nonNilSlice(bl), nil
}

// TransformText parses text, runs the pipeline described by cfgYAML over
// it, and serializes the result.
func (s *Service) TransformText(_ context.Context, text string, cfgYAML []byte) (string, error) {
	var cfg sfm.PipelineConfig
	if err := yaml.Unmarshal(cfgYAML, &cfg); err != nil {
		return "", fmt.Errorf("%w: pipeline: %v", apperr.ErrBadInput, err)
	}
	pipeline, err := cfg.Build()
	if err != nil {
		return "", fmt.Errorf("%w: pipeline: %v", apperr.ErrBadInput, err)
	}
	doc, err := sfm.Parse(text, s.opts.Dialect)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperr.ErrBadInput, err)
	}
	out, err := pipeline.Run(doc)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperr.ErrBadInput, err)
	}
	return sfm.Format(out, s.opts.Dialect), nil
}

// FormatText parses text and serializes it back, normalizing marker
// spacing and continuation indentation.
func (s *Service) FormatText(_ context.Context, text string) (string, error) {
	doc, err := sfm.Parse(text, s.opts.Dialect)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperr.ErrBadInput, err)
	}
	return sfm.Format(doc, s.opts.Dialect), nil
}

// IndexFile parses data and upserts it into the index.
func (s *Service) IndexFile(path string, data []byte) error {
	return index.IndexFile(s.db, path, data, s.opts)
}

// buildFileDetail constructs a FileDetail from raw data without re-reading
// the file.
func (s *Service) buildFileDetail(path string, data []byte) (*FileDetail, error) {
	doc, err := parseLenient(string(data), s.opts.Dialect)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrBadInput, err)
	}
	entries := doc.Entries()
	headwords := make([]string, 0, len(entries))
	for _, e := range entries {
		hw, _ := e.First(s.opts.Dialect.EntryMarker)
		headwords = append(headwords, hw)
	}
	return &FileDetail{
		Path:       path,
		Content:    string(data),
		Checksum:   checksum.Sum(data),
		EntryCount: len(entries),
		Headwords:  headwords,
		UpdatedAt:  time.Now(),
	}, nil
}

// parseLenient tolerates marker-free files and duplicate-id conflicts,
// returning whatever document the parser assembled.
func parseLenient(text string, d sfm.Dialect) (*sfm.Document, error) {
	doc, err := sfm.Parse(text, d)
	if err != nil {
		var dup *sfm.DuplicateIDError
		if errors.Is(err, sfm.ErrNoMarkers) || errors.As(err, &dup) {
			return doc, nil
		}
		return nil, err
	}
	return doc, nil
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
