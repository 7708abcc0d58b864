package api

import (
	"github.com/starford/laguz/internal/index"
	"github.com/starford/laguz/internal/lexicon"
)

// CreateFileRequest is the request body for creating a lexicon file.
type CreateFileRequest struct {
	Path    string `json:"path" example:"dialects/north.sfm" validate:"required"`
	Content string `json:"content" example:"\\lx kan\n\\ge water" validate:"required"`
}

// UpdateFileRequest is the request body for updating a lexicon file.
type UpdateFileRequest struct {
	Content string `json:"content" example:"\\lx kan\n\\ge fresh water" validate:"required"`
}

// TransformRequest is the request body for running a pipeline over text.
// Pipeline is a YAML document with a transforms list.
type TransformRequest struct {
	Text     string `json:"text" validate:"required"`
	Pipeline string `json:"pipeline" validate:"required"`
}

// FormatRequest is the request body for normalizing SFM text.
type FormatRequest struct {
	Text string `json:"text" validate:"required"`
}

// TextResponse wraps serialized SFM text.
type TextResponse struct {
	Text string `json:"text" validate:"required"`
}

// FileDetail is the full file response type (aliased from the domain layer).
type FileDetail = lexicon.FileDetail

// FileListItem is a lightweight item in a list response (aliased from the domain layer).
type FileListItem = lexicon.FileListItem

// FileListResponse wraps paginated file listings.
type FileListResponse struct {
	Files []FileListItem `json:"files" validate:"required"`
	Total int            `json:"total" example:"42" validate:"required"`
}

// EntryListResponse wraps paginated entry listings.
type EntryListResponse struct {
	Entries []index.LexemeRow `json:"entries" validate:"required"`
	Total   int               `json:"total" example:"1200" validate:"required"`
}

// LookupResponse wraps exact-headword lookup results.
type LookupResponse struct {
	Entries []lexicon.EntryDetail `json:"entries" validate:"required"`
}

// SearchResult is a single search hit in the API response.
type SearchResult struct {
	Path     string `json:"path" example:"dialects/north.sfm" validate:"required"`
	Ord      int    `json:"ord" example:"3" validate:"required"`
	Headword string `json:"headword" example:"kan" validate:"required"`
	Snippet  string `json:"snippet" example:"...matched text..." validate:"required"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []SearchResult `json:"results" validate:"required"`
}

// GraphNode is a node in the cross-reference graph.
type GraphNode struct {
	ID string `json:"id" example:"kan" validate:"required"`
}

// GraphLink is an edge in the cross-reference graph.
type GraphLink struct {
	Source string `json:"source" example:"kan" validate:"required"`
	Target string `json:"target" example:"bo" validate:"required"`
}

// GraphResponse wraps the cross-reference graph.
type GraphResponse struct {
	Nodes []GraphNode `json:"nodes" validate:"required"`
	Links []GraphLink `json:"links" validate:"required"`
}

// BackrefsResponse wraps reverse cross-reference results.
type BackrefsResponse struct {
	Sources []string `json:"sources" validate:"required"`
}
