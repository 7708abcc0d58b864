// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Laguz lexicon tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/laguz/internal/lexicon"
	"github.com/starford/laguz/internal/storage"
)

// Server wraps the MCP server with Laguz tools.
type Server struct {
	mcp   *server.MCPServer
	svc   *lexicon.Service
	store storage.Provider
}

// New creates a new MCP server with all Laguz tools registered.
func New(svc *lexicon.Service, store storage.Provider) *Server {
	s := &Server{svc: svc, store: store}

	s.mcp = server.NewMCPServer(
		"Laguz",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_lexicon",
		mcp.WithDescription("Full-text search through lexicon entries (headwords, glosses, entry text)."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchLexicon)

	s.mcp.AddTool(mcp.NewTool("lookup_entry",
		mcp.WithDescription("Exact headword lookup. Returns every entry bearing the headword, "+
			"with the raw SFM text and the headwords that cross-reference it."),
		mcp.WithString("headword", mcp.Required(), mcp.Description("Headword to look up")),
	), s.lookupEntry)

	s.mcp.AddTool(mcp.NewTool("read_file",
		mcp.WithDescription("Read the full SFM content of a lexicon file."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the file (e.g. dialects/north.sfm)")),
	), s.readFile)

	s.mcp.AddTool(mcp.NewTool("create_file",
		mcp.WithDescription("Create a new lexicon file at the specified path. "+
			"Content MUST follow the SFM marker format (backslash markers, one field per "+
			"line, entries opened by \\lx). Read the contract first via the "+
			"get_sfm_contract tool or the laguz://sfm-format resource."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path for the new file (must end with .sfm, .db, or .txt)")),
		mcp.WithString("content", mcp.Required(), mcp.Description("SFM content following the Laguz format contract")),
	), s.createFile)

	s.mcp.AddTool(mcp.NewTool("get_sfm_contract",
		mcp.WithDescription("Returns the canonical Laguz SFM format contract. "+
			"Call this before creating or updating lexicon files to ensure correct structure."),
	), s.getSFMContract)

	s.mcp.AddTool(mcp.NewTool("list_files",
		mcp.WithDescription("List all lexicon files or files in a specific folder."),
		mcp.WithString("folder", mcp.Description("Optional folder to list (empty for all)")),
	), s.listFiles)

	s.mcp.AddTool(mcp.NewTool("get_backrefs",
		mcp.WithDescription("Find all headwords whose entries cross-reference the given headword."),
		mcp.WithString("headword", mcp.Required(), mcp.Description("Headword to find cross-references to")),
	), s.getBackrefs)

	// Resource: SFM format contract.
	s.mcp.AddResource(
		mcp.NewResource("laguz://sfm-format", "SFM Format Contract",
			mcp.WithResourceDescription("Canonical SFM marker format that all lexicon files must follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readSFMFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) searchLexicon(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) lookupEntry(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	hw, err := req.RequireString("headword")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	details, err := s.svc.Lookup(ctx, hw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(details) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("no entry found for %q", hw)), nil
	}
	out, _ := json.MarshalIndent(details, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := s.store.Read(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) createFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if _, err := s.svc.CreateFile(ctx, path, []byte(content)); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s", path)), nil
}

func (s *Server) listFiles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	folder := ""
	if f, err := req.RequireString("folder"); err == nil {
		folder = f
	}

	metas, err := s.store.List(folder)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var paths []string
	for _, m := range metas {
		paths = append(paths, m.Path)
	}
	return mcp.NewToolResultText(strings.Join(paths, "\n")), nil
}

func (s *Server) getSFMContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(SFMFormatContract), nil
}

func (s *Server) readSFMFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "laguz://sfm-format",
			MIMEType: "text/markdown",
			Text:     SFMFormatContract,
		},
	}, nil
}

func (s *Server) getBackrefs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	hw, err := req.RequireString("headword")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	bl, err := s.svc.Backrefs(ctx, hw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(bl) == 0 {
		return mcp.NewToolResultText("no cross-references found"), nil
	}
	return mcp.NewToolResultText(strings.Join(bl, "\n")), nil
}
