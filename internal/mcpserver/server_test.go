package mcpserver

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/laguz/internal/index"
	"github.com/starford/laguz/internal/lexicon"
	"github.com/starford/laguz/internal/storage"
)

func testServer(t *testing.T) (*Server, storage.Provider) {
	t.Helper()

	vaultDir := t.TempDir()
	store, err := storage.NewFS(vaultDir)
	if err != nil {
		t.Fatal(err)
	}

	dbFile, err := os.CreateTemp("", "laguz-mcp-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	svc := lexicon.NewService(store, db, index.DefaultOptions())
	srv := New(svc, store)
	return srv, store
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go doesn't expose a direct "call tool" test helper, so we call
	// the handler functions directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "search_lexicon":
		result, err = srv.searchLexicon(ctx, req)
	case "lookup_entry":
		result, err = srv.lookupEntry(ctx, req)
	case "read_file":
		result, err = srv.readFile(ctx, req)
	case "create_file":
		result, err = srv.createFile(ctx, req)
	case "list_files":
		result, err = srv.listFiles(ctx, req)
	case "get_backrefs":
		result, err = srv.getBackrefs(ctx, req)
	case "get_sfm_contract":
		result, err = srv.getSFMContract(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

const sampleFile = "\\lx kan\n\\ps n\n\\ge water\n\\cf bo\n"

func TestCreateAndReadFile(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "create_file", map[string]interface{}{
		"path":    "test.sfm",
		"content": sampleFile,
	})
	text := resultText(r)
	if text != "created: test.sfm" {
		t.Errorf("create result = %q", text)
	}

	r = callTool(t, srv, "read_file", map[string]interface{}{
		"path": "test.sfm",
	})
	text = resultText(r)
	if text != sampleFile {
		t.Errorf("read result = %q", text)
	}
}

func TestListFiles(t *testing.T) {
	srv, store := testServer(t)
	_ = store.Write("a.sfm", []byte(sampleFile))
	_ = store.Write("b.sfm", []byte(sampleFile))

	r := callTool(t, srv, "list_files", map[string]interface{}{})
	text := resultText(r)
	if text == "" {
		t.Error("list returned empty")
	}
}

func TestReadFileMissing(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "read_file", map[string]interface{}{"path": "nope.sfm"})
	if !r.IsError {
		t.Error("expected error for missing file")
	}
}

func TestLookupEntry(t *testing.T) {
	srv, _ := testServer(t)
	_ = callTool(t, srv, "create_file", map[string]interface{}{
		"path":    "a.sfm",
		"content": sampleFile,
	})

	r := callTool(t, srv, "lookup_entry", map[string]interface{}{"headword": "kan"})
	text := resultText(r)
	if !strings.Contains(text, `"headword": "kan"`) {
		t.Errorf("lookup result = %q", text)
	}

	r = callTool(t, srv, "lookup_entry", map[string]interface{}{"headword": "nope"})
	if !strings.Contains(resultText(r), "no entry found") {
		t.Errorf("missing lookup result = %q", resultText(r))
	}
}

func TestGetBackrefs(t *testing.T) {
	srv, _ := testServer(t)
	_ = callTool(t, srv, "create_file", map[string]interface{}{
		"path":    "a.sfm",
		"content": sampleFile,
	})

	r := callTool(t, srv, "get_backrefs", map[string]interface{}{"headword": "bo"})
	text := resultText(r)
	if text != "kan" {
		t.Errorf("backrefs = %q, want kan", text)
	}
}

func TestGetSFMContract(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "get_sfm_contract", map[string]interface{}{})
	text := resultText(r)
	if !strings.Contains(text, "\\lx") {
		t.Error("contract should mention the entry marker")
	}
}
