package mcpserver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/pdf2docx/docx"
	"github.com/tsawler/pdf2docx/internal/config"
	"github.com/tsawler/pdf2docx/internal/testpdf"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Mode = config.ModeMCP
	cfg.ServerName = "test-server"
	s, err := NewServer(cfg)
	require.NoError(t, err)
	return s
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{Arguments: args},
	}
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	var sb strings.Builder
	for _, content := range res.Content {
		if tc, ok := content.(mcp.TextContent); ok {
			sb.WriteString(tc.Text)
		}
		if tc, ok := content.(*mcp.TextContent); ok {
			sb.WriteString(tc.Text)
		}
	}
	return sb.String()
}

func writePDF(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "memo.pdf")
	data := testpdf.Document("",
		testpdf.TextPage("First page memo text"),
		testpdf.TextPage("Second page memo text"),
	)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestNewServer(t *testing.T) {
	_, err := NewServer(nil)
	assert.Error(t, err)

	s := newTestServer(t)
	assert.NotNil(t, s.mcpServer)
	assert.Equal(t, "test-server", s.config.ServerName)
}

func TestHandleConvert(t *testing.T) {
	s := newTestServer(t)
	dir := t.TempDir()
	in := writePDF(t, dir)

	res, err := s.handleConvert(context.Background(), callRequest(map[string]interface{}{
		"path":  in,
		"pages": "2",
	}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	text := resultText(t, res)
	assert.Contains(t, text, "Successfully converted")
	assert.Contains(t, text, "Pages: 1")

	out := filepath.Join(dir, "memo.docx")
	summary, err := docx.InspectFile(out)
	require.NoError(t, err)
	assert.Contains(t, summary.Text, "Second page")
	assert.NotContains(t, summary.Text, "First page")
}

func TestHandleConvert_Output(t *testing.T) {
	s := newTestServer(t)
	dir := t.TempDir()
	in := writePDF(t, dir)
	out := filepath.Join(dir, "custom.docx")

	res, err := s.handleConvert(context.Background(), callRequest(map[string]interface{}{
		"path":   in,
		"output": out,
	}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.FileExists(t, out)
	assert.NoFileExists(t, filepath.Join(dir, "memo.docx"))
}

func TestHandleConvert_Errors(t *testing.T) {
	s := newTestServer(t)
	dir := t.TempDir()
	in := writePDF(t, dir)

	tests := []struct {
		name string
		args map[string]interface{}
		want string
	}{
		{"missing path", map[string]interface{}{}, "path"},
		{"bad pages", map[string]interface{}{"path": in, "pages": "0"}, "invalid page"},
		{"text output", map[string]interface{}{"path": in, "output": filepath.Join(dir, "memo.txt")}, "extension"},
		{"page out of range", map[string]interface{}{"path": in, "pages": "9"}, "out of range"},
		{"missing file", map[string]interface{}{"path": filepath.Join(dir, "none.pdf")}, "none.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := s.handleConvert(context.Background(), callRequest(tt.args))
			require.NoError(t, err, "tool errors are reported in the result")
			assert.True(t, res.IsError)
			assert.Contains(t, resultText(t, res), tt.want)
		})
	}
}

func TestHandleInspect(t *testing.T) {
	s := newTestServer(t)
	dir := t.TempDir()
	in := writePDF(t, dir)

	_, err := s.handleConvert(context.Background(), callRequest(map[string]interface{}{"path": in}))
	require.NoError(t, err)

	res, err := s.handleInspect(context.Background(), callRequest(map[string]interface{}{
		"path": filepath.Join(dir, "memo.docx"),
	}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	text := resultText(t, res)
	assert.Contains(t, text, "Pages: 2")
	assert.Contains(t, text, "First page memo text")

	res, err = s.handleInspect(context.Background(), callRequest(map[string]interface{}{"path": in}))
	require.NoError(t, err)
	assert.True(t, res.IsError, "a PDF is not a docx archive")
}
