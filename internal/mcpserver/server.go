// Package mcpserver exposes the converter as a Model Context Protocol tool
// served over standard I/O.
package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tsawler/pdf2docx"
	"github.com/tsawler/pdf2docx/docx"
	"github.com/tsawler/pdf2docx/format"
	"github.com/tsawler/pdf2docx/internal/config"
	"github.com/tsawler/pdf2docx/logging"
)

// Tool names
const (
	ToolConvert = "convert_pdf_to_docx"
	ToolInspect = "inspect_docx"
)

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance. Conversion settings of cfg
// other than the page list and password apply to every tool call.
func NewServer(cfg *config.Config) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		config:    cfg,
		mcpServer: mcpServer,
	}
	s.registerTools()
	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	convertTool := mcp.NewTool(
		ToolConvert,
		mcp.WithDescription("Convert a PDF file into an editable Word (.docx) document"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
		mcp.WithString("output",
			mcp.Description("Path of the .docx file to write (default: the input path with a .docx extension)"),
		),
		mcp.WithString("pages",
			mcp.Description("Pages to convert, 1-based, such as 1-3,7 (default: all pages)"),
		),
		mcp.WithString("password",
			mcp.Description("Password of an encrypted PDF"),
		),
	)
	s.mcpServer.AddTool(convertTool, s.handleConvert)

	inspectTool := mcp.NewTool(
		ToolInspect,
		mcp.WithDescription("Summarize a .docx document: parts, headings, tables, pictures and text"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the .docx file"),
		),
	)
	s.mcpServer.AddTool(inspectTool, s.handleInspect)
}

// Handler functions
func (s *Server) handleConvert(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	args := request.GetArguments()

	cfg := *s.config
	cfg.Input = path
	cfg.Output = config.OutputFor(path)
	if out, ok := args["output"].(string); ok && out != "" {
		cfg.Output = out
	}
	cfg.Pages = ""
	if pages, ok := args["pages"].(string); ok {
		cfg.Pages = pages
	}
	cfg.Password = ""
	if pw, ok := args["password"].(string); ok {
		cfg.Password = pw
	}
	if err := cfg.Validate(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	logging.Logger().Debug("tool call", "op", ToolConvert, "path", path, "output", cfg.Output)
	res, err := cfg.Converter().ConvertTo(ctx, cfg.Output)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	summary, err := docx.Inspect(res.Data)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatConvertResult(cfg.Output, res, summary)), nil
}

func (s *Server) handleInspect(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	f, err := format.DetectFile(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if f != format.DOCX {
		return mcp.NewToolResultError(fmt.Sprintf("%s is not a Word document (detected %s)", path, f)), nil
	}
	summary, err := docx.InspectFile(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatSummary(path, summary)), nil
}

func formatConvertResult(output string, res *pdf2docx.Result, summary *docx.Summary) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Successfully converted PDF to %s\n", output)
	fmt.Fprintf(&sb, "Pages: %d\n", res.Pages)
	fmt.Fprintf(&sb, "Paragraphs: %d\n", res.Paragraphs)
	fmt.Fprintf(&sb, "Words: %d\n", res.Words)
	fmt.Fprintf(&sb, "Tables: %d\n", res.Tables)
	fmt.Fprintf(&sb, "Images: %d\n", res.Images)
	fmt.Fprintf(&sb, "Size: %d bytes\n", len(res.Data))
	if len(res.Warnings) > 0 {
		fmt.Fprintf(&sb, "\nWarnings:\n%s\n", pdf2docx.FormatWarnings(res.Warnings))
	}
	writeHeadings(&sb, summary)
	return sb.String()
}

func formatSummary(path string, summary *docx.Summary) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Document: %s\n", path)
	if summary.Title != "" {
		fmt.Fprintf(&sb, "Title: %s\n", summary.Title)
	}
	if summary.Author != "" {
		fmt.Fprintf(&sb, "Author: %s\n", summary.Author)
	}
	fmt.Fprintf(&sb, "Pages: %d\n", summary.Pages)
	fmt.Fprintf(&sb, "Words: %d\n", summary.Words)
	fmt.Fprintf(&sb, "Paragraphs: %d\n", len(summary.Paragraphs))
	fmt.Fprintf(&sb, "Tables: %d\n", len(summary.Tables))
	fmt.Fprintf(&sb, "Pictures: %d\n", summary.Pictures)
	fmt.Fprintf(&sb, "Equations: %d\n", summary.Equations)
	fmt.Fprintf(&sb, "Footnotes: %d\n", summary.Footnotes)
	fmt.Fprintf(&sb, "Endnotes: %d\n", summary.Endnotes)
	fmt.Fprintf(&sb, "Comments: %d\n", summary.Comments)
	fmt.Fprintf(&sb, "Hyperlinks: %d\n", len(summary.Hyperlinks))
	writeHeadings(&sb, summary)
	sb.WriteString("\nContent:\n")
	sb.WriteString(summary.Text)
	return sb.String()
}

func writeHeadings(sb *strings.Builder, summary *docx.Summary) {
	headings := summary.Headings()
	if len(headings) == 0 {
		return
	}
	sb.WriteString("\nHeadings:\n")
	for _, h := range headings {
		fmt.Fprintf(sb, "%s- %s\n", strings.Repeat("  ", max(h.HeadingLevel-1, 0)), h.Text)
	}
}

// Run serves MCP over standard I/O until the input closes
func (s *Server) Run(_ context.Context) error {
	logging.Logger().Debug("starting MCP server", "op", "serve", "name", s.config.ServerName)
	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
