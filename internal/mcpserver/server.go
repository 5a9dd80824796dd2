// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes Raido's link-checking tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/raido/internal/check"
	"github.com/starford/raido/internal/index"
	"github.com/starford/raido/internal/storage"
)

// Server wraps the MCP server with Raido tools.
type Server struct {
	mcp       *server.MCPServer
	store     storage.Provider
	db        *index.DB
	registry  check.Registry
	vaultRoot string
	logger    *slog.Logger
}

// New creates a new MCP server with all Raido tools registered.
func New(store storage.Provider, db *index.DB, registry check.Registry, vaultRoot string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{store: store, db: db, registry: registry, vaultRoot: vaultRoot, logger: logger}

	s.mcp = server.NewMCPServer(
		"Raido",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("check_links",
		mcp.WithDescription("Scan the vault for broken links. Mode 'all' checks every "+
			"indexed link; mode 'current' re-reads one note from disk and checks only its links."),
		mcp.WithString("mode", mcp.Description("Scan mode: all (default) or current")),
		mcp.WithString("note", mcp.Description("Note path for current mode (relative to vault root)")),
	), s.checkLinks)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read the full content of a Markdown note."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the note (e.g. folder/note.md)")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("resolve_title",
		mcp.WithDescription("Resolve a note title to its backing file path, the way a [[roam]] link would."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Note title to resolve")),
	), s.resolveTitle)

	// Resource: link syntax contract.
	s.mcp.AddResource(
		mcp.NewResource("raido://link-syntax", "Link Syntax Contract",
			mcp.WithResourceDescription("Canonical wikilink syntax and the link types Raido validates."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readLinkSyntaxResource,
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

func (s *Server) checkLinks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	mode := check.ModeAll
	if m, err := req.RequireString("mode"); err == nil && m != "" {
		mode = check.Mode(m)
	}
	note := ""
	if n, err := req.RequireString("note"); err == nil {
		note = n
	}
	if mode == check.ModeCurrent && note == "" {
		return mcp.NewToolResultError("current mode requires a note path"), nil
	}

	src := check.NewVaultSource(s.db, s.vaultRoot, note)
	scanner := check.NewScanner(src, s.registry, s.vaultRoot, s.logger)
	broken, err := scanner.Scan(mode)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(broken) == 0 {
		return mcp.NewToolResultText("no broken links found"), nil
	}
	out, _ := json.MarshalIndent(broken, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
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

func (s *Server) resolveTitle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	path, ok := s.db.FileForTitle(title)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("title does not resolve: %s", title)), nil
	}
	return mcp.NewToolResultText(path), nil
}

func (s *Server) readLinkSyntaxResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "raido://link-syntax",
			MIMEType: "text/markdown",
			Text:     LinkSyntaxContract,
		},
	}, nil
}
