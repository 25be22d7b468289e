// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes flashcite highlight tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/flashcite/internal/apperr"
	"github.com/starford/flashcite/internal/citation"
	"github.com/starford/flashcite/internal/highlight"
)

const contractURI = "flashcite://citation-format"

// Server wraps the MCP server with flashcite tools.
type Server struct {
	mcp *server.MCPServer
	svc highlight.Highlighter
}

// New creates a new MCP server with all flashcite tools registered.
func New(svc highlight.Highlighter) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"flashcite",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_sources",
		mcp.WithDescription("List catalogued source documents, optionally filtered by kind."),
		mcp.WithString("kind", mcp.Description("Optional kind filter: html, pdf, text, image or transcript")),
		mcp.WithNumber("limit", mcp.Description("Page size (default 50)")),
		mcp.WithNumber("offset", mcp.Description("Page offset")),
	), s.listSources)

	s.mcp.AddTool(mcp.NewTool("get_highlights",
		mcp.WithDescription("Render every unit of a source with the flashcards that highlight it, "+
			"plus the cards ordered by where they are first cited."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the source (e.g. bio/cells.json)")),
	), s.getHighlights)

	s.mcp.AddTool(mcp.NewTool("lookup_unit",
		mcp.WithDescription("Return the flashcards that highlight one unit of a source. "+
			"Use type list_item with the list parameter for items of a list."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the source")),
		mcp.WithString("type", mcp.Required(), mcp.Description("Unit type: sentence_range, paragraph, section, list, table, block or list_item")),
		mcp.WithNumber("number", mcp.Required(), mcp.Description("1-based unit number")),
		mcp.WithNumber("list", mcp.Description("List number, required for list_item")),
	), s.lookupUnit)

	s.mcp.AddTool(mcp.NewTool("lookup_segment",
		mcp.WithDescription("Return the flashcards whose video timestamps overlap a transcript segment."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the transcript source")),
		mcp.WithNumber("start", mcp.Required(), mcp.Description("Segment start in seconds")),
		mcp.WithNumber("end", mcp.Required(), mcp.Description("Segment end in seconds")),
	), s.lookupSegment)

	s.mcp.AddTool(mcp.NewTool("search_cards",
		mcp.WithDescription("Search flashcards by front, back and preview text."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchCards)

	s.mcp.AddTool(mcp.NewTool("replace_citations",
		mcp.WithDescription("Replace the citation list of a source. "+
			"Citations MUST follow the flashcite citation format. Read the contract first via "+
			"the get_citation_contract tool or the "+contractURI+" resource."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the source")),
		mcp.WithString("citations", mcp.Required(), mcp.Description("JSON citation array following the citation format contract")),
	), s.replaceCitations)

	s.mcp.AddTool(mcp.NewTool("get_citation_contract",
		mcp.WithDescription("Returns the canonical flashcite citation format contract. "+
			"Call this before replacing citations to ensure correct structure."),
	), s.getCitationContract)

	s.mcp.AddTool(mcp.NewTool("upload_source",
		mcp.WithDescription("Download a structured source document (JSON) from an http(s) or data: URL "+
			"and add it to the library."),
		mcp.WithString("url", mcp.Required(), mcp.Description("http(s) URL or base64 data: URI of the document")),
		mcp.WithString("filename", mcp.Description("Optional file name (must end with .json)")),
		mcp.WithString("dir", mcp.Description("Optional target directory inside the library")),
	), s.uploadSource)

	// Resource: citation format contract.
	s.mcp.AddResource(
		mcp.NewResource(contractURI, "Citation Format Contract",
			mcp.WithResourceDescription("Canonical citation sidecar format for flashcite sources."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readCitationFormatResource,
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

// jsonResult renders v as an indented JSON tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

// errorResult converts a service error into a tool error.
func errorResult(path string, err error) *mcp.CallToolResult {
	if errors.Is(err, apperr.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path))
	}
	return mcp.NewToolResultError(err.Error())
}

func (s *Server) listSources(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, total, err := s.svc.ListSources(ctx, req.GetInt("limit", 0), req.GetInt("offset", 0), req.GetString("kind", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{"sources": items, "total": total})
}

func (s *Server) getHighlights(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	snap, err := s.svc.Snapshot(ctx, path)
	if err != nil {
		return errorResult(path, err), nil
	}
	return jsonResult(snap)
}

func (s *Server) lookupUnit(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rawType, err := req.RequireString("type")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	n, err := req.RequireInt("number")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var res *highlight.UnitResult
	if rawType == string(citation.TypeListItem) {
		list, lerr := req.RequireInt("list")
		if lerr != nil {
			return mcp.NewToolResultError(lerr.Error()), nil
		}
		res, err = s.svc.LookupItem(ctx, path, list, n)
	} else {
		t, ok := citation.ParseType(rawType)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("unknown unit type: %s", rawType)), nil
		}
		res, err = s.svc.LookupUnit(ctx, path, t, n)
	}
	if err != nil {
		return errorResult(path, err), nil
	}
	return jsonResult(res)
}

func (s *Server) lookupSegment(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	start, err := req.RequireFloat("start")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	end, err := req.RequireFloat("end")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.svc.LookupSegment(ctx, path, start, end)
	if err != nil {
		return errorResult(path, err), nil
	}
	return jsonResult(res)
}

func (s *Server) searchCards(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	hits, err := s.svc.SearchCards(ctx, query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(hits)
}

func (s *Server) replaceCitations(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	raw, err := req.RequireString("citations")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	decoded, err := citation.DecodeList([]byte(raw))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(decoded.Rejected) > 0 {
		return mcp.NewToolResultError(decoded.Rejected[0].Error()), nil
	}
	for _, c := range decoded.Citations {
		if _, ok := c.Resolve(); !ok {
			return mcp.NewToolResultError(fmt.Sprintf("citation %d: unknown type or invalid range", c.ID)), nil
		}
	}

	src, err := s.svc.ReplaceCitations(ctx, path, decoded.Citations)
	if err != nil {
		return errorResult(path, err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("replaced: %s (%d citations)", src.Path, src.CitationCount)), nil
}

func (s *Server) getCitationContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(CitationFormatContract), nil
}

func (s *Server) readCitationFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      contractURI,
			MIMEType: "text/markdown",
			Text:     CitationFormatContract,
		},
	}, nil
}
