// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Dealerdesk tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bishnuhaldar/dealerdesk/internal/directory"
	"github.com/bishnuhaldar/dealerdesk/internal/models"
)

// Server wraps the MCP server with Dealerdesk tools.
type Server struct {
	mcp *server.MCPServer
	svc *directory.Service
}

// New creates a new MCP server with all Dealerdesk tools registered.
func New(svc *directory.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Dealerdesk",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_dealers",
		mcp.WithDescription("List all dealers in the working copy as JSON."),
	), s.listDealers)

	s.mcp.AddTool(mcp.NewTool("get_dealer",
		mcp.WithDescription("Read one dealer by name."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Exact dealer name")),
	), s.getDealer)

	s.mcp.AddTool(mcp.NewTool("add_dealer",
		mcp.WithDescription("Add a dealer to the working copy. The dealer JSON MUST follow "+
			"the dealer format contract; read it first via the get_dealer_contract tool "+
			"or the dealerdesk://dealer-format resource. The change is in-memory until save_directory."),
		mcp.WithString("dealer", mcp.Required(), mcp.Description("Dealer object as a JSON string")),
	), s.addDealer)

	s.mcp.AddTool(mcp.NewTool("remove_dealer",
		mcp.WithDescription("Remove a dealer from the working copy by name."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Exact dealer name")),
	), s.removeDealer)

	s.mcp.AddTool(mcp.NewTool("list_regions",
		mcp.WithDescription("List the region labels available in the working copy."),
	), s.listRegions)

	s.mcp.AddTool(mcp.NewTool("add_region",
		mcp.WithDescription("Add a region label to the working copy (unique by exact text)."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Region label")),
	), s.addRegion)

	s.mcp.AddTool(mcp.NewTool("refresh_directory",
		mcp.WithDescription("Discard in-memory edits and reload the working copy from the repository."),
	), s.refreshDirectory)

	s.mcp.AddTool(mcp.NewTool("save_directory",
		mcp.WithDescription("Commit the working copy back to the repository. "+
			"Fails with a conflict if the page changed remotely; refresh and redo edits in that case."),
		mcp.WithString("message", mcp.Description("Commit message (optional)")),
	), s.saveDirectory)

	s.mcp.AddTool(mcp.NewTool("get_dealer_contract",
		mcp.WithDescription("Returns the canonical dealer record format. "+
			"Call this before adding dealers to ensure correct structure."),
	), s.getDealerContract)

	// Resource: dealer format contract.
	s.mcp.AddResource(
		mcp.NewResource("dealerdesk://dealer-format", "Dealer Format Contract",
			mcp.WithResourceDescription("Canonical dealer record format that all added dealers must follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readDealerFormatResource,
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

func (s *Server) listDealers(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, _ := json.MarshalIndent(s.svc.Dealers(), "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getDealer(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	d, err := s.svc.Dealer(name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", name)), nil
	}
	out, _ := json.MarshalIndent(d, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) addDealer(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("dealer")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var d models.Dealer
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid dealer JSON: %v", err)), nil
	}
	if err := s.svc.AddDealer(d); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("added: %s", d.Name)), nil
}

func (s *Server) removeDealer(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.svc.DeleteDealer(name); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("removed: %s", name)), nil
}

func (s *Server) listRegions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	regions := s.svc.Regions()
	if len(regions) == 0 {
		return mcp.NewToolResultText("no regions"), nil
	}
	return mcp.NewToolResultText(strings.Join(regions, "\n")), nil
}

func (s *Server) addRegion(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.svc.AddRegion(name); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("added: %s", name)), nil
}

func (s *Server) refreshDirectory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st, err := s.svc.Refresh(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(st, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) saveDirectory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message := ""
	if m, err := req.RequireString("message"); err == nil {
		message = m
	}
	st, err := s.svc.Save(ctx, message, "")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(st, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getDealerContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(DealerFormatContract), nil
}

func (s *Server) readDealerFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "dealerdesk://dealer-format",
			MIMEType: "text/markdown",
			Text:     DealerFormatContract,
		},
	}, nil
}
