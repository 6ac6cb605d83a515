package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/govlens/govchat/internal/govapi"
)

// handleAskGovernance routes a free-text question through the assistant engine.
func (s *Server) handleAskGovernance(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	s.mu.Lock()
	resp := s.engine.Route(ctx, query, &s.rctx)
	s.mu.Unlock()

	return mcp.NewToolResultText(resp.Markdown), nil
}

// handleSearchAssets performs a direct catalog search, bypassing intent routing.
func (s *Server) handleSearchAssets(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	term, err := request.RequireString("term")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: term"), nil
	}

	limit := request.GetInt("limit", 10)
	if limit <= 0 {
		limit = 10
	}
	assetType := request.GetString("type_filter", "")

	assets, total, err := s.backend.SearchAssets(ctx, term, assetType, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("catalog search failed: %v", err)), nil
	}

	if len(assets) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No assets matched %q.", term)), nil
	}

	return mcp.NewToolResultText(formatAssets(assets, total)), nil
}

// formatAssets converts catalog hits into a text format for agent consumption.
func formatAssets(assets []govapi.Asset, total int) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d asset(s), showing %d:\n", total, len(assets)))

	for i, a := range assets {
		sb.WriteString(fmt.Sprintf("\n--- Asset %d ---\n", i+1))
		sb.WriteString(fmt.Sprintf("Name: %s\n", a.Name))
		sb.WriteString(fmt.Sprintf("Type: %s\n", a.Type))
		if a.DatabaseName != "" {
			sb.WriteString(fmt.Sprintf("Database: %s\n", a.DatabaseName))
		}
		if a.Schema != "" {
			sb.WriteString(fmt.Sprintf("Schema: %s\n", a.Schema))
		}
		sb.WriteString(fmt.Sprintf("Size: %d rows, %d columns\n", a.RowCount, a.ColumnCount))
		sb.WriteString(fmt.Sprintf("Quality: %.1f%%\n", a.QualityScore))
		if a.PIIDetected {
			sb.WriteString("PII: detected\n")
		}
		if a.Description != "" {
			sb.WriteString(fmt.Sprintf("Description: %s\n", a.Description))
		}
	}

	return sb.String()
}
