// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/pathways/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the Pathways MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"Pathways Data Server",
		version,
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: summarize_metric ---
	s.AddTool(mcp.NewTool("summarize_metric",
		mcp.WithDescription("Summarize metric series over a year window: start and end values, percent change, cumulative sum and axis range."),
		mcp.WithString("dataset", mcp.Description("Path to the dataset file (defaults to the configured dataset).")),
		mcp.WithString("metric", mcp.Description("Comma-separated metric ids. All metrics are summarized when empty.")),
		mcp.WithNumber("start", mcp.Description("First year of the window. Derived from the data when omitted.")),
		mcp.WithNumber("end", mcp.Description("Last year of the window. Derived from the data when omitted.")),
	), h.handleSummarizeMetric)

	// --- 2. Tool: rank_actions ---
	s.AddTool(mcp.NewTool("rank_actions",
		mcp.WithDescription("Rank climate actions by cumulative impact, cost or cost efficiency over a year window."),
		mcp.WithString("dataset", mcp.Description("Path to the dataset file.")),
		mcp.WithString("overview", mcp.Description("Impact overview id. The dataset actions are ranked when empty.")),
		mcp.WithNumber("start", mcp.Description("First year of the window.")),
		mcp.WithNumber("end", mcp.Description("Last year of the window.")),
		mcp.WithString("sort_by", mcp.Description("Sort key. Defaults to input order."), mcp.Enum("default", "impact", "cost", "efficiency", "name")),
		mcp.WithBoolean("ascending", mcp.Description("Sort ascending instead of descending.")),
		mcp.WithNumber("plot_limit", mcp.Description("Exclude actions whose absolute efficiency exceeds this value. Omit to keep the server's configured cutoff; 0 clears it so the overview's own limit applies.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of ranked actions returned.")),
	), h.handleRankActions)

	// --- 3. Tool: build_sankey ---
	s.AddTool(mcp.NewTool("build_sankey",
		mcp.WithDescription("Build Sankey frames of a dimensional flow showing how source values split into impact, remaining and other."),
		mcp.WithString("dataset", mcp.Description("Path to the dataset file.")),
		mcp.WithString("flow", mcp.Description("Flow id. The first flow is used when empty.")),
		mcp.WithNumber("end", mcp.Description("Year to build the frame for. Defaults to the last link year.")),
		mcp.WithBoolean("all_years", mcp.Description("Build one frame per link year.")),
	), h.handleBuildSankey)

	return s
}

// StartMCPServer starts the Pathways MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager, version string) error {
	s := NewMCPServer(baseCfg, mgr, version)
	return server.ServeStdio(s)
}
