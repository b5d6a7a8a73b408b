// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/testpulse/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the TestPulse MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config) *server.MCPServer {
	s := server.NewMCPServer(
		"TestPulse Metrics Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
	}

	// --- 1. Tool: analyze_results ---
	s.AddTool(mcp.NewTool("analyze_results",
		mcp.WithDescription("Parse the test result files of a directory and return the full metrics report without writing anything."),
		mcp.WithString("results_dir", mcp.Description("Directory holding the <SUBJECT>_results.txt files (defaults to the configured directory).")),
		mcp.WithString("subjects", mcp.Description("Comma-separated subject names. Defaults to every result file found.")),
		mcp.WithNumber("coverage_threshold", mcp.Description("Coverage percent below which a subject is flagged. Defaults to 80.")),
	), h.handleAnalyzeResults)

	// --- 2. Tool: get_history ---
	s.AddTool(mcp.NewTool("get_history",
		mcp.WithDescription("Return the stored metrics history snapshots, oldest first."),
		mcp.WithString("results_dir", mcp.Description("Directory whose history file should be read.")),
		mcp.WithNumber("limit", mcp.Description("Only return the most recent snapshots.")),
	), h.handleGetHistory)

	// --- 3. Tool: get_trends ---
	s.AddTool(mcp.NewTool("get_trends",
		mcp.WithDescription("Compute coverage, quality and test count trends over the stored history."),
		mcp.WithString("results_dir", mcp.Description("Directory whose history file should be read.")),
		mcp.WithNumber("window", mcp.Description("Number of most recent snapshots to consider (at least 2).")),
	), h.handleGetTrends)

	return s
}

// StartMCPServer starts the TestPulse MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config) error {
	s := NewMCPServer(baseCfg)
	return server.ServeStdio(s)
}
