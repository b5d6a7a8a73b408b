package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/testpulse/core"
	"github.com/huangsam/testpulse/internal/contract"
	"github.com/huangsam/testpulse/internal/iostore"
	"github.com/huangsam/testpulse/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
}

// configFor clones the base config and applies the results_dir argument.
func (h *toolHandler) configFor(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	if dir := request.GetString("results_dir", ""); dir != "" {
		if err := contract.RevalidateResultsDir(cfg, dir); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func (h *toolHandler) handleAnalyzeResults(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid results directory: %v", err)), nil
	}
	if s := request.GetString("subjects", ""); s != "" {
		if err := contract.RevalidateSubjects(cfg, s); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid subjects: %v", err)), nil
		}
	}
	if th := request.GetInt("coverage_threshold", -1); th >= 0 {
		if th > 100 {
			return mcp.NewToolResultError("coverage_threshold must be between 0 and 100"), nil
		}
		cfg.CoverageThreshold = th
	}

	history := iostore.NewHistoryFile(cfg.HistoryFile, cfg.HistoryLimit)
	report, err := core.AnalyzeResults(ctx, cfg, history)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(report, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetHistory(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid results directory: %v", err)), nil
	}

	load := iostore.NewHistoryFile(cfg.HistoryFile, cfg.HistoryLimit).Load()
	history := iostore.CapHistory(load.History, request.GetInt("limit", 0))
	if history == nil {
		history = []schema.HistorySnapshot{}
	}

	jsonData, _ := json.MarshalIndent(map[string]any{
		"status":  load.Status,
		"entries": len(history),
		"history": history,
	}, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetTrends(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid results directory: %v", err)), nil
	}
	window := request.GetInt("window", cfg.TrendWindow)
	if window == 1 || window < 0 {
		return mcp.NewToolResultError("window must be 0 (all snapshots) or at least 2"), nil
	}

	load := iostore.NewHistoryFile(cfg.HistoryFile, cfg.HistoryLimit).Load()
	if load.Recovered() {
		return mcp.NewToolResultError(fmt.Sprintf("history could not be fully read, no trend computed: %v", load.Err)), nil
	}
	trend := core.TrendFromLoad(load, window)
	if trend == nil {
		return mcp.NewToolResultError(fmt.Sprintf("not enough history for a trend: %d snapshots stored, need at least 2", len(load.History))), nil
	}

	jsonData, _ := json.MarshalIndent(trend, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
