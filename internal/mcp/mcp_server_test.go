package mcp_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/testpulse/internal/contract"
	"github.com/huangsam/testpulse/internal/iostore"
	mcp_internal "github.com/huangsam/testpulse/internal/mcp"
	"github.com/huangsam/testpulse/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newBaseConfig returns a validated config for a results dir with one subject and two snapshots.
func newBaseConfig(t *testing.T) *contract.Config {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "NUMBERS_results.txt"),
		[]byte("Total Test Cases: 10\nTests Passed: 8\nTests Failed: 2\nCode Coverage: 85%\nTest Quality Score: 80%\n"), 0o644))

	cfg := &contract.Config{}
	require.NoError(t, contract.ProcessAndValidate(cfg, &contract.ConfigRawInput{
		ResultsDirStr:     dir,
		HistoryLimit:      contract.DefaultHistoryLimit,
		CoverageThreshold: contract.DefaultCoverageThreshold,
		Output:            "text",
		TrackingBackend:   "none",
		Color:             "no",
	}))

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	history := []schema.HistorySnapshot{
		{Timestamp: base, Totals: schema.AggregateTotals{TotalTests: 8, OverallCoverage: 70}},
		{Timestamp: base.Add(time.Hour), Totals: schema.AggregateTotals{TotalTests: 10, OverallCoverage: 80}},
	}
	require.NoError(t, iostore.NewHistoryFile(cfg.HistoryFile, cfg.HistoryLimit).Save(context.Background(), history))
	return cfg
}

// callTool invokes a registered tool with the given arguments.
func callTool(t *testing.T, cfg *contract.Config, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	s := mcp_internal.NewMCPServer(cfg)
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	res, err := tool.Handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	return res
}

// resultText returns the text of the first content block.
func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	return res.Content[0].(mcp.TextContent).Text
}

func TestMCPServerHandlers_AnalyzeResults(t *testing.T) {
	cfg := newBaseConfig(t)

	res := callTool(t, cfg, "analyze_results", map[string]any{})
	require.False(t, res.IsError, resultText(t, res))

	var report schema.Report
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &report))
	require.Len(t, report.Subjects, 1)
	assert.Equal(t, "NUMBERS", report.Subjects[0].Name)
	assert.Equal(t, 82, report.Subjects[0].Analysis.QualityIndex)
	require.NotNil(t, report.Trend)
	assert.InDelta(t, 10.0, report.Trend.CoverageTrend, 1e-9)
	assert.NoFileExists(t, cfg.TextReport, "analysis must not write reports")
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	cfg := newBaseConfig(t)

	tests := []struct {
		name     string
		tool     string
		args     map[string]any
		expected string
	}{
		{"missing results dir", "analyze_results", map[string]any{"results_dir": filepath.Join(cfg.ResultsDir, "missing")}, "results directory does not exist"},
		{"bad subjects", "analyze_results", map[string]any{"subjects": "../etc"}, "invalid subjects"},
		{"threshold too large", "analyze_results", map[string]any{"coverage_threshold": 120.0}, "coverage_threshold"},
		{"no matching subjects", "analyze_results", map[string]any{"subjects": "STRINGS"}, "no result files found"},
		{"window of one", "get_trends", map[string]any{"window": 1.0}, "window must be"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := callTool(t, cfg, tt.tool, tt.args)
			assert.True(t, res.IsError, "The response should indicate an error state")
			assert.Contains(t, resultText(t, res), tt.expected)
		})
	}
}

func TestMCPServerHandlers_GetHistory(t *testing.T) {
	cfg := newBaseConfig(t)

	res := callTool(t, cfg, "get_history", map[string]any{"limit": 1.0})
	require.False(t, res.IsError)

	var payload struct {
		Status  schema.LoadStatus        `json:"status"`
		Entries int                      `json:"entries"`
		History []schema.HistorySnapshot `json:"history"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &payload))
	assert.Equal(t, schema.LoadedStatus, payload.Status)
	assert.Equal(t, 1, payload.Entries)
	assert.Equal(t, 10, payload.History[0].Totals.TotalTests)
}

func TestMCPServerHandlers_GetTrends(t *testing.T) {
	cfg := newBaseConfig(t)

	res := callTool(t, cfg, "get_trends", map[string]any{})
	require.False(t, res.IsError)
	var trend schema.TrendSummary
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &trend))
	assert.Equal(t, 2, trend.Samples)
	assert.InDelta(t, 2.0, trend.TestCountTrend, 1e-9)

	empty := t.TempDir()
	res = callTool(t, cfg, "get_trends", map[string]any{"results_dir": empty})
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "not enough history")
}

func TestMCPServerHandlers_GetTrendsRecoveredHistory(t *testing.T) {
	cfg := newBaseConfig(t)
	data := `[{"totals":{"total_tests":8,"overall_coverage":70}},42,{"totals":{"total_tests":10,"overall_coverage":80}}]`
	require.NoError(t, os.WriteFile(cfg.HistoryFile, []byte(data), 0o644))

	res := callTool(t, cfg, "get_trends", map[string]any{})
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "could not be fully read")
}
