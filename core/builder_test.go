package core

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/huangsam/testpulse/internal/contract"
	"github.com/huangsam/testpulse/internal/iostore"
	"github.com/huangsam/testpulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 5, 4, 13, 14, 15, 0, time.UTC)

// pipelineConfig returns a config rooted at a results dir holding two subjects.
func pipelineConfig(t *testing.T) *contract.Config {
	t.Helper()
	dir := t.TempDir()
	writeResultFile(t, dir, "NUMBERS", fullResultText)
	writeResultFile(t, dir, "STRINGS", "Total Test Cases: 4\nTests Passed: 4\nTests Failed: 0\nCode Coverage: 60%\nTest Quality Score: 70%\n")

	cfg := &contract.Config{}
	input := &contract.ConfigRawInput{
		ResultsDirStr:     dir,
		HistoryLimit:      contract.DefaultHistoryLimit,
		CoverageThreshold: contract.DefaultCoverageThreshold,
		Output:            "text",
		TrackingBackend:   "none",
		Color:             "no",
	}
	require.NoError(t, contract.ProcessAndValidate(cfg, input))
	return cfg
}

func TestBuildReport(t *testing.T) {
	cfg := pipelineConfig(t)
	parsed, err := ParseResults(context.Background(), cfg.ResultsDir, nil, cfg.SummaryFile)
	require.NoError(t, err)

	report := BuildReport(parsed, nil, cfg, fixedNow)
	assert.Equal(t, fixedNow, report.GeneratedAt)
	assert.Equal(t, cfg.ResultsDir, report.ResultsDir)
	require.Len(t, report.Subjects, 2)
	assert.Equal(t, "NUMBERS", report.Subjects[0].Name)
	assert.Equal(t, schema.MediumComplexity, report.Subjects[0].Analysis.ComplexityLevel)
	assert.Equal(t, 16, report.Totals.TotalTests)
	assert.Equal(t, 73, report.Totals.OverallCoverage) // (87 + 60) / 2
	assert.Nil(t, report.Trend)
	assert.NotEmpty(t, report.Recommendations)
}

func TestBuildReport_TrendUsesPriorHistory(t *testing.T) {
	cfg := pipelineConfig(t)
	parsed, err := ParseResults(context.Background(), cfg.ResultsDir, nil, cfg.SummaryFile)
	require.NoError(t, err)

	prior := []schema.HistorySnapshot{snapshotWith(0, 10, 60, 60), snapshotWith(1, 12, 64, 62)}
	report := BuildReport(parsed, prior, cfg, fixedNow)
	require.NotNil(t, report.Trend)
	assert.Equal(t, 2, report.Trend.Samples)
	assert.InDelta(t, 4.0, report.Trend.CoverageTrend, 1e-9)
}

func TestReportBuilder_RecoveredHistorySkipsTrend(t *testing.T) {
	cfg := pipelineConfig(t)

	history := &iostore.MockHistoryStore{}
	history.On("Load").Return(schema.HistoryLoad{
		History: []schema.HistorySnapshot{snapshotWith(0, 10, 60, 60), snapshotWith(1, 12, 64, 62)},
		Status:  schema.RecoveredStatus,
		Err:     errors.New("skipped 1 malformed history entries"),
		Skipped: 1,
	})
	history.On("Path").Return("metrics_history.json")

	builder, err := NewReportBuilder(context.Background(), cfg, history, fixedNow).ParseResults()
	require.NoError(t, err)
	report := builder.LoadHistory().Build().GetReport()

	assert.Nil(t, report.Trend)
	assert.Equal(t, schema.RecoveredStatus, builder.HistoryLoad().Status)
	history.AssertExpectations(t)
}

func TestReportBuilder_ZonelessHistoryKeepsTrend(t *testing.T) {
	cfg := pipelineConfig(t)
	data := `[
  {"timestamp": "2025-01-15T10:30:00.123456", "programs": {}, "totals": {"total_tests": 10, "overall_coverage": 70, "overall_quality": 80}},
  {"timestamp": "2025-01-16T10:30:00.654321", "programs": {}, "totals": {"total_tests": 12, "overall_coverage": 75, "overall_quality": 82}}
]`
	require.NoError(t, os.WriteFile(cfg.HistoryFile, []byte(data), 0o644))

	store := iostore.NewHistoryFile(cfg.HistoryFile, cfg.HistoryLimit)
	builder, err := NewReportBuilder(context.Background(), cfg, store, fixedNow).ParseResults()
	require.NoError(t, err)
	report := builder.LoadHistory().Build().GetReport()

	assert.Equal(t, schema.LoadedStatus, builder.HistoryLoad().Status)
	require.NotNil(t, report.Trend)
	assert.Equal(t, 2, report.Trend.Samples)
	assert.InDelta(t, 5.0, report.Trend.CoverageTrend, 1e-9)
}

func TestReportBuilder_NilHistory(t *testing.T) {
	cfg := pipelineConfig(t)

	builder, err := NewReportBuilder(context.Background(), cfg, nil, fixedNow).ParseResults()
	require.NoError(t, err)
	assert.Nil(t, builder.GetReport())

	report := builder.LoadHistory().Build().GetReport()
	require.NotNil(t, report)
	assert.Equal(t, schema.MissingStatus, builder.HistoryLoad().Status)
	assert.Len(t, builder.Parsed(), 2)
}

func TestReportBuilder_ParseError(t *testing.T) {
	cfg := pipelineConfig(t)
	cfg.Subjects = []string{"ARRAYS"}

	builder, err := NewReportBuilder(context.Background(), cfg, nil, fixedNow).ParseResults()
	assert.Nil(t, builder)
	assert.ErrorIs(t, err, contract.ErrNoResultFiles)
}
