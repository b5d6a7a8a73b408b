// Package core has core logic for parsing, analysis, trends and the report pipeline.
package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/testpulse/internal/contract"
	"github.com/huangsam/testpulse/internal/iostore"
	"github.com/huangsam/testpulse/internal/outwriter"
	"github.com/huangsam/testpulse/schema"
)

// Pipeline wires the collaborators of a single report run.
type Pipeline struct {
	History  contract.HistoryStore
	Archiver contract.Archiver
	Writer   contract.ReportWriter
	Tracking contract.TrackingManager // Optional

	Now      func() time.Time
	NewRunID func() string
}

// NewPipeline creates a pipeline backed by the files named in cfg.
func NewPipeline(cfg *contract.Config, mgr contract.TrackingManager) *Pipeline {
	return &Pipeline{
		History:  iostore.NewHistoryFile(cfg.HistoryFile, cfg.HistoryLimit),
		Archiver: iostore.NewArchiver(cfg.ArchiveDir, cfg.SummaryFile),
		Writer:   outwriter.NewOutWriter(),
		Tracking: mgr,
		Now:      time.Now,
		NewRunID: uuid.NewString,
	}
}

// ExecutePipeline runs the full report pipeline for cfg.ResultsDir.
// It serves as the main entry point for the root command.
func ExecutePipeline(ctx context.Context, cfg *contract.Config, mgr contract.TrackingManager) error {
	start := time.Now()
	result, err := NewPipeline(cfg, mgr).Run(ctx, cfg)
	if err != nil {
		return err
	}
	contract.LogInfo("✅ Analyzed %d programs in %v", len(result.Report.Subjects), time.Since(start).Round(time.Millisecond))
	return nil
}

// Run parses the results, renders both reports, archives the raw files, appends
// the run to history and mirrors it into the tracking store when one is enabled.
func (p *Pipeline) Run(ctx context.Context, cfg *contract.Config) (*schema.PipelineResult, error) {
	builder, err := NewReportBuilder(ctx, cfg, p.History, p.Now()).ParseResults()
	if err != nil {
		return nil, err
	}
	report := builder.LoadHistory().Build().GetReport()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &schema.PipelineResult{
		Report:      report,
		HistoryLoad: builder.HistoryLoad().Status,
		TextReport:  cfg.TextReport,
		HTMLReport:  cfg.HTMLReport,
		RunID:       p.NewRunID(),
	}

	if err := p.Writer.WriteTextReport(report, cfg.TextReport); err != nil {
		return nil, fmt.Errorf("failed to write text report: %w", err)
	}
	contract.LogInfo("📄 Wrote text report to %s", cfg.TextReport)

	if err := p.Writer.WriteHTMLReport(report, cfg, cfg.HTMLReport); err != nil {
		return nil, fmt.Errorf("failed to write HTML report: %w", err)
	}
	contract.LogInfo("📄 Wrote HTML report to %s", cfg.HTMLReport)

	if !cfg.NoArchive {
		archivePath, err := p.Archiver.Archive(ctx, cfg.ResultsDir, builder.Parsed(), report.GeneratedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to archive results: %w", err)
		}
		result.ArchivePath = archivePath
		contract.LogInfo("📦 Archived results to %s", archivePath)
	}

	history, err := p.History.Append(ctx, report.Snapshot())
	if err != nil {
		return nil, fmt.Errorf("failed to save history: %w", err)
	}
	result.HistorySize = len(history)
	contract.LogInfo("📈 Saved metrics history to %s (%d runs)", p.History.Path(), len(history))

	p.recordRun(result.RunID, report)

	if err := p.Writer.WriteSummary(report, cfg); err != nil {
		return nil, err
	}
	return result, nil
}

// recordRun mirrors the report into the tracking store. Failures never fail the run.
func (p *Pipeline) recordRun(runID string, report *schema.Report) {
	if p.Tracking == nil {
		return
	}
	store := p.Tracking.GetTrackingStore()
	if store == nil {
		return
	}
	if err := store.RecordRun(runID, report); err != nil {
		contract.LogWarn(fmt.Sprintf("Run tracking failed for %s", runID), err)
	}
}

// AnalyzeResults builds a report without writing anything. The trend uses the
// stored history when history is non-nil.
func AnalyzeResults(ctx context.Context, cfg *contract.Config, history contract.HistoryStore) (*schema.Report, error) {
	builder, err := NewReportBuilder(ctx, cfg, history, time.Now()).ParseResults()
	if err != nil {
		return nil, err
	}
	return builder.LoadHistory().Build().GetReport(), nil
}

// IsInputError reports whether err means the results directory held nothing to analyze.
func IsInputError(err error) bool {
	return errors.Is(err, contract.ErrResultsDirMissing) || errors.Is(err, contract.ErrNoResultFiles)
}
