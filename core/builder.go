package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/testpulse/internal/contract"
	"github.com/huangsam/testpulse/schema"
)

// ReportBuilder assembles a report step by step: parse, load prior history, build.
type ReportBuilder struct {
	ctx     context.Context
	cfg     *contract.Config
	history contract.HistoryStore
	now     time.Time
	parsed  []schema.ParsedSubject
	load    schema.HistoryLoad
	report  *schema.Report
}

// NewReportBuilder creates a new builder for a report generated at now.
func NewReportBuilder(ctx context.Context, cfg *contract.Config, history contract.HistoryStore, now time.Time) *ReportBuilder {
	return &ReportBuilder{
		ctx:     ctx,
		cfg:     cfg,
		history: history,
		now:     now,
	}
}

// ParseResults reads the result file of every configured or discovered subject.
func (b *ReportBuilder) ParseResults() (*ReportBuilder, error) {
	parsed, err := ParseResults(b.ctx, b.cfg.ResultsDir, b.cfg.Subjects, b.cfg.SummaryFile)
	if err != nil {
		return nil, err
	}
	for _, p := range parsed {
		if !p.Complete() {
			contract.LogWarn(fmt.Sprintf("Incomplete results for %s", p.Name),
				fmt.Errorf("missing %v, defaulted to 0", p.Missing()))
		}
	}
	b.parsed = parsed
	return b, nil
}

// LoadHistory reads the snapshots stored before this run. Unreadable history is
// reported once and disables the trend for this run.
func (b *ReportBuilder) LoadHistory() *ReportBuilder {
	if b.history == nil {
		b.load = schema.HistoryLoad{Status: schema.MissingStatus}
		return b
	}
	b.load = b.history.Load()
	if b.load.Recovered() {
		contract.LogWarn(fmt.Sprintf("History at %s could not be fully read, trend analysis skipped", b.history.Path()), b.load.Err)
	}
	return b
}

// Build assembles the report from the parsed subjects and the loaded history.
func (b *ReportBuilder) Build() *ReportBuilder {
	var prior []schema.HistorySnapshot
	if b.load.Status == schema.LoadedStatus {
		prior = b.load.History
	}
	b.report = BuildReport(b.parsed, prior, b.cfg, b.now)
	return b
}

// Parsed returns the parsed subjects, in name order.
func (b *ReportBuilder) Parsed() []schema.ParsedSubject {
	return b.parsed
}

// HistoryLoad returns the outcome of LoadHistory.
func (b *ReportBuilder) HistoryLoad() schema.HistoryLoad {
	return b.load
}

// GetReport returns the built report, or nil before Build.
func (b *ReportBuilder) GetReport() *schema.Report {
	return b.report
}

// BuildReport combines parsed subjects and prior history into a report. The trend
// is computed over prior history only, so the current run never counts toward it.
func BuildReport(parsed []schema.ParsedSubject, prior []schema.HistorySnapshot, cfg *contract.Config, now time.Time) *schema.Report {
	subjects := make([]schema.SubjectReport, 0, len(parsed))
	results := make(map[string]schema.SubjectResult, len(parsed))
	for _, p := range parsed {
		results[p.Name] = p.Result
		subjects = append(subjects, schema.SubjectReport{
			Name:     p.Name,
			Result:   p.Result,
			Analysis: AnalyzeSubject(p.Result),
			Missing:  p.Missing(),
		})
	}

	return &schema.Report{
		GeneratedAt:     now,
		ResultsDir:      cfg.ResultsDir,
		Subjects:        subjects,
		Totals:          Aggregate(results),
		Trend:           AnalyzeTrends(prior, cfg.TrendWindow),
		Recommendations: Recommend(subjects, cfg.CoverageThreshold),
	}
}
