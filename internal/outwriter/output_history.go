package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/testpulse/internal/contract"
	"github.com/huangsam/testpulse/internal/parquet"
	"github.com/huangsam/testpulse/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// historyExport is the JSON document written for the stored history.
type historyExport struct {
	Entries int                      `json:"entries"`
	History []schema.HistorySnapshot `json:"history"`
	Trend   *schema.TrendSummary     `json:"trend,omitempty"`
}

// PrintHistory outputs the stored snapshots, dispatching based on the output format configured.
func PrintHistory(history []schema.HistorySnapshot, trend *schema.TrendSummary, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if history == nil {
				history = []schema.HistorySnapshot{}
			}
			return writeJSON(w, historyExport{Entries: len(history), History: history, Trend: trend})
		}, "Wrote JSON history"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForHistory(w, history)
		}, "Wrote CSV history"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return parquet.WriteHistory(w, parquet.ConvertHistory(history))
		}, "Wrote Parquet history"); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHistoryTable(w, history, trend)
		}, "Wrote table")
	}
	return nil
}

// writeCSVResultsForHistory writes one row per subject per snapshot.
func writeCSVResultsForHistory(w io.Writer, history []schema.HistorySnapshot) error {
	header := []string{
		"timestamp", "program", "total_tests", "passed", "failed", "coverage",
		"quality_score", "overall_coverage", "overall_quality",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range parquet.ConvertHistory(history) {
			row := []string{
				r.Timestamp.Format(contract.DateTimeFormat),
				r.Subject,
				strconv.Itoa(int(r.TotalTests)),
				strconv.Itoa(int(r.Passed)),
				strconv.Itoa(int(r.Failed)),
				strconv.Itoa(int(r.Coverage)),
				strconv.Itoa(int(r.QualityScore)),
				strconv.Itoa(int(r.OverallCoverage)),
				strconv.Itoa(int(r.OverallQuality)),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeHistoryTable prints one row per snapshot with the change in coverage.
func writeHistoryTable(w io.Writer, history []schema.HistorySnapshot, trend *schema.TrendSummary) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"#", "Timestamp", "Programs", "Tests", "Passed", "Failed", "Coverage", "Quality", "Δ Coverage"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, snap := range history {
		delta := "-"
		if i > 0 {
			delta = formatSigned(float64(snap.Totals.OverallCoverage-history[i-1].Totals.OverallCoverage), 0)
		}
		t := snap.Totals
		data = append(data, []string{
			strconv.Itoa(i + 1),
			snap.Timestamp.Local().Format("2006-01-02 15:04:05"),
			strconv.Itoa(len(snap.Programs)),
			strconv.Itoa(t.TotalTests),
			strconv.Itoa(t.TotalPassed),
			strconv.Itoa(t.TotalFailed),
			fmt.Sprintf("%d%%", t.OverallCoverage),
			fmt.Sprintf("%d%%", t.OverallQuality),
			delta,
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Showing %d stored runs\n", len(history)); err != nil {
		return err
	}
	line := trendLine(trend)
	if line == "" {
		line = "Trend: not enough history (need at least 2 runs)"
	}
	_, err := fmt.Fprintln(w, line)
	return err
}
