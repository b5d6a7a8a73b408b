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

// PrintSummary outputs the run summary, dispatching based on the output format configured.
func PrintSummary(report *schema.Report, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, report)
		}, "Wrote JSON summary"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForSummary(w, report)
		}, "Wrote CSV summary"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			rows := parquet.ConvertHistory([]schema.HistorySnapshot{report.Snapshot()})
			return parquet.WriteHistory(w, rows)
		}, "Wrote Parquet summary"); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if cfg.PrintReport {
				if err := WriteTextReport(w, report); err != nil {
					return err
				}
			}
			return writeSummaryTable(w, report, cfg)
		}, "Wrote table")
	}
	return nil
}

// summaryHeader is shared by the CSV writer.
var summaryHeader = []string{
	"program", "total_tests", "passed", "failed", "coverage", "quality_score",
	"quality_index", "test_effectiveness", "complexity", "execution_paths", "status",
}

// writeCSVResultsForSummary writes one row per subject.
func writeCSVResultsForSummary(w io.Writer, report *schema.Report) error {
	fmtFloat := createFormatters(1)
	return writeCSVWithHeader(w, summaryHeader, func(cw *csv.Writer) error {
		for _, s := range report.Subjects {
			row := []string{
				s.Name,
				strconv.Itoa(s.Result.TotalTests),
				strconv.Itoa(s.Result.Passed),
				strconv.Itoa(s.Result.Failed),
				strconv.Itoa(s.Result.Coverage),
				strconv.Itoa(s.Result.QualityScore),
				strconv.Itoa(s.Analysis.QualityIndex),
				fmtFloat(s.Analysis.TestEffectiveness),
				string(s.Analysis.ComplexityLevel),
				s.Analysis.ExecutionPathEstimate,
				string(s.Analysis.Status),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeSummaryTable generates and writes the human-readable table.
func writeSummaryTable(w io.Writer, report *schema.Report, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)

	// 1. Define Headers
	table.Header([]string{"Program", "Tests", "Passed", "Failed", "Coverage", "Quality", "Index", "Complexity", "Status"})

	// 2. Configure Alignment
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	nameWidth := GetMaxTableNameWidth(cfg)
	var data [][]string
	for _, s := range report.Subjects {
		coverage := fmt.Sprintf("%d%%", s.Result.Coverage)
		complexity := string(s.Analysis.ComplexityLevel)
		status := string(s.Analysis.Status)
		if cfg.UseColors {
			coverage = contract.GetColorCoverage(s.Result.Coverage, cfg.CoverageThreshold)
			complexity = contract.GetColorComplexity(s.Analysis.ComplexityLevel)
			status = contract.GetColorStatus(s.Analysis.Status)
		}
		data = append(data, []string{
			contract.TruncateName(s.Name, nameWidth),
			strconv.Itoa(s.Result.TotalTests),
			strconv.Itoa(s.Result.Passed),
			strconv.Itoa(s.Result.Failed),
			coverage,
			fmt.Sprintf("%d%%", s.Result.QualityScore),
			strconv.Itoa(s.Analysis.QualityIndex),
			complexity,
			status,
		})
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, summaryLine(report)); err != nil {
		return err
	}
	if line := trendLine(report.Trend); line != "" {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
