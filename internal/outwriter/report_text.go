package outwriter

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/huangsam/testpulse/schema"
)

// ruleWidth is the width of the separator lines in the text report.
const ruleWidth = 80

// WriteTextReport renders the plain-text analysis report. The sections appear in a
// fixed order and the trend section only when the report carries a trend.
func WriteTextReport(w io.Writer, report *schema.Report) error {
	var b bytes.Buffer
	rule := strings.Repeat("=", ruleWidth)

	fmt.Fprintf(&b, "%s\n%s\n%s\n\n", rule, centered("ADVANCED METRICS ANALYSIS REPORT", ruleWidth), rule)
	fmt.Fprintf(&b, "Generated: %s\n", report.GeneratedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Results Directory: %s\n", report.ResultsDir)
	fmt.Fprintf(&b, "Programs Analyzed: %d\n", len(report.Subjects))

	section := 0
	heading := func(title string) {
		section++
		fmt.Fprintf(&b, "\n%d. %s\n%s\n", section, title, rule)
	}

	heading("CODE COMPLEXITY ANALYSIS")
	for _, s := range report.Subjects {
		a := s.Analysis
		fmt.Fprintf(&b, "\nProgram: %s\n", s.Name)
		fmt.Fprintf(&b, "  Complexity Level: %s\n", a.ComplexityLevel)
		fmt.Fprintf(&b, "  Complexity Score: %d/3\n", a.ComplexityScore)
		fmt.Fprintf(&b, "  Test Cases: %d\n", s.Result.TotalTests)
		fmt.Fprintf(&b, "  Coverage per Test: %.2f%%\n", a.CoveragePerTest)
		fmt.Fprintf(&b, "  Estimated Execution Paths: %s\n", a.ExecutionPathEstimate)
		fmt.Fprintf(&b, "  Quality Index: %d/100\n", a.QualityIndex)
		if len(s.Missing) > 0 {
			fmt.Fprintf(&b, "  Missing Fields: %s\n", joinFields(s.Missing))
		}
	}

	heading("COVERAGE ANALYSIS")
	for _, s := range report.Subjects {
		fmt.Fprintf(&b, "\nProgram: %s\n", s.Name)
		fmt.Fprintf(&b, "  Tested Code: %d%%\n", s.Result.Coverage)
		fmt.Fprintf(&b, "  Potentially Untested: %d%%\n", 100-s.Result.Coverage)
		fmt.Fprintf(&b, "  Test Effectiveness: %.1f%%\n", s.Analysis.TestEffectiveness)
	}

	if t := report.Trend; t != nil {
		heading("TREND ANALYSIS")
		fmt.Fprintf(&b, "\nSnapshots Considered: %d\n", t.Samples)
		fmt.Fprintf(&b, "Coverage Trend: %s%% per run\n", formatSigned(t.CoverageTrend, 2))
		fmt.Fprintf(&b, "Quality Trend: %s%% per run\n", formatSigned(t.QualityTrend, 2))
		fmt.Fprintf(&b, "Test Count Trend: %s tests per run\n", formatSigned(t.TestCountTrend, 2))
		fmt.Fprintf(&b, "Coverage Volatility: %.2f\n", t.CoverageVolatility)
		fmt.Fprintf(&b, "Quality Volatility: %.2f\n", t.QualityVolatility)
		b.WriteString("\nInterpretation:\n")
		b.WriteString("- Positive trends indicate improvement over time\n")
		b.WriteString("- Higher volatility indicates inconsistent results\n")
		b.WriteString("- Zero or negative trends indicate stagnation or regression\n")
	}

	heading("RECOMMENDATIONS")
	b.WriteString("\n")
	for _, rec := range report.Recommendations {
		fmt.Fprintf(&b, "• %s\n", rec.Message)
	}
	fmt.Fprintf(&b, "\n%s\n", rule)

	_, err := w.Write(b.Bytes())
	return err
}

// centered pads s on the left so it sits in the middle of width columns.
func centered(s string, width int) string {
	pad := (width - len(s)) / 2
	if pad <= 0 {
		return s
	}
	return strings.Repeat(" ", pad) + s
}

// joinFields renders a list of field names separated by commas.
func joinFields(fields []schema.ResultField) string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// summaryLine is the one-line digest printed after the terminal table.
func summaryLine(report *schema.Report) string {
	t := report.Totals
	return fmt.Sprintf("Total: %d tests, %d passed, %d failed, %d%% coverage, %d%% quality",
		t.TotalTests, t.TotalPassed, t.TotalFailed, t.OverallCoverage, t.OverallQuality)
}

// trendLine is the one-line digest of a trend, or empty when there is none.
func trendLine(trend *schema.TrendSummary) string {
	if trend == nil {
		return ""
	}
	return fmt.Sprintf("Trend over %d runs: coverage %s%%/run (σ %.2f), quality %s%%/run (σ %.2f), tests %s/run",
		trend.Samples,
		formatSigned(trend.CoverageTrend, 2), trend.CoverageVolatility,
		formatSigned(trend.QualityTrend, 2), trend.QualityVolatility,
		formatSigned(trend.TestCountTrend, 2))
}
