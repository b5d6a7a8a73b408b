package outwriter

import (
	"time"

	"github.com/huangsam/testpulse/internal/contract"
	"github.com/huangsam/testpulse/schema"
)

// testReport builds a two-subject report with an optional trend.
func testReport(withTrend bool) *schema.Report {
	report := &schema.Report{
		GeneratedAt: time.Date(2026, 4, 2, 10, 30, 0, 0, time.Local),
		ResultsDir:  "/ci/test_results",
		Subjects: []schema.SubjectReport{
			{
				Name:   "NUMBERS",
				Result: schema.SubjectResult{TotalTests: 10, Passed: 8, Failed: 2, Coverage: 85, QualityScore: 80},
				Analysis: schema.SubjectAnalysis{
					ComplexityLevel: schema.MediumComplexity, ComplexityScore: 2, CoveragePerTest: 8.5,
					ExecutionPathEstimate: "10-15", QualityIndex: 82, TestEffectiveness: 80, Status: schema.PartialStatus,
				},
			},
			{
				Name:   "STRINGS",
				Result: schema.SubjectResult{TotalTests: 4, Passed: 4, Coverage: 60, QualityScore: 70},
				Analysis: schema.SubjectAnalysis{
					ComplexityLevel: schema.LowComplexity, ComplexityScore: 1, CoveragePerTest: 15,
					ExecutionPathEstimate: "4-8", QualityIndex: 80, TestEffectiveness: 100, Status: schema.PassStatus,
				},
				Missing: []schema.ResultField{schema.FieldFailed},
			},
		},
		Totals: schema.AggregateTotals{TotalTests: 14, TotalPassed: 12, TotalFailed: 2, OverallCoverage: 72, OverallQuality: 75},
		Recommendations: []schema.Recommendation{
			{Subject: "NUMBERS", Kind: schema.FailuresRecommendation, Message: "NUMBERS passed 8 of 10 tests; review the failing assertions"},
			{Subject: "STRINGS", Kind: schema.CoverageRecommendation, Message: "STRINGS has low coverage (60%, target 80%); add tests for untested paths"},
		},
	}
	if withTrend {
		report.Trend = &schema.TrendSummary{Samples: 3, CoverageTrend: 5, QualityTrend: -1.5, TestCountTrend: 0, CoverageVolatility: 0, QualityVolatility: 0.5}
	}
	return report
}

// testConfig returns a config with a fixed width and no colors.
func testConfig(output schema.OutputMode, outputFile string) *contract.Config {
	return &contract.Config{
		Output:            output,
		OutputFile:        outputFile,
		Width:             120,
		CoverageThreshold: contract.DefaultCoverageThreshold,
		ChartURL:          contract.DefaultChartURL,
	}
}
