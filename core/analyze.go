package core

import (
	"fmt"
	"math"

	"github.com/huangsam/testpulse/schema"
)

// Complexity thresholds on the number of test cases.
const (
	lowComplexityMax    = 5
	mediumComplexityMax = 20
)

// pathEstimateSmall is the test count below which the path range doubles.
const pathEstimateSmall = 10

// classifyComplexity buckets a subject by its test count.
func classifyComplexity(totalTests int) schema.ComplexityLevel {
	switch {
	case totalTests <= lowComplexityMax:
		return schema.LowComplexity
	case totalTests <= mediumComplexityMax:
		return schema.MediumComplexity
	default:
		return schema.HighComplexity
	}
}

// estimateExecutionPaths returns the "lo-hi" range of execution paths for n tests.
func estimateExecutionPaths(n int) string {
	if n < pathEstimateSmall {
		return fmt.Sprintf("%d-%d", n, 2*n)
	}
	return fmt.Sprintf("%d-%d", n, n+n/2)
}

// computeQualityIndex weighs pass rate and coverage equally, each worth at most 50 points.
func computeQualityIndex(r schema.SubjectResult) int {
	passPoints := 0.0
	if r.TotalTests > 0 {
		passPoints = float64(r.Passed) * 50 / float64(r.TotalTests)
	}
	index := int(math.Floor(passPoints + float64(r.Coverage)*0.5))
	return max(0, min(100, index))
}

// computeTestEffectiveness is the pass percentage rounded to one decimal.
func computeTestEffectiveness(r schema.SubjectResult) float64 {
	if r.TotalTests <= 0 {
		return 0
	}
	return roundTo(float64(r.Passed)*100/float64(r.TotalTests), 1)
}

// AnalyzeSubject derives the per-subject figures from its counters.
func AnalyzeSubject(r schema.SubjectResult) schema.SubjectAnalysis {
	level := classifyComplexity(r.TotalTests)

	coveragePerTest := 0.0
	if r.TotalTests > 0 {
		coveragePerTest = float64(r.Coverage) / float64(r.TotalTests)
	}

	return schema.SubjectAnalysis{
		ComplexityLevel:       level,
		ComplexityScore:       level.Score(),
		CoveragePerTest:       coveragePerTest,
		ExecutionPathEstimate: estimateExecutionPaths(r.TotalTests),
		QualityIndex:          computeQualityIndex(r),
		TestEffectiveness:     computeTestEffectiveness(r),
		Status:                schema.StatusFor(r),
	}
}

// Analyze derives the analysis of every subject.
func Analyze(subjects map[string]schema.SubjectResult) map[string]schema.SubjectAnalysis {
	out := make(map[string]schema.SubjectAnalysis, len(subjects))
	for name, r := range subjects {
		out[name] = AnalyzeSubject(r)
	}
	return out
}

// Aggregate sums counters across subjects. Coverage and quality are integer means
// over the subjects actually present.
func Aggregate(subjects map[string]schema.SubjectResult) schema.AggregateTotals {
	var totals schema.AggregateTotals
	if len(subjects) == 0 {
		return totals
	}

	var coverageSum, qualitySum int
	for _, r := range subjects {
		totals.TotalTests += r.TotalTests
		totals.TotalPassed += r.Passed
		totals.TotalFailed += r.Failed
		coverageSum += r.Coverage
		qualitySum += r.QualityScore
	}
	totals.OverallCoverage = coverageSum / len(subjects)
	totals.OverallQuality = qualitySum / len(subjects)
	return totals
}

// roundTo rounds v to the given number of decimal places.
func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
