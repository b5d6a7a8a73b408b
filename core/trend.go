package core

import (
	"math"

	"github.com/huangsam/testpulse/schema"
)

// minTrendSamples is the number of snapshots needed for a single delta.
const minTrendSamples = 2

// AnalyzeTrends summarizes how the aggregate totals moved between consecutive
// snapshots. It returns nil when fewer than two snapshots are available.
// A positive window limits the analysis to the most recent snapshots.
func AnalyzeTrends(history []schema.HistorySnapshot, window int) *schema.TrendSummary {
	if window > 0 && len(history) > window {
		history = history[len(history)-window:]
	}
	if len(history) < minTrendSamples {
		return nil
	}

	n := len(history) - 1
	coverageDeltas := make([]float64, 0, n)
	qualityDeltas := make([]float64, 0, n)
	testDeltas := make([]float64, 0, n)
	for i := 1; i < len(history); i++ {
		prev, curr := history[i-1].Totals, history[i].Totals
		coverageDeltas = append(coverageDeltas, float64(curr.OverallCoverage-prev.OverallCoverage))
		qualityDeltas = append(qualityDeltas, float64(curr.OverallQuality-prev.OverallQuality))
		testDeltas = append(testDeltas, float64(curr.TotalTests-prev.TotalTests))
	}

	return &schema.TrendSummary{
		Samples:            len(history),
		CoverageTrend:      mean(coverageDeltas),
		QualityTrend:       mean(qualityDeltas),
		TestCountTrend:     mean(testDeltas),
		CoverageVolatility: roundTo(populationStdDev(coverageDeltas), 2),
		QualityVolatility:  roundTo(populationStdDev(qualityDeltas), 2),
	}
}

// TrendFromLoad computes the trend of a stored history. A recovered history has
// no trend because the skipped entries would distort the deltas.
func TrendFromLoad(load schema.HistoryLoad, window int) *schema.TrendSummary {
	if load.Status != schema.LoadedStatus {
		return nil
	}
	return AnalyzeTrends(load.History, window)
}

// mean returns the arithmetic mean, or 0 for an empty slice.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// populationStdDev divides by the count, not count-1.
func populationStdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	sumSquares := 0.0
	for _, v := range values {
		d := v - m
		sumSquares += d * d
	}
	return math.Sqrt(sumSquares / float64(len(values)))
}
