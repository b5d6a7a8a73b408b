// Package schema has configs, models and global variables for all parts of testpulse.
package schema

import "slices"

// SubjectResult holds the counters parsed from one subject's result file.
// Passed and Failed are reported independently and need not sum to TotalTests.
type SubjectResult struct {
	TotalTests   int `json:"total_tests"`
	Passed       int `json:"passed"`
	Failed       int `json:"failed"`
	Coverage     int `json:"coverage"`      // Percent of code exercised (0-100)
	QualityScore int `json:"quality_score"` // Upstream-reported score (0-100)
}

// Value returns the counter stored under the given field.
func (r SubjectResult) Value(field ResultField) int {
	switch field {
	case FieldTotalTests:
		return r.TotalTests
	case FieldPassed:
		return r.Passed
	case FieldFailed:
		return r.Failed
	case FieldCoverage:
		return r.Coverage
	case FieldQualityScore:
		return r.QualityScore
	default:
		return 0
	}
}

// ParsedSubject is the outcome of parsing one result file. Fields that were
// not present in the source text are zero in Result and absent from Found.
type ParsedSubject struct {
	Name   string               `json:"name"`
	Path   string               `json:"path"`
	Result SubjectResult        `json:"result"`
	Found  map[ResultField]bool `json:"found"`
}

// IsFound reports whether the field was present in the source text.
func (p ParsedSubject) IsFound(field ResultField) bool {
	return p.Found[field]
}

// Missing returns the fields that were defaulted to zero, in report order.
func (p ParsedSubject) Missing() []ResultField {
	var missing []ResultField
	for _, f := range AllResultFields {
		if !p.Found[f] {
			missing = append(missing, f)
		}
	}
	return missing
}

// Complete reports whether every field was present in the source text.
func (p ParsedSubject) Complete() bool {
	return len(p.Missing()) == 0
}

// SubjectAnalysis holds the figures derived from a single SubjectResult.
type SubjectAnalysis struct {
	ComplexityLevel       ComplexityLevel `json:"complexity_level"`
	ComplexityScore       int             `json:"complexity_score"`
	CoveragePerTest       float64         `json:"coverage_per_test"`
	ExecutionPathEstimate string          `json:"execution_path_estimate"`
	QualityIndex          int             `json:"quality_index"`
	TestEffectiveness     float64         `json:"test_effectiveness"`
	Status                Status          `json:"status"`
}

// AggregateTotals sums counters across every subject in a run.
type AggregateTotals struct {
	TotalTests      int `json:"total_tests"`
	TotalPassed     int `json:"total_passed"`
	TotalFailed     int `json:"total_failed"`
	OverallCoverage int `json:"overall_coverage"`
	OverallQuality  int `json:"overall_quality"`
}

// SubjectNames returns the sorted keys of a subject map.
func SubjectNames[V any](subjects map[string]V) []string {
	names := make([]string, 0, len(subjects))
	for name := range subjects {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
