package schema

import "time"

// TrackingRunRecord represents a row from the testpulse_runs table.
type TrackingRunRecord struct {
	RunID           string
	ResultsDir      string
	RunTime         time.Time
	SubjectCount    int32
	TotalTests      int32
	TotalPassed     int32
	TotalFailed     int32
	OverallCoverage int32
	OverallQuality  int32
}

// TrackingSubjectRecord represents a row from the testpulse_subject_results table.
type TrackingSubjectRecord struct {
	RunID           string
	Subject         string
	TotalTests      int32
	Passed          int32
	Failed          int32
	Coverage        int32
	QualityScore    int32
	ComplexityLevel string
	QualityIndex    int32
	Status          string
}
