package schema

import "time"

// SubjectReport bundles everything the renderers need about one subject.
type SubjectReport struct {
	Name     string          `json:"name"`
	Result   SubjectResult   `json:"result"`
	Analysis SubjectAnalysis `json:"analysis"`
	Missing  []ResultField   `json:"missing,omitempty"`
}

// Recommendation is a single actionable line in the text report.
type Recommendation struct {
	Subject string             `json:"subject,omitempty"`
	Kind    RecommendationKind `json:"kind"`
	Message string             `json:"message"`
}

// Report is the assembled, read-only input to every renderer.
type Report struct {
	GeneratedAt     time.Time        `json:"generated_at"`
	ResultsDir      string           `json:"results_dir"`
	Subjects        []SubjectReport  `json:"subjects"`
	Totals          AggregateTotals  `json:"totals"`
	Trend           *TrendSummary    `json:"trend,omitempty"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Results returns the subject counters keyed by name.
func (r *Report) Results() map[string]SubjectResult {
	out := make(map[string]SubjectResult, len(r.Subjects))
	for _, s := range r.Subjects {
		out[s.Name] = s.Result
	}
	return out
}

// Snapshot converts the report into the entry persisted to history.
func (r *Report) Snapshot() HistorySnapshot {
	return HistorySnapshot{
		Timestamp: r.GeneratedAt,
		Programs:  r.Results(),
		Totals:    r.Totals,
	}
}

// PipelineResult is what a full pipeline run produced on disk.
type PipelineResult struct {
	Report      *Report
	HistoryLoad LoadStatus
	HistorySize int
	TextReport  string
	HTMLReport  string
	ArchivePath string
	RunID       string
}
